package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist-go/internal/backup"
	"github.com/nibzard/tasklist-go/internal/config"
	"github.com/nibzard/tasklist-go/internal/logging"
	"github.com/nibzard/tasklist-go/internal/platform"
	"github.com/nibzard/tasklist-go/internal/todo"
)

// session is one command's view of the data file: it is imported into a
// fresh store on open and exported back by save.
type session struct {
	cfg     *config.Config
	logger  *log.Logger
	store   *todo.Store
	files   platform.DirFiles
	journal *logging.Journal
	detach  func()
}

func newLogger(cfg *config.Config) *log.Logger {
	return logging.NewFromConfig(os.Stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
}

func importOptions(cfg *config.Config) backup.ImportOptions {
	return backup.ImportOptions{Strict: cfg.StrictImport, SchemaPath: cfg.SchemaFile}
}

// openSession loads the configured data file. A missing data file is an
// empty task list.
func openSession(ctx context.Context, cfg *config.Config) (*session, error) {
	s := &session{
		cfg:    cfg,
		logger: newLogger(cfg),
		store:  todo.NewStore(),
		files:  platform.DirFiles{Dir: cfg.ProjectRoot},
	}

	if cfg.Journal {
		journal, err := logging.NewJournal(cfg.LogDir, cfg.ProjectRoot)
		if err != nil {
			s.logger.Warn("session journal disabled", "err", err)
		} else {
			s.journal = journal
			s.detach = journal.Attach(s.store, func(err error) {
				s.logger.Warn("journal write failed", "err", err)
			})
			s.logger.Debug("journal", "path", journal.Path)
		}
	}

	if _, err := os.Stat(cfg.DataFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("no data file yet", "path", cfg.DataFile)
			return s, nil
		}
		s.close()
		return nil, fmt.Errorf("data file: %w", err)
	}

	if err := backup.Import(ctx, s.store, s.files, cfg.DataFile, nil, importOptions(cfg)); err != nil {
		s.close()
		return nil, err
	}
	s.logger.Debug("loaded", "path", cfg.DataFile, "tasks", s.store.Len())
	return s, nil
}

// save exports the store back to the data file.
func (s *session) save() error {
	if err := backup.Export(s.store, s.files, s.cfg.DataFile); err != nil {
		return err
	}
	s.logger.Debug("saved", "path", s.cfg.DataFile, "tasks", s.store.Len())
	return nil
}

func (s *session) close() {
	if s.detach != nil {
		s.detach()
	}
	if err := s.journal.Close(); err != nil {
		s.logger.Warn("closing journal", "err", err)
	}
}
