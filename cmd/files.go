package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/nibzard/tasklist-go/internal/backup"
	"github.com/nibzard/tasklist-go/internal/config"
	"github.com/nibzard/tasklist-go/internal/platform"
	"github.com/nibzard/tasklist-go/internal/todo"
)

func exportCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasklist export", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("export: exactly one output file is required")
	}
	name := fs.Arg(0)

	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.close()

	if name == "-" {
		data, err := todo.Export(s.store.Snapshot())
		if err != nil {
			return err
		}
		_, err = stdout.Write(data)
		return err
	}

	files := platform.DirFiles{Dir: workingDir()}
	if err := backup.Export(s.store, files, name); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Exported %d tasks to %s\n", s.store.Len(), files.Path(name))
	return nil
}

// importCommand replaces the data file's tasks with the content of a file.
// The data file is left untouched when the file cannot be imported.
func importCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasklist import", flag.ContinueOnError)
	strict := fs.Bool("strict", cfg.StrictImport, "Validate against the JSON Schema first")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("import: exactly one input file is required")
	}
	name := fs.Arg(0)

	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.close()

	opts := importOptions(cfg)
	opts.Strict = *strict
	files := platform.DirFiles{Dir: workingDir()}
	notifier := platform.LogNotifier{Logger: s.logger}
	if err := <-backup.ImportAsync(ctx, s.store, files, name, notifier, opts); err != nil {
		return fmt.Errorf("import failed, %s was not changed", cfg.DataFile)
	}
	if err := s.save(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Imported %d tasks from %s\n", s.store.Len(), files.Path(name))
	return nil
}

// validateCommand checks a file against the JSON Schema and reports every
// violation.
func validateCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasklist validate", flag.ContinueOnError)
	schema := fs.String("schema", cfg.SchemaFile, "Schema file (default: embedded)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args()[1:])
	}
	path := cfg.DataFile
	if fs.NArg() == 1 {
		path = fs.Arg(0)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	result := todo.ValidateSchema(data, todo.ValidationOptions{SchemaPath: *schema})
	for _, w := range result.Warnings {
		fmt.Fprintf(stdout, "warning: %s\n", w)
	}
	fmt.Fprintf(stdout, "Schema: %s\n", result.SchemaSource)
	if !result.Valid {
		for _, e := range result.Errors {
			fmt.Fprintf(stdout, "  %v\n", e)
		}
		return fmt.Errorf("%s: %d validation errors", path, len(result.Errors))
	}

	tasks, err := todo.Import(data)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s: valid, %d tasks\n", path, len(tasks))
	return nil
}

func workingDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}
