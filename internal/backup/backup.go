// Package backup exports the task collection to a file and restores it.
package backup

import (
	"context"
	"fmt"

	"github.com/nibzard/tasklist-go/internal/platform"
	"github.com/nibzard/tasklist-go/internal/todo"
)

// ImportOptions controls Import.
type ImportOptions struct {
	// Strict validates the document against a JSON Schema before replacing.
	Strict bool
	// SchemaPath overrides the embedded schema in strict mode.
	SchemaPath string
}

// Export writes the store's current collection to name.
func Export(store *todo.Store, saver platform.FileSaver, name string) error {
	data, err := todo.Export(store.Snapshot())
	if err != nil {
		return err
	}
	if err := saver.Save(name, data); err != nil {
		return fmt.Errorf("export %s: %w", name, err)
	}
	return nil
}

// Load reads and decodes the task list at name without touching any store.
func Load(ctx context.Context, opener platform.FileOpener, name string, opts ImportOptions) ([]todo.Task, error) {
	data, err := opener.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", name, err)
	}
	if opts.Strict {
		result := todo.ValidateSchema(data, todo.ValidationOptions{SchemaPath: opts.SchemaPath})
		if err := result.Err(); err != nil {
			return nil, fmt.Errorf("import %s: %w", name, err)
		}
	}
	tasks, err := todo.Import(data)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", name, err)
	}
	return tasks, nil
}

// Import replaces the store's collection with the task list at name. On
// any failure the store is left unchanged, notifier is told, and the
// error is returned.
func Import(ctx context.Context, store *todo.Store, opener platform.FileOpener, name string, notifier platform.Notifier, opts ImportOptions) error {
	tasks, err := Load(ctx, opener, name, opts)
	if err != nil {
		if notifier != nil {
			notifier.Notify(err.Error())
		}
		return err
	}
	store.ReplaceAll(tasks)
	return nil
}

// ImportAsync runs Import in a goroutine. The store stays usable while the
// read is pending. The channel receives the result and is then closed.
func ImportAsync(ctx context.Context, store *todo.Store, opener platform.FileOpener, name string, notifier platform.Notifier, opts ImportOptions) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- Import(ctx, store, opener, name, notifier, opts)
	}()
	return done
}
