package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sandeepkv93/tasklist/internal/export"
	"github.com/sandeepkv93/tasklist/internal/tasklist"
)

// Manager is the part of tasklist.Manager the handlers drive.
type Manager interface {
	Load(ctx context.Context) ([]string, error)
	Add(ctx context.Context, text string) ([]string, error)
	Delete(ctx context.Context, index int) ([]string, error)
}

// NumberError reports a task number, as the user typed it, that names no
// task. It matches tasklist.ErrIndexOutOfRange.
type NumberError struct {
	Number int
	Count  int
}

func (e *NumberError) Error() string {
	if e.Count == 0 {
		return fmt.Sprintf("task %d out of range: list is empty", e.Number)
	}
	return fmt.Sprintf("task %d out of range: list has tasks 1 to %d", e.Number, e.Count)
}

func (e *NumberError) Unwrap() error {
	return tasklist.ErrIndexOutOfRange
}

// DeleteNumber deletes the task shown as d.Number and reports range errors
// in the same numbering.
func DeleteNumber(ctx context.Context, mgr Manager, d DeleteArgs) ([]string, error) {
	items, err := mgr.Delete(ctx, d.Index())
	var ie *tasklist.IndexError
	if errors.As(err, &ie) {
		return nil, &NumberError{Number: d.Number, Count: ie.Len}
	}
	return items, err
}

// NewHandlers binds every command to mgr. Exports are written to
// exportDir as tasklist-export.<format>.
func NewHandlers(ctx context.Context, mgr Manager, exportDir string) Handlers {
	return Handlers{
		Add: func(a AddArgs) (Result, error) {
			items, err := mgr.Add(ctx, a.Text)
			if err != nil {
				return Result{}, err
			}
			return Result{Message: fmt.Sprintf("added task %d", len(items)), Items: items}, nil
		},
		Delete: func(d DeleteArgs) (Result, error) {
			items, err := DeleteNumber(ctx, mgr, d)
			if err != nil {
				return Result{}, err
			}
			return Result{Message: fmt.Sprintf("deleted task %d", d.Number), Items: items}, nil
		},
		List: func() (Result, error) {
			items, err := mgr.Load(ctx)
			if err != nil {
				return Result{}, err
			}
			return Result{Message: fmt.Sprintf("%d tasks", len(items)), Items: items}, nil
		},
		Export: func(e ExportArgs) (Result, error) {
			format, err := export.ParseFormat(e.Format)
			if err != nil {
				return Result{}, err
			}
			items, err := mgr.Load(ctx)
			if err != nil {
				return Result{}, err
			}
			payload, err := export.Export(items, format)
			if err != nil {
				return Result{}, err
			}
			path := filepath.Join(exportDir, "tasklist-export."+string(format))
			if err := os.WriteFile(path, payload, 0o644); err != nil {
				return Result{}, fmt.Errorf("write export: %w", err)
			}
			return Result{Message: fmt.Sprintf("exported %d tasks to %s", len(items), path), Items: items}, nil
		},
	}
}
