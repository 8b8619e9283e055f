package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tasklist/internal/commands"
	"github.com/sandeepkv93/tasklist/internal/export"
	"github.com/sandeepkv93/tasklist/internal/tasklist"
)

const (
	// ExitSuccess indicates successful completion.
	ExitSuccess = 0
	// ExitUserError covers bad arguments, rejected input and unknown task numbers.
	ExitUserError = 1
	// ExitStorageError covers unreadable, corrupt or conflicting storage.
	ExitStorageError = 2
)

// runError marks errors produced while a command was running, as opposed
// to cobra rejecting the flags or arguments.
type runError struct {
	err error
}

func (e *runError) Error() string { return e.err.Error() }
func (e *runError) Unwrap() error { return e.err }

// usageError marks errors caused by how the command was invoked.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func userErr(err error) error {
	if err == nil {
		return nil
	}
	return &usageError{err: err}
}

func runE(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return &runError{err: err}
		}
		return nil
	}
}

// ExitCode maps an error returned by a command to the process exit code.
// Errors raised by cobra itself are usage errors.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var re *runError
	if !errors.As(err, &re) {
		return ExitUserError
	}
	var ue *usageError
	var ce *commands.CommandError
	switch {
	case errors.As(err, &ue), errors.As(err, &ce):
		return ExitUserError
	case errors.Is(err, tasklist.ErrEmptyInput),
		errors.Is(err, tasklist.ErrIndexOutOfRange),
		errors.Is(err, tasklist.ErrInvalidText),
		errors.Is(err, export.ErrUnsupportedFormat):
		return ExitUserError
	default:
		return ExitStorageError
	}
}
