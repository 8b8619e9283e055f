package tasklist

import (
	"errors"
	"fmt"

	"github.com/sandeepkv93/tasklist/internal/storage"
)

var (
	ErrEmptyInput      = errors.New("tasklist: empty input")
	ErrIndexOutOfRange = errors.New("tasklist: index out of range")
	ErrCorruptState    = errors.New("tasklist: corrupt persisted state")
	// ErrInvalidText rejects text that is not valid UTF-8 and so could not
	// be stored unchanged.
	ErrInvalidText = errors.New("tasklist: text is not valid utf-8")
	// ErrConflict reports that the slot was written by someone else between
	// load and save. Nothing was written.
	ErrConflict = storage.ErrVersionConflict
)

type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	if e.Len == 0 {
		return fmt.Sprintf("tasklist: index %d out of range: list is empty", e.Index)
	}
	return fmt.Sprintf("tasklist: index %d out of range [0, %d)", e.Index, e.Len)
}

func (e *IndexError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}
