package fileio

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrNotFound reports an expected input file or directory that is missing.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists reports a target that exists when it is about to be created.
	ErrAlreadyExists = errors.New("already exists")
	// ErrPermission reports a write target that is not writable.
	ErrPermission = errors.New("not writable")
	// ErrKeyLookup reports a key absent from a registry (genome build, signature category, organism).
	ErrKeyLookup = errors.New("key not found")
	// ErrPatternMatch reports a glob that matched nothing.
	ErrPatternMatch = errors.New("no match")
)

// classify maps filesystem errors onto the sentinels above, keeping anything else as is.
func classify(op, path string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%s %s: %w", op, path, ErrNotFound)
	case errors.Is(err, fs.ErrExist):
		return fmt.Errorf("%s %s: %w", op, path, ErrAlreadyExists)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%s %s: %w", op, path, ErrPermission)
	default:
		return fmt.Errorf("%s %s: %w", op, path, err)
	}
}
