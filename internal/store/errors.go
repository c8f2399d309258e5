package store

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/goaltree/internal/repository"
)

var (
	// ErrStorage marks a read or write the backend could not complete.
	// It is never retried here.
	ErrStorage = errors.New("storage failure")

	// ErrClosed is returned for operations submitted to, or still queued
	// in, a closed store.
	ErrClosed = errors.New("node store closed")

	// ErrParentChanged rejects a merge that would move a stored node
	// under a different parent.
	ErrParentChanged = errors.New("parent cannot be changed")
)

// storageErr tags backend errors with ErrStorage. Missing rows are a
// caller problem, not a storage failure, and pass through unchanged.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
