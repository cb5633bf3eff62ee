// Package repository holds helpers shared by the store-backed repositories.
package repository

import (
	"github.com/kailas-cloud/worldsearch/internal/db"
	"github.com/kailas-cloud/worldsearch/internal/domain"
)

// Wrap tags a store failure with op. Failures to reach the database
// additionally match domain.ErrStoreUnavailable.
func Wrap(op string, err error) error {
	if db.Unavailable(err) {
		err = unavailableError{err: err}
	}
	return &db.Error{Op: op, Err: err}
}

type unavailableError struct {
	err error
}

func (e unavailableError) Error() string        { return e.err.Error() }
func (e unavailableError) Unwrap() error        { return e.err }
func (e unavailableError) Is(target error) bool { return target == domain.ErrStoreUnavailable }
