package assets

import (
	"errors"
	"fmt"
)

var ErrAssetNotFound = errors.New("asset not found")

// ValidationError rejects one field of a create or update request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// PersistenceError reports a failed read or write of the durable collection.
// The in-memory collection is left as it was before the operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: changes may not be saved: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
