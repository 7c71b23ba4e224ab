package repo_errors

import "errors"

var (
	// ErrNotFound: the addressed row does not exist.
	ErrNotFound = errors.New("entity not found")
	// ErrAlreadyExists: a unique constraint rejected the insert.
	ErrAlreadyExists = errors.New("entity already exists")
	// ErrConflict: a conditional update matched no rows because the entity
	// left the expected state.
	ErrConflict = errors.New("entity is not in the expected state")
	// ErrOutOfStock: a listing could no longer cover the requested quantity.
	ErrOutOfStock = errors.New("not enough available quantity")
)
