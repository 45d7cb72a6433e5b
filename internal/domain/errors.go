package domain

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
	ErrCommit     = errors.New("commit failed")
	// ErrDuplicate is returned by stores when a uniqueness constraint rejects an insert.
	ErrDuplicate = errors.New("duplicate entry")
)
