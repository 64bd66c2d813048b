package apperr

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrArchived = errors.New("note is archived")
)
