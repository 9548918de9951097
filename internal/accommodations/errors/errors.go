package errors

import "errors"

var (
	ErrNotFound = errors.New("accommodation not found")

	ErrInvalidID = errors.New("invalid accommodation ID format")

	ErrDuplicateSlug = errors.New("accommodation slug already exists")
)
