package books

import "errors"

var (
	ErrNotFound     = errors.New("books: not found")
	ErrConflict     = errors.New("books: conflict")
	ErrInvalidInput = errors.New("books: invalid input")
)
