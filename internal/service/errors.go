package service

import "errors"

var (
	ErrEmptyName     = errors.New("name must not be empty")
	ErrInvalidColor  = errors.New("invalid color")
	ErrInvalidImport = errors.New("import validation failed")
)
