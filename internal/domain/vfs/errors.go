package vfs

import "errors"

var (
	ErrNotFound        = errors.New("no such file or directory")
	ErrAlreadyExists   = errors.New("file exists")
	ErrTypeMismatch    = errors.New("type mismatch")
	ErrInvalidName     = errors.New("invalid name")
	ErrInvalidTarget   = errors.New("cannot move a directory into itself")
	ErrInvalidPattern  = errors.New("invalid search pattern")
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
	ErrNotDirectory    = &typeMismatchError{msg: "not a directory"}
	ErrNotFile         = &typeMismatchError{msg: "is a directory"}
)

// typeMismatchError narrows ErrTypeMismatch so callers can match either the
// specific case or the whole class with errors.Is.
type typeMismatchError struct {
	msg string
}

func (e *typeMismatchError) Error() string { return e.msg }

func (e *typeMismatchError) Unwrap() error { return ErrTypeMismatch }
