package errors

import "errors"

var (
	ErrNotFound = errors.New("availability not found")

	ErrGapNotFound = errors.New("time gap not found")
)
