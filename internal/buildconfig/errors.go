package buildconfig

import "errors"

var (
	// ErrInvalidLayout indicates the project layout failed validation
	ErrInvalidLayout = errors.New("invalid project layout")
	// ErrNoEntries indicates the layout names no entry points
	ErrNoEntries = errors.New("no entry points configured")
)
