package runtimecfg

import "errors"

var (
	// ErrMissingLauncher is returned when no launcher binary name is set.
	ErrMissingLauncher = errors.New("launcher binary name is required")

	// ErrMissingJobFilePath is returned when no multi-program file path is set.
	ErrMissingJobFilePath = errors.New("multi-program file path is required")
)
