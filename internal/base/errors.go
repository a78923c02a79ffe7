// Package base provides base functionality and error definitions.
package base

import "errors"

// Error definitions for base package.
var (
	// Specification file errors.
	ErrFailedToCheckSpecFileExists = errors.New("failed to check if specification file exists")
	ErrSpecFileNotFound            = errors.New("specification file not found")
	ErrSpecPathIsDirectory         = errors.New("specification path is a directory")

	// System selection errors.
	ErrNoSystemSelected = errors.New("no ticketing system selected")
)
