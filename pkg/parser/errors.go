package parser

import "errors"

// Error definitions for parser package.
var (
	// ErrNoIssuesFound indicates the document contains no sections to
	// extract issues from.
	ErrNoIssuesFound = errors.New("no issues found in specification")
	// ErrMalformedSpec indicates a section carries metadata that cannot
	// be interpreted.
	ErrMalformedSpec = errors.New("malformed specification")
)
