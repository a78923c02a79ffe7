package creator

import "errors"

// Error definitions for creator package.
var (
	// ErrCreationAborted marks nodes that were never attempted because
	// the run context expired or was cancelled first.
	ErrCreationAborted = errors.New("issue creation aborted")
)
