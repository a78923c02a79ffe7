package linkback

import "errors"

// Error definitions for linkback package.
var (
	ErrCommentFailed = errors.New("failed to add back-reference comments")
)
