package template

import "errors"

// Error definitions for template package.
var (
	ErrUnknownCategory = errors.New("unknown template category")
	ErrTemplateParse   = errors.New("failed to parse issue template")
	ErrTemplateRender  = errors.New("failed to render issue template")
)
