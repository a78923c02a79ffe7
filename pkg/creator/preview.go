package creator

import (
	"context"

	"github.com/lerenn/spec-sync/pkg/creator/consts"
	"github.com/lerenn/spec-sync/pkg/issue"
)

// PreviewSpecOpts contains optional parameters for PreviewSpec.
type PreviewSpecOpts struct {
	NoTemplates bool // Skip issue decoration even when configured
}

// PreviewSpec parses and decorates the specification without creating
// anything remotely. The returned hierarchy is exactly what a live run
// would create.
func (c *realCreator) PreviewSpec(ctx context.Context, specFile string, opts ...PreviewSpecOpts) (*issue.Hierarchy, error) {
	// Parse options
	options := c.extractPreviewSpecOptions(opts)

	// Prepare parameters for hooks
	params := map[string]interface{}{
		"spec_file": specFile,
	}

	// Execute with hooks
	return c.executeWithHooksAndReturnHierarchy(ctx, consts.PreviewSpec, params, func() (*issue.Hierarchy, error) {
		return c.executePreviewLogic(specFile, options)
	})
}

// extractPreviewSpecOptions extracts and merges the optional parameters.
func (c *realCreator) extractPreviewSpecOptions(opts []PreviewSpecOpts) PreviewSpecOpts {
	var options PreviewSpecOpts
	for _, opt := range opts {
		if opt.NoTemplates {
			options.NoTemplates = true
		}
	}
	return options
}

// executePreviewLogic executes the core preview logic.
func (c *realCreator) executePreviewLogic(specFile string, options PreviewSpecOpts) (*issue.Hierarchy, error) {
	c.VerbosePrint("Previewing specification: %s", specFile)

	if err := c.base.ValidateSpecPath(specFile); err != nil {
		return nil, err
	}

	applyTemplates := c.deps.Config.IssueCreation.ApplyTemplates && !options.NoTemplates
	hierarchy, err := c.parseHierarchy(specFile, applyTemplates)
	if err != nil {
		return nil, err
	}

	c.VerbosePrint("Parsed %d issues from %s", hierarchy.Size(), specFile)

	return hierarchy, nil
}
