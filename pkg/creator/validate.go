package creator

import (
	"context"
	"fmt"

	"github.com/lerenn/spec-sync/pkg/creator/consts"
	"github.com/lerenn/spec-sync/pkg/issue"
)

// ValidationReport summarizes the structural check of a specification.
type ValidationReport struct {
	// SpecFile is the checked specification document.
	SpecFile string
	// TotalIssues counts the extracted issues.
	TotalIssues int
	// Epics, Stories and Tasks count the issues per category.
	Epics   int
	Stories int
	Tasks   int
	// Problems lists every finding, one human-readable line each.
	Problems []string
	// Valid is true iff no problem was found.
	Valid bool
}

// ValidateSpec parses the specification and reports structural problems
// in the extracted hierarchy. Parse failures are findings, not errors:
// the report carries them and Valid is false.
func (c *realCreator) ValidateSpec(ctx context.Context, specFile string) (*ValidationReport, error) {
	// Prepare parameters for hooks
	params := map[string]interface{}{
		"spec_file": specFile,
	}

	// Execute with hooks
	return c.executeWithHooksAndReturnReport(ctx, consts.ValidateSpec, params, func() (*ValidationReport, error) {
		return c.executeValidateLogic(specFile)
	})
}

// executeValidateLogic executes the core validation logic.
func (c *realCreator) executeValidateLogic(specFile string) (*ValidationReport, error) {
	c.VerbosePrint("Validating specification: %s", specFile)

	if err := c.base.ValidateSpecPath(specFile); err != nil {
		return nil, err
	}

	report := &ValidationReport{SpecFile: specFile, Valid: true}

	hierarchy, err := c.deps.Parser.ParseFile(specFile)
	if err != nil {
		report.Valid = false
		report.Problems = append(report.Problems, err.Error())
		return report, nil
	}

	report.TotalIssues = hierarchy.Size()

	_ = hierarchy.Walk(func(spec *issue.Spec) error {
		switch spec.Type.Category() {
		case issue.CategoryEpic:
			report.Epics++
		case issue.CategoryStory:
			report.Stories++
		default:
			report.Tasks++
		}

		if err := spec.Validate(); err != nil {
			report.Valid = false
			report.Problems = append(report.Problems, fmt.Sprintf("%s: %v", spec.Path(" > "), err))
		}
		return nil
	})

	c.VerbosePrint("Validation finished: %d issues, %d problems", report.TotalIssues, len(report.Problems))

	return report, nil
}
