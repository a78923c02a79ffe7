package prompt

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

//go:generate go run go.uber.org/mock/mockgen@v0.5.2 -source=prompt.go -destination=mocks/prompt.gen.go -package=mocks

// SystemChoice represents a selectable ticketing system.
type SystemChoice struct {
	Name   string
	Kind   string // backend kind (linear, github, jira)
	Detail string // optional label for display only
}

// Prompter interface provides user interaction functionality.
type Prompter interface {
	// PromptForSpecFile prompts the user for the specification file with examples.
	PromptForSpecFile(defaultSpecFile string) (string, error)

	// PromptForConfirmation prompts the user for confirmation with a default value.
	PromptForConfirmation(message string, defaultYes bool) (bool, error)

	// PromptSelectSystem prompts the user to select a ticketing system from a list.
	// showDetail controls rendering of the " : detail" suffix.
	PromptSelectSystem(choices []SystemChoice, showDetail bool) (SystemChoice, error)
}

type realPrompt struct {
	reader *bufio.Reader
}

// NewPrompt creates a new Prompt instance.
func NewPrompt() Prompter {
	return &realPrompt{
		reader: bufio.NewReader(os.Stdin),
	}
}

// PromptForSpecFile prompts the user for the specification file with examples.
func (p *realPrompt) PromptForSpecFile(defaultSpecFile string) (string, error) {
	if defaultSpecFile == "" {
		defaultSpecFile = "docs/spec.md"
	}
	fmt.Printf("Choose the specification file to synchronize "+
		"(ex: docs/spec.md, ./SPEC.md, specs/backlog.md): "+
		"[default: %s]: ", defaultSpecFile)

	input, err := p.reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read user input: %w", err)
	}

	// Trim whitespace and newlines
	input = strings.TrimSpace(input)

	// Use default if input is empty
	if input == "" {
		return defaultSpecFile, nil
	}

	return input, nil
}

// PromptForConfirmation prompts the user for confirmation with a default value.
func (p *realPrompt) PromptForConfirmation(message string, defaultYes bool) (bool, error) {
	var defaultText string
	if defaultYes {
		defaultText = "[Y/n]"
	} else {
		defaultText = "[y/N]"
	}

	fmt.Printf("%s %s: ", message, defaultText)

	input, err := p.reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("failed to read user input: %w", err)
	}

	// Trim whitespace and newlines
	input = strings.TrimSpace(strings.ToLower(input))

	// Use default if input is empty
	if input == "" {
		return defaultYes, nil
	}

	// Check for yes/no responses
	switch input {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return false, ErrInvalidConfirmationInput
	}
}

// PromptSelectSystem prompts the user to select a ticketing system from a list.
func (p *realPrompt) PromptSelectSystem(choices []SystemChoice, showDetail bool) (SystemChoice, error) {
	if len(choices) == 0 {
		return SystemChoice{}, fmt.Errorf("no choices available")
	}

	// Use Bubble Tea selector for interactive selection
	return promptSelectSystemBubbleTea(choices, showDetail)
}
