package persona

import (
	"fmt"
	"strings"
)

// section is a titled bullet list appended to an instruction
type section struct {
	title string
	items []string
}

// InstructionBuilder assembles a system instruction from a base statement and titled bullet sections
type InstructionBuilder struct {
	base     string
	sections []section
	closing  []string
}

// NewInstructionBuilder creates a new builder with a base statement
func NewInstructionBuilder(base string) *InstructionBuilder {
	return &InstructionBuilder{
		base:     base,
		sections: make([]section, 0),
		closing:  make([]string, 0),
	}
}

// AddSection adds a titled bullet list. Sections with no items are skipped when building
func (ib *InstructionBuilder) AddSection(title string, items ...string) *InstructionBuilder {
	ib.sections = append(ib.sections, section{title: title, items: items})
	return ib
}

// AddClosing adds a free-form sentence after all sections
func (ib *InstructionBuilder) AddClosing(sentence string) *InstructionBuilder {
	if s := strings.TrimSpace(sentence); s != "" {
		ib.closing = append(ib.closing, s)
	}
	return ib
}

// Build constructs the final instruction
func (ib *InstructionBuilder) Build() string {
	var parts []string

	// Start with the base statement
	parts = append(parts, ib.base)

	// Add sections in insertion order
	for _, sec := range ib.sections {
		if len(sec.items) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("\n## %s:", sec.title))
		for _, item := range sec.items {
			parts = append(parts, fmt.Sprintf("- %s", item))
		}
	}

	// Closing sentences go last, separated by a blank line
	if len(ib.closing) > 0 {
		parts = append(parts, "\n"+strings.Join(ib.closing, " "))
	}

	return strings.Join(parts, "\n")
}
