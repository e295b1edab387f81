package persona

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstructionBuilder(t *testing.T) {
	tests := []struct {
		name     string
		build    func() *InstructionBuilder
		expected string
	}{
		{
			name: "base only",
			build: func() *InstructionBuilder {
				return NewInstructionBuilder("You are a helpful assistant.")
			},
			expected: "You are a helpful assistant.",
		},
		{
			name: "sections in order",
			build: func() *InstructionBuilder {
				return NewInstructionBuilder("Base.").
					AddSection("Expertise", "recipes", "nutrition").
					AddSection("Rules", "Stay on topic.")
			},
			expected: "Base.\n\n## Expertise:\n- recipes\n- nutrition\n\n## Rules:\n- Stay on topic.",
		},
		{
			name: "empty sections are skipped",
			build: func() *InstructionBuilder {
				return NewInstructionBuilder("Base.").
					AddSection("Expertise").
					AddSection("Rules", "Be brief.")
			},
			expected: "Base.\n\n## Rules:\n- Be brief.",
		},
		{
			name: "closing sentences joined",
			build: func() *InstructionBuilder {
				return NewInstructionBuilder("Base.").
					AddClosing("Be friendly.").
					AddClosing("   ").
					AddClosing("Be precise.")
			},
			expected: "Base.\n\nBe friendly. Be precise.",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, test.build().Build())
		})
	}
}

func TestInstructionBuilderChaining(t *testing.T) {
	ib := NewInstructionBuilder("Base.")
	result := ib.AddSection("A", "one").AddClosing("Done.")

	// Chained calls return the same builder
	assert.Same(t, ib, result)
	assert.Equal(t, "Base.\n\n## A:\n- one\n\nDone.", ib.Build())
}
