// Package persona describes the assistant identity the gateway establishes on every call
// and the widget shows on an empty chat.
package persona

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ethanbaker/chatwidget/pkg/transcript"
	"github.com/ethanbaker/chatwidget/pkg/utils"
	"gopkg.in/yaml.v3"
)

// Persona is the configurable identity of the assistant
type Persona struct {
	Name string `yaml:"name" json:"name"`

	// Domain restriction used to build the system instruction
	Domain  string   `yaml:"domain" json:"domain"`
	Topics  []string `yaml:"topics" json:"topics"`
	Rules   []string `yaml:"rules" json:"rules"`
	Refusal string   `yaml:"refusal" json:"refusal"`
	Tone    string   `yaml:"tone" json:"tone"`

	// Instruction overrides the built instruction when set
	Instruction string `yaml:"instruction" json:"instruction,omitempty"`

	// Seed exchange sent to the backend on every call
	Opening  string `yaml:"opening" json:"opening"`
	Greeting string `yaml:"greeting" json:"greeting"`

	// Display-only strings for the widget
	Welcome     string `yaml:"welcome" json:"welcome"`
	Placeholder string `yaml:"placeholder" json:"placeholder"`
}

// Default returns the built-in food assistant persona
func Default() *Persona {
	return &Persona{
		Name:   "Food ChatBot",
		Domain: "food",
		Topics: []string{
			"recipes",
			"ingredients",
			"cooking techniques",
			"nutrition",
			"culinary trends",
			"food science",
			"restaurant recommendations",
		},
		Rules: []string{
			"Ensure that every response remains strictly focused on these topics.",
			"Your responses must be clear, precise, and directly relevant to the user's query.",
			"Avoid including extraneous information not related to the domain.",
			"If a query is ambiguous, ask concise follow-up questions for clarification.",
		},
		Refusal:     "I'm sorry, but I specialize in food-related topics. For assistance with this matter, please consider contacting the appropriate specialist or resource.",
		Tone:        "Maintain a friendly, professional and approachable demeanor so users feel comfortable even when their query is beyond your expertise.",
		Opening:     "Hi",
		Greeting:    "How can I help you today?",
		Welcome:     "Hi there! How can I help you today with food-related questions?",
		Placeholder: "Ask me about food...",
	}
}

// Load reads a persona from a YAML file. Fields missing from the file keep their default values
func Load(path string) (*Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read persona file %s: %w", path, err)
	}

	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse persona file %s: %w", path, err)
	}

	if strings.TrimSpace(p.Greeting) == "" {
		return nil, fmt.Errorf("persona %q has an empty greeting", p.Name)
	}

	return p, nil
}

// FromConfig loads the persona named by PERSONA_PATH (falling back to the default persona) and applies an
// instruction file from PERSONA_INSTRUCTION_PATH when one is configured
func FromConfig(cfg *utils.Config) *Persona {
	p := Default()

	if path := cfg.Get("PERSONA_PATH"); path != "" {
		loaded, err := Load(path)
		if err != nil {
			log.Printf("[PERSONA]: Warning, using default persona: %v", err)
		} else {
			p = loaded
		}
	}

	if path := cfg.Get("PERSONA_INSTRUCTION_PATH"); path != "" {
		p.Instruction = utils.LoadPromptWithFallback(path, p.Instruction)
	}

	return p
}

// SystemInstruction returns the instruction describing the assistant's domain restriction and refusal phrasing
func (p *Persona) SystemInstruction() string {
	if s := strings.TrimSpace(p.Instruction); s != "" {
		return s
	}

	ib := NewInstructionBuilder(fmt.Sprintf("You are a specialized assistant dedicated solely to the %s domain.", p.Domain)).
		AddSection("Expertise", p.Topics...).
		AddSection("Rules", p.Rules...)

	if p.Refusal != "" {
		ib.AddSection("Out of domain", fmt.Sprintf("If a query falls outside the %s domain, respond politely with a message such as: '%s'", p.Domain, p.Refusal))
	}

	return ib.AddClosing(p.Tone).Build()
}

// Seed returns the opening exchange for this persona
func (p *Persona) Seed() transcript.Transcript {
	return transcript.Seed(p.Opening, p.Greeting)
}
