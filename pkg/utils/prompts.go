package utils

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// LoadPrompt loads an instruction text from a specific file path
// The path must be exact, no fallback searching is performed
func LoadPrompt(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt file %s: %w", filePath, err)
	}

	prompt := strings.TrimSpace(string(content))
	if prompt == "" {
		return "", fmt.Errorf("prompt file %s is empty", filePath)
	}

	return prompt, nil
}

// LoadPromptWithFallback loads an instruction text from a specific file path with a fallback
// If the file is missing or empty, it logs the reason and returns the fallback string
func LoadPromptWithFallback(filePath, fallback string) string {
	content, err := LoadPrompt(filePath)
	if err != nil {
		log.Printf("[UTILS]: Warning, using fallback prompt: %v", err)
		return fallback
	}
	return content
}
