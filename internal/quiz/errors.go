package quiz

import (
	"fmt"
	"strings"
)

// ValidationError is returned when user input is rejected before any
// network call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ValidateTopic rejects empty and whitespace-only topics.
func ValidateTopic(topic string) error {
	return requireText("topic", topic)
}

// ValidatePrompt rejects empty and whitespace-only image prompts.
func ValidatePrompt(prompt string) error {
	return requireText("prompt", prompt)
}

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: "must not be empty"}
	}
	return nil
}
