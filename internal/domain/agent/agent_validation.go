package agent

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ===============================================
// Agent Validation
// ===============================================

// AgentValidationConfig holds agent-level validation rules
type AgentValidationConfig struct {
	MaxNameLength        int
	MaxDisplayNameLength int
	MaxDescriptionLength int
	MaxPromptLength      int
	MaxAuthorLength      int
	MinSteps             int
	MaxSteps             int
}

// DefaultAgentValidationConfig returns default agent validation rules
func DefaultAgentValidationConfig() *AgentValidationConfig {
	return &AgentValidationConfig{
		MaxNameLength:        120,
		MaxDisplayNameLength: 120,
		MaxDescriptionLength: 4096,
		MaxPromptLength:      32768, // 32k chars
		MaxAuthorLength:      120,
		MinSteps:             1,
		MaxSteps:             100,
	}
}

// AgentValidator handles agent-level validation
type AgentValidator struct {
	config             *AgentValidationConfig
	invalidCharPattern *regexp.Regexp
}

// NewAgentValidator creates a validator for agents
func NewAgentValidator(config *AgentValidationConfig) *AgentValidator {
	if config == nil {
		config = DefaultAgentValidationConfig()
	}

	// Pattern to detect control characters (except newline, tab, carriage return)
	invalidCharPattern := regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)

	return &AgentValidator{
		config:             config,
		invalidCharPattern: invalidCharPattern,
	}
}

// ValidateAgent performs full agent validation
func (v *AgentValidator) ValidateAgent(a *Agent) error {
	if a == nil {
		return fmt.Errorf("agent cannot be nil")
	}

	// At least one of name / display name must be present
	if strings.TrimSpace(a.Name) == "" && strings.TrimSpace(a.DisplayName) == "" {
		return fmt.Errorf("agent requires a name or display name")
	}

	if a.Name != "" {
		if err := v.validateName(a.Name, v.config.MaxNameLength); err != nil {
			return fmt.Errorf("invalid name: %w", err)
		}
	}
	if a.DisplayName != "" {
		if err := v.validateName(a.DisplayName, v.config.MaxDisplayNameLength); err != nil {
			return fmt.Errorf("invalid display name: %w", err)
		}
	}

	if err := v.validateMaxSteps(a.MaxSteps); err != nil {
		return err
	}

	if a.Description != nil {
		if err := v.validateText(*a.Description, v.config.MaxDescriptionLength); err != nil {
			return fmt.Errorf("invalid description: %w", err)
		}
	}
	if a.BusinessDescription != nil {
		if err := v.validateText(*a.BusinessDescription, v.config.MaxDescriptionLength); err != nil {
			return fmt.Errorf("invalid business description: %w", err)
		}
	}
	if a.Author != nil {
		if err := v.validateText(*a.Author, v.config.MaxAuthorLength); err != nil {
			return fmt.Errorf("invalid author: %w", err)
		}
	}

	for label, prompt := range map[string]*string{
		"duty prompt":       a.DutyPrompt,
		"constraint prompt": a.ConstraintPrompt,
		"few-shots prompt":  a.FewShotsPrompt,
	} {
		if prompt == nil {
			continue
		}
		if err := v.validateText(*prompt, v.config.MaxPromptLength); err != nil {
			return fmt.Errorf("invalid %s: %w", label, err)
		}
	}

	return nil
}

// validateName validates a name-like field (internal use only)
func (v *AgentValidator) validateName(name string, maxLen int) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return fmt.Errorf("name cannot be empty or only whitespace")
	}

	if utf8.RuneCountInString(trimmed) > maxLen {
		return fmt.Errorf("name exceeds maximum length of %d characters", maxLen)
	}

	if v.invalidCharPattern.MatchString(trimmed) {
		return fmt.Errorf("name contains invalid control characters")
	}

	for _, r := range trimmed {
		if !unicode.IsPrint(r) && r != '\n' && r != '\t' && r != '\r' {
			return fmt.Errorf("name contains unprintable characters")
		}
	}

	return nil
}

// validateText validates free-form text fields (internal use only)
func (v *AgentValidator) validateText(text string, maxLen int) error {
	trimmed := strings.TrimSpace(text)

	if trimmed == "" {
		// Empty text is allowed (optional fields)
		return nil
	}

	if utf8.RuneCountInString(trimmed) > maxLen {
		return fmt.Errorf("text exceeds maximum length of %d characters", maxLen)
	}

	for _, r := range trimmed {
		if !unicode.IsPrint(r) && r != '\n' && r != '\t' && r != '\r' {
			return fmt.Errorf("text contains unprintable characters")
		}
	}

	return nil
}

// validateMaxSteps bounds the agent step budget
func (v *AgentValidator) validateMaxSteps(steps int) error {
	if steps < v.config.MinSteps || steps > v.config.MaxSteps {
		return fmt.Errorf("max steps must be between %d and %d", v.config.MinSteps, v.config.MaxSteps)
	}
	return nil
}

// ValidateAgentName validates a name independently
func (v *AgentValidator) ValidateAgentName(name string) error {
	return v.validateName(name, v.config.MaxNameLength)
}
