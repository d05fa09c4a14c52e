package domain

import (
	"errors"
	"strings"
	"time"
)

// ErrEmptyTemplatePrompt rejects a prompt template without a body.
var ErrEmptyTemplatePrompt = errors.New("prompt text must not be empty")

// PromptTemplate is a saved prompt a user can reuse when submitting jobs.
type PromptTemplate struct {
	ID          string
	OwnerID     string
	Name        string
	Prompt      string
	Description string
	IsDefault   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate normalizes and checks the template.
func (p *PromptTemplate) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	p.Prompt = strings.TrimSpace(p.Prompt)
	if p.Name == "" {
		return ErrEmptyName
	}
	if p.Prompt == "" {
		return ErrEmptyTemplatePrompt
	}
	if len(p.Prompt) > MaxPromptLength {
		return ErrPromptTooLong
	}
	return nil
}
