package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrEmptyName rejects unnamed configuration records.
	ErrEmptyName = errors.New("name must not be empty")
	// ErrEmptyModel rejects a model config without provider or model.
	ErrEmptyModel = errors.New("provider and model must not be empty")
	// ErrTemperatureOutOfRange bounds sampling temperature.
	ErrTemperatureOutOfRange = errors.New("temperature must be between 0 and 2")
	// ErrMaxTokensOutOfRange bounds the completion budget.
	ErrMaxTokensOutOfRange = errors.New("max_tokens must be positive")
)

// Defaults applied when a model config omits sampling parameters.
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2000
	MaxTemperature     = 2.0
)

// ModelConfig is a saved generation-model configuration a job may select
// via its model_config_id.
type ModelConfig struct {
	ID          string
	OwnerID     string
	Name        string
	Provider    string
	Model       string
	Temperature float64
	MaxTokens   int
	IsDefault   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate normalizes the config and fills defaulted sampling parameters.
func (c *ModelConfig) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	c.Provider = strings.TrimSpace(c.Provider)
	c.Model = strings.TrimSpace(c.Model)
	if c.Name == "" {
		return ErrEmptyName
	}
	if c.Provider == "" || c.Model == "" {
		return ErrEmptyModel
	}
	if c.Temperature == 0 {
		c.Temperature = DefaultTemperature
	}
	if c.Temperature < 0 || c.Temperature > MaxTemperature {
		return ErrTemperatureOutOfRange
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.MaxTokens < 0 {
		return ErrMaxTokensOutOfRange
	}
	return nil
}
