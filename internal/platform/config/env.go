package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Validator is implemented by configuration structs that check their own
// invariants after environment defaults are applied.
type Validator interface {
	Validate() error
}

// ParseEnv loads configuration from environment variables. When target
// implements Validator, its Validate method runs after parsing.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if v, ok := target.(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("validate env: %w", err)
		}
	}
	return nil
}
