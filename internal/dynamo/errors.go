package dynamo

import (
	"errors"
	"fmt"
)

// ErrConfiguration indicates a physical parameter, initial condition or step
// size outside its valid range.
var ErrConfiguration = errors.New("dynamo: invalid configuration")

// ConfigError names the rejected field and value.
type ConfigError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s %s, got %g", ErrConfiguration, e.Field, e.Reason, e.Value)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

// CheckPositive returns a ConfigError unless v is finite and greater than zero.
func CheckPositive(field string, v float64) error {
	if !(v > 0) || !isFinite(v) {
		return &ConfigError{Field: field, Value: v, Reason: "must be positive and finite"}
	}
	return nil
}

// CheckFinite validates a value that may be any real number but not NaN or Inf.
func CheckFinite(field string, v float64) error {
	if !isFinite(v) {
		return &ConfigError{Field: field, Value: v, Reason: "must be finite"}
	}
	return nil
}
