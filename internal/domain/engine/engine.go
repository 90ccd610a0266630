package engine

import (
	"fmt"
	"regexp"
	"time"
)

var nameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// MaxNameLength is the longest accepted engine name.
const MaxNameLength = 64

// Type distinguishes engine kinds. Only default engines are supported.
type Type string

// TypeDefault is a regular document engine.
const TypeDefault Type = "default"

// Engine is the engine aggregate (immutable value object).
type Engine struct {
	name      string
	language  string
	createdAt time.Time
}

// New validates and creates an Engine.
// Name: lowercase letters, digits and dashes, not starting with a dash.
// Language is optional ("" = universal).
func New(name, language string) (Engine, error) {
	if err := validateName(name); err != nil {
		return Engine{}, err
	}
	return Engine{name: name, language: language, createdAt: time.Now().UTC()}, nil
}

// Reconstruct creates an Engine without validation (storage hydration).
func Reconstruct(name, language string, createdAt time.Time) Engine {
	return Engine{name: name, language: language, createdAt: createdAt}
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("name is too long (max %d)", MaxNameLength)
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("name can only contain lowercase letters, numbers, and hyphens")
	}
	return nil
}

// Name returns the engine name.
func (e Engine) Name() string { return e.name }

// Type returns the engine type.
func (e Engine) Type() Type { return TypeDefault }

// Language returns the engine language, "" for universal.
func (e Engine) Language() string { return e.language }

// CreatedAt returns the creation time.
func (e Engine) CreatedAt() time.Time { return e.createdAt }
