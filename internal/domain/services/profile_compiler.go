package services

import (
	"fmt"

	"github.com/reglet-dev/batchqc/internal/domain/entities"
)

// ProfileCompiler transforms raw profiles into validated profiles.
//
// Compilation steps:
// 1. Deep copy the raw profile (prevent mutation)
// 2. Apply series defaults
// 3. Validate invariants
type ProfileCompiler struct{}

// NewProfileCompiler creates a new profile compiler service.
func NewProfileCompiler() *ProfileCompiler {
	return &ProfileCompiler{}
}

// Compile returns a validated copy of raw with defaults applied.
// The input profile is NOT modified.
func (c *ProfileCompiler) Compile(raw *entities.QCProfile) (*entities.QCProfile, error) {
	if raw == nil {
		return nil, fmt.Errorf("cannot compile nil profile")
	}

	compiled := DeepCopyProfile(raw)
	compiled.ApplyDefaults()

	if err := compiled.Validate(); err != nil {
		return nil, fmt.Errorf("profile validation failed: %w", err)
	}

	return compiled, nil
}
