package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/reglet-dev/batchqc/internal/domain/entities"
)

// Variable pattern: {{ .vars.key }}
var varPattern = regexp.MustCompile(`\{\{\s*\.vars\.([a-zA-Z0-9_.]+)\s*\}\}`)

// VariableSubstitutor replaces {{ .vars.key }} references in series text
// fields and expect expressions with values from the profile's vars map.
// Substituted values are literal; they are never re-evaluated.
type VariableSubstitutor struct{}

// NewVariableSubstitutor creates a new variable substitutor.
func NewVariableSubstitutor() *VariableSubstitutor {
	return &VariableSubstitutor{}
}

// Substitute performs variable substitution in place.
// Supports nested paths like {{ .vars.limits.impurity }}.
// Returns an error if a referenced variable is not found.
func (s *VariableSubstitutor) Substitute(profile *entities.QCProfile) error {
	for i := range profile.Series.Items {
		spec := &profile.Series.Items[i]

		var err error
		if spec.Name, err = s.substituteInString(spec.Name, profile.Vars); err != nil {
			return fmt.Errorf("series %s: %w", spec.Code, err)
		}
		if spec.Description, err = s.substituteInString(spec.Description, profile.Vars); err != nil {
			return fmt.Errorf("series %s: %w", spec.Code, err)
		}

		for j, expectExpr := range spec.Expect {
			substituted, err := s.substituteInString(expectExpr, profile.Vars)
			if err != nil {
				return fmt.Errorf("series %s, expect %d: %w", spec.Code, j, err)
			}
			spec.Expect[j] = substituted
		}
	}

	return nil
}

func (s *VariableSubstitutor) substituteInString(str string, vars map[string]any) (string, error) {
	var lastErr error

	result := varPattern.ReplaceAllStringFunc(str, func(match string) string {
		submatches := varPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			lastErr = fmt.Errorf("invalid variable pattern: %s", match)
			return match
		}

		value, err := lookupVar(vars, submatches[1])
		if err != nil {
			lastErr = err
			return match
		}

		return fmt.Sprintf("%v", value)
	})

	if lastErr != nil {
		return "", lastErr
	}
	return result, nil
}

// lookupVar looks up a variable value by dotted path.
func lookupVar(vars map[string]any, path string) (any, error) {
	parts := strings.Split(path, ".")
	current := any(vars)

	for i, part := range parts {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("variable path %s: cannot access %s (not a map)", path, strings.Join(parts[:i+1], "."))
		}

		value, exists := m[part]
		if !exists {
			return nil, fmt.Errorf("variable not found: %s", path)
		}
		current = value
	}

	if _, ok := current.(map[string]any); ok {
		return nil, fmt.Errorf("variable %s is a map, not a value", path)
	}
	return current, nil
}
