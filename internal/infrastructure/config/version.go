package config

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/reglet-dev/batchqc/internal/domain/entities"
)

// ValidateProfileVersion checks that the profile version is strict X.Y.Z semver.
func ValidateProfileVersion(version string) error {
	if version == "" {
		return nil
	}
	if _, err := semver.StrictNewVersion(version); err != nil {
		return fmt.Errorf("profile version %q is not valid (expected format: X.Y.Z): %w", version, err)
	}
	return nil
}

// CheckCompatibility verifies the profile's requires constraint against the
// running batchqc version. Development builds without a semver version are
// never rejected.
func CheckCompatibility(profile *entities.QCProfile, toolVersion string) error {
	if profile.Metadata.Requires == "" {
		return nil
	}

	constraint, err := semver.NewConstraint(profile.Metadata.Requires)
	if err != nil {
		return fmt.Errorf("profile requires %q is not a valid version constraint: %w", profile.Metadata.Requires, err)
	}

	current, err := semver.NewVersion(toolVersion)
	if err != nil {
		return nil
	}

	if ok, reasons := constraint.Validate(current); !ok {
		return fmt.Errorf("profile %s requires batchqc %s, running %s: %v",
			profile.Metadata.Name, profile.Metadata.Requires, toolVersion, reasons[0])
	}
	return nil
}
