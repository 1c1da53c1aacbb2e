package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Compare compares two semantic versions, with an optional "v" prefix.
// It returns 1 if a > b, -1 if a < b and 0 if they are equal.
func Compare(a, b string) (int, error) {
	av, err := semver.NewVersion(a)
	if err != nil {
		return 0, fmt.Errorf("parse version %q: %w", a, err)
	}

	bv, err := semver.NewVersion(b)
	if err != nil {
		return 0, fmt.Errorf("parse version %q: %w", b, err)
	}

	return av.Compare(bv), nil
}

// Satisfies reports whether current meets requirement.
// A bare version is a minimum, anything else is read as a constraint such as ">= 0.3, < 1".
func Satisfies(current, requirement string) (bool, error) {
	cv, err := semver.NewVersion(current)
	if err != nil {
		return false, fmt.Errorf("parse version %q: %w", current, err)
	}

	if minimum, err := semver.NewVersion(requirement); err == nil {
		return !cv.LessThan(minimum), nil
	}

	constraint, err := semver.NewConstraint(requirement)
	if err != nil {
		return false, fmt.Errorf("invalid version requirement %q: %w", requirement, err)
	}
	return constraint.Check(cv), nil
}
