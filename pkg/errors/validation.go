package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateNodeID validates a node identifier for safety and correctness.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters
//   - Maximum length of 128 characters
//
// Identifiers must be stable across a run; uniqueness is checked by the
// graph layer, not here.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidNode, "node ID cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidNode, "node ID too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidNode, "node ID contains control characters")
		}
	}

	if strings.TrimSpace(id) != id {
		return New(ErrCodeInvalidNode, "node ID has leading or trailing whitespace: %q", id)
	}

	return nil
}

// ValidateCoordinates validates a latitude/longitude pair in degrees.
func ValidateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return New(ErrCodeInvalidNode, "coordinates cannot be NaN")
	}
	if lat < -90 || lat > 90 {
		return New(ErrCodeInvalidNode, "latitude out of range [-90, 90]: %g", lat)
	}
	if lon < -180 || lon > 180 {
		return New(ErrCodeInvalidNode, "longitude out of range [-180, 180]: %g", lon)
	}
	return nil
}

// ValidateThreshold validates an adjacency distance threshold.
// Thresholds must be positive, finite distances.
func ValidateThreshold(threshold float64) error {
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		return New(ErrCodeInvalidThreshold, "threshold must be finite")
	}
	if threshold <= 0 {
		return New(ErrCodeInvalidThreshold, "threshold must be positive: %g", threshold)
	}
	return nil
}

// ValidateTargetMax validates the target maximum hub count per region.
func ValidateTargetMax(targetMax int) error {
	if targetMax < 1 {
		return New(ErrCodeInvalidTarget, "target max hubs must be at least 1: %d", targetMax)
	}
	return nil
}
