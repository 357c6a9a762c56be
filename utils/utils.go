package utils

import (
	"math"
	"strings"
)

// Slugify derives the URL-safe slug for a topic: lowercase, with internal
// whitespace runs collapsed to single hyphens. Idempotent under
// re-application.
func Slugify(topic string) string {
	fields := strings.Fields(strings.ToLower(topic))
	return strings.Join(fields, "-")
}

// RoundPercent rounds a percentage to the nearest whole number, as stored in
// progress records.
func RoundPercent(pct float64) int {
	return int(math.Round(pct))
}

// ContainsString checks if a string slice contains a specific string.
func ContainsString(slice []string, item string) bool {
	for _, a := range slice {
		if a == item {
			return true
		}
	}
	return false
}
