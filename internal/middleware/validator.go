package middleware

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Input validation and sanitization utilities

var userIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_|@.:-]{1,191}$`)

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateUserID validates identity provider subject IDs (e.g. user_2abc, auth0|123)
func ValidateUserID(id string) error {
	if id == "" {
		return fmt.Errorf("user ID cannot be empty")
	}
	if !userIDPattern.MatchString(id) {
		return fmt.Errorf("invalid user ID format")
	}
	return nil
}

// ValidateAnalysisID validates analysis ID format (UUID)
func ValidateAnalysisID(id string) error {
	if id == "" {
		return fmt.Errorf("analysis ID cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil || len(id) != 36 {
		return fmt.Errorf("invalid analysis ID format")
	}
	return nil
}

// ValidateTitle sanitizes a contract title and caps its length
func ValidateTitle(title string) string {
	title = SanitizeString(strings.ReplaceAll(title, "\n", " "))
	if r := []rune(title); len(r) > 255 {
		title = string(r[:255])
	}
	return title
}
