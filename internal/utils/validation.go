package utils

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Compiled regular expressions for validation
var (
	// Detect potentially dangerous characters - focused on injection patterns
	dangerousPattern = regexp.MustCompile(`[<>]|--|\/\*|\*\/|;.*--`)

	// Detect HTML/script tags
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
)

// ValidateQuery validates stop search query strings
func ValidateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return errors.New("query cannot be empty")
	}

	if len(query) > 200 {
		return errors.New("query too long (max 200 characters)")
	}

	// Check for dangerous characters that could indicate injection attempts
	if dangerousPattern.MatchString(query) {
		return errors.New("query contains invalid characters")
	}

	return nil
}

// SanitizeInput removes HTML tags and other potentially dangerous content
func SanitizeInput(input string) string {
	// Remove HTML tags
	sanitized := htmlTagPattern.ReplaceAllString(input, "")

	// Trim whitespace
	sanitized = strings.TrimSpace(sanitized)

	return sanitized
}

// ParseDepartureTime parses an HH:MM or HH:MM:SS departure time into seconds
// from midnight. The literal "now" (or an empty string) resolves against the
// supplied clock.
func ParseDepartureTime(s string, now time.Time) (int, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "now" {
		return now.Hour()*3600 + now.Minute()*60 + now.Second(), nil
	}

	parts := strings.Split(s, ":")
	if len(parts) == 2 {
		parts = append(parts, "00")
	}
	if len(parts) != 3 {
		return 0, errors.New("invalid departure time, use HH:MM or HH:MM:SS")
	}

	t, err := time.Parse("15:04:05", strings.Join(parts, ":"))
	if err != nil {
		return 0, errors.New("invalid departure time, use HH:MM or HH:MM:SS")
	}
	return t.Hour()*3600 + t.Minute()*60 + t.Second(), nil
}

// ParseDate parses a YYYY-MM-DD travel date. The literal "today" (or an
// empty string) resolves against the supplied clock.
func ParseDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "today" {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}

	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, errors.New("invalid date format, use YYYY-MM-DD")
	}
	return d, nil
}
