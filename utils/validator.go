// utils/validator.go - Input validation
package utils

import (
	"regexp"
	"strings"
)

var jambRegNumberRegex = regexp.MustCompile(`^[0-9]{8,12}[A-Z]{0,2}$`)

// ValidateEmail checks if email is valid
func ValidateEmail(email string) bool {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return emailRegex.MatchString(email)
}

// ValidateJambRegNumber checks the shape of a JAMB registration number.
func ValidateJambRegNumber(regNumber string) bool {
	return jambRegNumberRegex.MatchString(strings.ToUpper(strings.TrimSpace(regNumber)))
}

// ValidatePassword checks password strength
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}

	return true, ""
}

// SanitizeInput removes potentially harmful characters
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	return input
}
