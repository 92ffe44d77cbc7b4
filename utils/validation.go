package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"scribehub/models"
)

// Document validation
func ValidateDocumentTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title cannot be empty")
	}

	if len(title) > 255 {
		return fmt.Errorf("title too long (max 255 characters)")
	}

	if !utf8.ValidString(title) {
		return fmt.Errorf("title contains invalid UTF-8 characters")
	}

	return nil
}

func ValidateDocumentContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("content cannot be empty")
	}

	if !utf8.ValidString(content) {
		return fmt.Errorf("content contains invalid UTF-8 characters")
	}

	return nil
}

func ValidateVisibility(visibility string) error {
	if visibility != models.VisibilityPrivate && visibility != models.VisibilityPublic {
		return fmt.Errorf("invalid visibility: %s. Allowed values: private, public", visibility)
	}
	return nil
}

// Email validation
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}

	return nil
}

// Password validation
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	if len(password) > 72 {
		return fmt.Errorf("password too long (max 72 characters)")
	}

	return nil
}

// Permission validation
func ValidatePermission(permission string) error {
	allowed := []string{models.PermissionView, models.PermissionEdit}
	for _, p := range allowed {
		if permission == p {
			return nil
		}
	}
	return fmt.Errorf("invalid permission: %s. Allowed permissions: %s", permission, strings.Join(allowed, ", "))
}
