package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateDocumentTitle(t *testing.T) {
	assert.NoError(t, ValidateDocumentTitle("Meeting notes"))
	assert.Error(t, ValidateDocumentTitle(""))
	assert.Error(t, ValidateDocumentTitle("   "))
	assert.Error(t, ValidateDocumentTitle(strings.Repeat("x", 256)))
}

func TestValidateDocumentContent(t *testing.T) {
	assert.NoError(t, ValidateDocumentContent("<p>hello</p>"))
	assert.Error(t, ValidateDocumentContent(""))
	assert.Error(t, ValidateDocumentContent("  \n "))
}

func TestValidateVisibility(t *testing.T) {
	assert.NoError(t, ValidateVisibility("private"))
	assert.NoError(t, ValidateVisibility("public"))
	assert.Error(t, ValidateVisibility("internal"))
	assert.Error(t, ValidateVisibility(""))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("alice@example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("missing@tld"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("longenough"))
	assert.Error(t, ValidatePassword("short"))
	assert.Error(t, ValidatePassword(strings.Repeat("p", 73)))
}

func TestValidatePermission(t *testing.T) {
	assert.NoError(t, ValidatePermission("view"))
	assert.NoError(t, ValidatePermission("edit"))
	assert.Error(t, ValidatePermission("admin"))
	assert.Error(t, ValidatePermission(""))
}
