package utils

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	orig := errorLogger
	errorLogger = log.New(&buf, "ERROR: ", 0)
	defer func() { errorLogger = orig }()

	LogError("mail delivery failed", errors.New("timeout"))
	assert.Contains(t, buf.String(), "mail delivery failed: timeout")

	buf.Reset()
	LogError("no cause", nil)
	assert.Contains(t, buf.String(), "no cause")
}

func TestLogInfoAndWarning(t *testing.T) {
	var buf bytes.Buffer
	origInfo, origWarning := infoLogger, warningLogger
	infoLogger = log.New(&buf, "INFO: ", 0)
	warningLogger = log.New(&buf, "WARNING: ", 0)
	defer func() {
		infoLogger = origInfo
		warningLogger = origWarning
	}()

	LogInfo("server started")
	LogWarning("index creation skipped")

	assert.Contains(t, buf.String(), "INFO: server started")
	assert.Contains(t, buf.String(), "WARNING: index creation skipped")
}
