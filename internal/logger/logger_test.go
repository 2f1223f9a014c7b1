package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]interface{}{"api_key", "sk-123", "session_token", "abc", "subject", "Calculus"})
	assert.Equal(t, []interface{}{"api_key", "[REDACTED]", "session_token", "[REDACTED]", "subject", "Calculus"}, out)
}

func TestSanitizeKVsKeepsDanglingKey(t *testing.T) {
	out := sanitizeKVs([]interface{}{"subject", "Calculus", "orphan"})
	assert.Equal(t, []interface{}{"subject", "Calculus", "orphan"}, out)
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	l := Nop()
	assert.Same(t, l, OrNop(l))
}
