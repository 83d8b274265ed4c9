package pkg

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandDigits(t *testing.T) {
	code, err := RandDigits(6)
	require.NoError(t, err)
	assert.Len(t, code, 6)
	assert.Empty(t, strings.Trim(code, "0123456789"))
}

func TestRandToken(t *testing.T) {
	a, err := RandToken(32)
	require.NoError(t, err)
	b, err := RandToken(32)
	require.NoError(t, err)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestHashToken(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
	assert.Len(t, HashToken("abc"), 64)
}

func TestLoginLinkHTML(t *testing.T) {
	body := LoginLinkHTML("Maya <Chen>", "https://hub.test/auth/callback?token_hash=x&type=magiclink", "123456", time.Hour)
	assert.Contains(t, body, "Hi Maya &lt;Chen&gt;,")
	assert.Contains(t, body, "token_hash=x&amp;type=magiclink")
	assert.Contains(t, body, "123456")
	assert.Contains(t, body, "60 minutes")

	assert.Contains(t, LoginLinkHTML("", "l", "1", time.Minute), "Hi there,")
}
