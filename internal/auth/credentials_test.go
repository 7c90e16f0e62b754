package auth

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestParseTokenReadsClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := signToken(t, jwt.MapClaims{
		"sub": "jane@example.com",
		"id":  42,
		"exp": exp.Unix(),
	})

	creds, err := ParseToken("Bearer "+tok, 0)
	require.NoError(t, err)

	assert.Equal(t, tok, creds.Token, "Bearer prefix is stripped")
	assert.Equal(t, int64(42), creds.UserID)
	assert.Equal(t, "jane@example.com", creds.Subject)
	assert.True(t, creds.ExpiresAt.Equal(exp))
	assert.False(t, creds.Expired(time.Now()))
	assert.True(t, creds.Expired(exp.Add(time.Second)))
}

func TestParseTokenUserIDSources(t *testing.T) {
	tests := []struct {
		name     string
		claims   jwt.MapClaims
		fallback int64
		want     int64
	}{
		{"userId claim", jwt.MapClaims{"userId": "17"}, 0, 17},
		{"numeric subject", jwt.MapClaims{"sub": "9"}, 0, 9},
		{"claim wins over fallback", jwt.MapClaims{"id": 3}, 99, 3},
		{"fallback when no claim", jwt.MapClaims{"sub": "someone"}, 99, 99},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds, err := ParseToken(signToken(t, tt.claims), tt.fallback)
			require.NoError(t, err)
			assert.Equal(t, tt.want, creds.UserID)
		})
	}
}

func TestParseTokenErrors(t *testing.T) {
	_, err := ParseToken("   ", 0)
	require.ErrorIs(t, err, ErrNoToken)

	_, err = ParseToken(signToken(t, jwt.MapClaims{"sub": "someone"}), 0)
	require.ErrorIs(t, err, ErrNoUserID)

	_, err = ParseToken("opaque-token", 0)
	require.ErrorIs(t, err, ErrNoUserID)
}

func TestParseTokenAcceptsOpaqueTokenWithFallback(t *testing.T) {
	creds, err := ParseToken("opaque-token", 5)
	require.NoError(t, err)
	assert.Equal(t, "opaque-token", creds.Token)
	assert.Equal(t, int64(5), creds.UserID)
	assert.True(t, creds.ExpiresAt.IsZero())
	assert.False(t, creds.Expired(time.Now()))
}

func TestResolveTokenPriority(t *testing.T) {
	file := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(file, []byte("  from-file\n"), 0o600))

	tok, err := ResolveToken(Source{Token: "from-flag", TokenFile: file})
	require.NoError(t, err)
	assert.Equal(t, "from-flag", tok)

	tok, err = ResolveToken(Source{TokenFile: file})
	require.NoError(t, err)
	assert.Equal(t, "from-file", tok)

	var out bytes.Buffer
	tok, err = ResolveToken(Source{Prompt: strings.NewReader("typed\n"), PromptOut: &out})
	require.NoError(t, err)
	assert.Equal(t, "typed", tok)
	assert.Contains(t, out.String(), "Bearer token:")
}

func TestResolveTokenErrors(t *testing.T) {
	_, err := ResolveToken(Source{})
	require.ErrorIs(t, err, ErrNoToken)

	_, err = ResolveToken(Source{Prompt: strings.NewReader("\n")})
	require.ErrorIs(t, err, ErrNoToken)

	_, err = ResolveToken(Source{TokenFile: filepath.Join(t.TempDir(), "missing")})
	require.ErrorContains(t, err, "failed to read token file")
}
