// Package auth turns the configured bearer token into explicit credentials
// that are handed to every component calling the backend.
package auth

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/term"
)

var (
	ErrNoToken  = errors.New("no bearer token configured")
	ErrNoUserID = errors.New("token carries no user id; set auth.user_id")
)

// userIDClaims are checked in order for the applicant's id
var userIDClaims = []string{"id", "userId", "user_id", "uid"}

// Credentials identify the logged-in user towards both services
type Credentials struct {
	Token     string
	UserID    int64
	Subject   string
	ExpiresAt time.Time // zero when the token has no exp claim
}

// Expired reports whether the token's exp claim is in the past
func (c Credentials) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// ParseToken reads the claims of a JWT without verifying its signature;
// verification is the backend's job. fallbackUserID is used when no id claim exists.
func ParseToken(raw string, fallbackUserID int64) (Credentials, error) {
	token := strings.TrimSpace(raw)
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return Credentials{}, ErrNoToken
	}

	creds := Credentials{Token: token, UserID: fallbackUserID}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// opaque tokens are allowed as long as the user id is known
		if fallbackUserID == 0 {
			return Credentials{}, fmt.Errorf("%w: %v", ErrNoUserID, err)
		}
		return creds, nil
	}

	if sub, err := claims.GetSubject(); err == nil {
		creds.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		creds.ExpiresAt = exp.Time
	}

	if id, ok := userIDFromClaims(claims); ok {
		creds.UserID = id
	}
	if creds.UserID == 0 {
		return Credentials{}, ErrNoUserID
	}
	return creds, nil
}

func userIDFromClaims(claims jwt.MapClaims) (int64, bool) {
	for _, name := range userIDClaims {
		if id, ok := toInt64(claims[name]); ok {
			return id, true
		}
	}
	return toInt64(claims["sub"])
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if n > 0 && n == float64(int64(n)) {
			return int64(n), true
		}
	case string:
		id, err := strconv.ParseInt(n, 10, 64)
		if err == nil && id > 0 {
			return id, true
		}
	}
	return 0, false
}

// Source describes where a token may come from, in priority order
type Source struct {
	Token     string
	TokenFile string
	Prompt    io.Reader // usually os.Stdin; nil disables prompting
	PromptOut io.Writer
}

// ResolveToken returns the first non-empty token from the source
func ResolveToken(src Source) (string, error) {
	if t := strings.TrimSpace(src.Token); t != "" {
		return t, nil
	}

	if src.TokenFile != "" {
		data, err := os.ReadFile(src.TokenFile)
		if err != nil {
			return "", fmt.Errorf("failed to read token file: %w", err)
		}
		if t := strings.TrimSpace(string(data)); t != "" {
			return t, nil
		}
	}

	if src.Prompt != nil {
		return promptToken(src.Prompt, src.PromptOut)
	}
	return "", ErrNoToken
}

// promptToken reads without echo when r is a terminal
func promptToken(r io.Reader, w io.Writer) (string, error) {
	if w != nil {
		fmt.Fprint(w, "Bearer token: ")
	}

	var line string
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if w != nil {
			fmt.Fprintln(w)
		}
		if err != nil {
			return "", fmt.Errorf("failed to read token: %w", err)
		}
		line = string(b)
	} else {
		s, err := bufio.NewReader(r).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read token: %w", err)
		}
		line = s
	}

	if t := strings.TrimSpace(line); t != "" {
		return t, nil
	}
	return "", ErrNoToken
}
