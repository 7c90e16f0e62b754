package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// AllocationClient talks to the project allocation service
type AllocationClient struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewAllocationClient creates a client for the allocation service at baseURL.
// base may be nil; its transport is reused when given.
func NewAllocationClient(baseURL string, base *http.Client, log zerolog.Logger) *AllocationClient {
	log = log.With().Str("component", "allocation-client").Logger()
	return &AllocationClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    newHTTPClient(base, 0, log),
		log:     log,
	}
}

type applyRequest struct {
	OpeningID   int64 `json:"openingId"`
	CandidateID int64 `json:"candidateId"`
}

// ApplyForOpening creates an application of userID for openingID.
// A rejected request yields *APIError; a transport failure wraps ErrNetwork.
func (c *AllocationClient) ApplyForOpening(ctx context.Context, openingID, userID int64, token string) error {
	body, err := json.Marshal(applyRequest{OpeningID: openingID, CandidateID: userID})
	if err != nil {
		return fmt.Errorf("failed to encode apply request: %w", err)
	}

	endpoint := c.baseURL + "/api/v1/applications/openings/" + strconv.FormatInt(openingID, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	bearer(req, token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		c.log.Info().Int64("opening_id", openingID).Int64("user_id", userID).Msg("applied for opening")
		return nil
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("%w: reading error body: %v", ErrNetwork, err)
	}
	apiErr := &APIError{Status: resp.StatusCode, Message: errorMessage(raw)}
	c.log.Warn().Int64("opening_id", openingID).Int("status", resp.StatusCode).Str("message", apiErr.Message).Msg("apply rejected")
	return apiErr
}

// errorMessage extracts the user-facing text from an error body, which is
// either plain text or a JSON object with a message/error field
func errorMessage(raw []byte) string {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return ""
	}
	if strings.HasPrefix(text, "{") {
		var payload struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal(raw, &payload); err == nil {
			if payload.Message != "" {
				return payload.Message
			}
			return payload.Error
		}
	}
	return text
}
