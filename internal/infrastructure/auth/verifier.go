package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ntwoods/dealerdocs/internal/domain/session"
	"github.com/ntwoods/dealerdocs/internal/shared/errors"
	"github.com/ntwoods/dealerdocs/internal/shared/logger"
)

type verificationRequest struct {
	IDToken  string `json:"idToken"`
	ClientID string `json:"clientId"`
}

// VerificationClient asks a server-side endpoint to verify identity tokens
// against the OAuth client id.
type VerificationClient struct {
	endpoint   string
	clientID   string
	httpClient *http.Client
	logger     logger.Interface
}

func NewVerificationClient(endpoint, clientID string, httpClient *http.Client, log logger.Interface) *VerificationClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &VerificationClient{
		endpoint:   endpoint,
		clientID:   clientID,
		httpClient: httpClient,
		logger:     log,
	}
}

// Verify posts {idToken, clientId}. A non-2xx reply yields OK=false with the
// endpoint's reason or "Server verification failed (<status>)"; a body that
// is not JSON reads as "Invalid server response". Only transport failures
// return an error.
func (c *VerificationClient) Verify(ctx context.Context, idToken string) (*session.Verification, error) {
	if c.endpoint == "" {
		return nil, errors.NewConfigurationError("DEALERDOCS_GOOGLE_VERIFY_URL")
	}

	payload, err := json.Marshal(verificationRequest{IDToken: idToken, ClientID: c.clientID})
	if err != nil {
		return nil, errors.NewInternalError("failed to encode verification request", err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.NewInternalError("failed to build verification request", err.Error())
	}
	// Script endpoints read the raw body; text/plain avoids a preflight for
	// browser callers sharing the endpoint.
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warnw("verification endpoint unreachable", "error", err)
		return nil, errors.NewIdentityProviderError("Server-side verification failed.", err.Error())
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var parsed session.Verification
	if readErr != nil || json.Unmarshal(body, &parsed) != nil {
		parsed = session.Verification{OK: false, Reason: "Invalid server response"}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		reason := parsed.Reason
		if reason == "" {
			reason = fmt.Sprintf("Server verification failed (%d)", resp.StatusCode)
		}
		return &session.Verification{OK: false, Email: parsed.Email, Reason: reason}, nil
	}
	return &parsed, nil
}
