// Package google talks to the Drive upload API and the Sheets values API on
// behalf of a signed-in user. Every request carries the user's access token
// as a bearer credential; no request is retried.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/ntwoods/dealerdocs/internal/infrastructure/metrics"
	"github.com/ntwoods/dealerdocs/internal/shared/errors"
	"github.com/ntwoods/dealerdocs/internal/shared/logger"
)

// ClientOptions are shared by the Drive and Sheets clients.
type ClientOptions struct {
	// HTTPClient supplies the base transport. Defaults to http.DefaultClient.
	HTTPClient *http.Client
	// RequestsPerSecond throttles outgoing calls; zero disables throttling.
	RequestsPerSecond float64
}

type apiClient struct {
	api     string
	base    *http.Client
	limiter *rate.Limiter
	logger  logger.Interface
}

func newAPIClient(api string, opts ClientOptions, log logger.Interface) *apiClient {
	base := opts.HTTPClient
	if base == nil {
		base = http.DefaultClient
	}
	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	return &apiClient{
		api:     api,
		base:    base,
		limiter: limiter,
		logger:  log,
	}
}

// failure builds the error returned for a non-success response.
type failure func(message string, details ...string) *errors.AppError

// do sends req with accessToken as bearer credential. A non-2xx response is
// turned into an unauthorized error for 401 and into fail otherwise, with
// the message taken from the response body.
func (c *apiClient) do(ctx context.Context, op, accessToken string, req *http.Request, fail failure) (*http.Response, error) {
	if accessToken == "" {
		return nil, errors.NewUnauthorizedError("Unauthorized: access token missing.")
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fail(err.Error(), op)
		}
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.base)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))

	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		c.logger.Warnw("google request failed", "api", c.api, "op", op, "error", err)
		metrics.ObserveGoogleRequest(c.api, op, 0)
		return nil, fail(err.Error(), op)
	}
	metrics.ObserveGoogleRequest(c.api, op, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		message := errorMessage(resp)
		c.logger.Warnw("google request rejected",
			"api", c.api,
			"op", op,
			"status", resp.StatusCode,
			"message", message,
		)
		if resp.StatusCode == http.StatusUnauthorized {
			return nil, errors.NewUnauthorizedError(message, op)
		}
		return nil, fail(message, op)
	}
	return resp, nil
}

// doJSON sends req and decodes a JSON response into out when out is not nil.
func (c *apiClient) doJSON(ctx context.Context, op, accessToken string, req *http.Request, out any, fail failure) error {
	resp, err := c.do(ctx, op, accessToken, req, fail)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fail(fmt.Sprintf("invalid response from %s", c.api), err.Error())
	}
	return nil
}

type googleErrorBody struct {
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
}

// errorMessage extracts error.message (or message) from a Google error
// body, falling back to "Request failed (<status>)".
func errorMessage(resp *http.Response) string {
	fallback := fmt.Sprintf("Request failed (%d)", resp.StatusCode)

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(data) == 0 {
		return fallback
	}

	var body googleErrorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return fallback
	}
	if len(body.Error) > 0 {
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body.Error, &nested); err == nil && nested.Message != "" {
			return nested.Message
		}
	}
	if body.Message != "" {
		return body.Message
	}
	return fallback
}
