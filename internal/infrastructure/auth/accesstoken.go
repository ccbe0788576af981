package auth

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/ntwoods/dealerdocs/internal/domain/session"
	"github.com/ntwoods/dealerdocs/internal/shared/errors"
	"github.com/ntwoods/dealerdocs/internal/shared/logger"
)

// Scopes requested for every access token.
var Scopes = []string{
	"openid",
	"email",
	"profile",
	"https://www.googleapis.com/auth/spreadsheets",
	"https://www.googleapis.com/auth/drive.file",
}

// popupRedirectURI is the redirect URI Google expects when the
// authorization code came from a browser popup.
const popupRedirectURI = "postmessage"

type providerReadiness interface {
	Ready(ctx context.Context) (*DiscoveryDocument, error)
}

// GoogleAccessTokenClient exchanges an authorization code for an access
// token carrying Scopes.
type GoogleAccessTokenClient struct {
	clientID     string
	clientSecret string
	provider     providerReadiness
	httpClient   *http.Client
	logger       logger.Interface
	now          func() time.Time
}

func NewGoogleAccessTokenClient(clientID, clientSecret string, provider *IdentityProvider, httpClient *http.Client, log logger.Interface) *GoogleAccessTokenClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GoogleAccessTokenClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		provider:     provider,
		httpClient:   httpClient,
		logger:       log,
		now:          time.Now,
	}
}

func (c *GoogleAccessTokenClient) config(doc *DiscoveryDocument) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		RedirectURL:  popupRedirectURI,
		Scopes:       Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   doc.AuthorizationEndpoint,
			TokenURL:  doc.TokenEndpoint,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// Exchange trades code for an access token. A provider error surfaces its
// error_description, or its error code when there is no description.
func (c *GoogleAccessTokenClient) Exchange(ctx context.Context, code string) (*session.AccessGrant, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, errors.NewValidationError("Authorization code is required.")
	}

	doc, err := c.provider.Ready(ctx)
	if err != nil {
		return nil, err
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := c.config(doc).Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if stderrors.As(err, &retrieveErr) {
			reason := retrieveErr.ErrorDescription
			if reason == "" {
				reason = retrieveErr.ErrorCode
			}
			if reason == "" {
				reason = "Google token request failed."
			}
			return nil, errors.NewIdentityProviderError(reason, retrieveErr.Error())
		}
		return nil, errors.NewIdentityProviderError("Google token request failed.", err.Error())
	}

	expiresIn := token.ExpiresIn
	if expiresIn <= 0 && !token.Expiry.IsZero() {
		expiresIn = int64(token.Expiry.Sub(c.now()).Seconds())
	}

	scope, _ := token.Extra("scope").(string)
	c.logger.Debugw("access token granted", "expires_in", expiresIn, "scope", scope)
	return &session.AccessGrant{
		AccessToken: token.AccessToken,
		ExpiresIn:   expiresIn,
		Scope:       scope,
	}, nil
}
