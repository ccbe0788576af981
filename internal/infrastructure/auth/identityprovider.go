package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ntwoods/dealerdocs/internal/shared/errors"
	"github.com/ntwoods/dealerdocs/internal/shared/logger"
)

const (
	DefaultDiscoveryURL = "https://accounts.google.com/.well-known/openid-configuration"
	// ReadyTimeout bounds a single discovery attempt.
	ReadyTimeout = 10 * time.Second

	providerUnavailableMessage = "Google Identity Services failed to load."
	discoveryKey               = "discovery"
)

// DiscoveryDocument is the part of the OpenID configuration the service uses.
type DiscoveryDocument struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	UserinfoEndpoint      string `json:"userinfo_endpoint"`
	JWKSURI               string `json:"jwks_uri"`
}

// IdentityProvider loads the provider's OpenID configuration on first use.
// Concurrent callers share one in-flight attempt. A successful document is
// kept for the life of the process; a failed attempt is retried by the next
// caller.
type IdentityProvider struct {
	discoveryURL string
	httpClient   *http.Client
	timeout      time.Duration
	logger       logger.Interface

	group singleflight.Group
	doc   atomic.Pointer[DiscoveryDocument]
}

func NewIdentityProvider(discoveryURL string, httpClient *http.Client, log logger.Interface) *IdentityProvider {
	if discoveryURL == "" {
		discoveryURL = DefaultDiscoveryURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &IdentityProvider{
		discoveryURL: discoveryURL,
		httpClient:   httpClient,
		timeout:      ReadyTimeout,
		logger:       log,
	}
}

// Ready returns the discovery document, waiting for a load in progress.
// It fails when the attempt does not finish within ReadyTimeout or ctx ends.
// A caller giving up does not cancel the shared attempt.
func (p *IdentityProvider) Ready(ctx context.Context) (*DiscoveryDocument, error) {
	if doc := p.doc.Load(); doc != nil {
		return doc, nil
	}

	select {
	case res := <-p.group.DoChan(discoveryKey, p.load):
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*DiscoveryDocument), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *IdentityProvider) load() (any, error) {
	// A caller may have read an empty cache just before the previous
	// attempt stored its result.
	if doc := p.doc.Load(); doc != nil {
		return doc, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	start := time.Now()
	doc, err := p.fetch(ctx)
	if err != nil {
		p.logger.Warnw("identity provider not ready", "url", p.discoveryURL, "error", err)
		return nil, err
	}
	p.doc.Store(doc)
	p.logger.Infow("identity provider ready", "issuer", doc.Issuer, "elapsed", time.Since(start))
	return doc, nil
}

func (p *IdentityProvider) fetch(ctx context.Context) (*DiscoveryDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.discoveryURL, nil)
	if err != nil {
		return nil, errors.NewIdentityProviderError(providerUnavailableMessage, err.Error())
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewIdentityProviderError(providerUnavailableMessage, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewIdentityProviderError(providerUnavailableMessage,
			fmt.Sprintf("discovery returned status %d", resp.StatusCode))
	}

	var doc DiscoveryDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, errors.NewIdentityProviderError(providerUnavailableMessage, err.Error())
	}
	if doc.TokenEndpoint == "" {
		return nil, errors.NewIdentityProviderError(providerUnavailableMessage, "discovery document has no token endpoint")
	}
	return &doc, nil
}
