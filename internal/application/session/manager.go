// Package session runs sign-in, session lookup and sign-out for one client
// scope at a time.
package session

import (
	"context"

	domain "github.com/ntwoods/dealerdocs/internal/domain/session"
	"github.com/ntwoods/dealerdocs/internal/infrastructure/metrics"
	"github.com/ntwoods/dealerdocs/internal/shared/biztime"
	"github.com/ntwoods/dealerdocs/internal/shared/errors"
	"github.com/ntwoods/dealerdocs/internal/shared/logger"
	"github.com/ntwoods/dealerdocs/internal/shared/utils"
	"github.com/ntwoods/dealerdocs/internal/shared/utils/logutil"
)

const (
	notAllowlistedReason     = "Your email is not in the allowlist."
	verificationFailedReason = "Server-side verification failed."
)

// CredentialDecoder extracts the email from an identity credential.
type CredentialDecoder interface {
	Email(credential string) (string, error)
}

// IdentityVerifier checks an identity token server-side.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*domain.Verification, error)
}

// AccessTokenIssuer trades an authorization code for an access token.
type AccessTokenIssuer interface {
	Exchange(ctx context.Context, code string) (*domain.AccessGrant, error)
}

type SignInCommand struct {
	Credential string
	AuthCode   string
}

// Manager owns the session of every scope. It is the only component that
// writes sessions and the only one that turns an authorization failure into
// a forced sign-out.
type Manager struct {
	decoder   CredentialDecoder
	verifier  IdentityVerifier
	issuer    AccessTokenIssuer
	store     domain.Store
	allowlist *domain.Allowlist
	clock     biztime.Clock
	logger    logger.Interface
}

func NewManager(
	decoder CredentialDecoder,
	verifier IdentityVerifier,
	issuer AccessTokenIssuer,
	store domain.Store,
	allowlist *domain.Allowlist,
	logger logger.Interface,
) *Manager {
	return &Manager{
		decoder:   decoder,
		verifier:  verifier,
		issuer:    issuer,
		store:     store,
		allowlist: allowlist,
		clock:     biztime.NowUTC,
		logger:    logger,
	}
}

// Allowlist returns the configured allowlist.
func (m *Manager) Allowlist() *domain.Allowlist {
	return m.allowlist
}

// SignIn authenticates scope with an identity credential and an
// authorization code. Steps run in order and stop at the first failure:
// decode the email, check the allowlist, verify server-side, obtain the
// access token, persist. Denials return *errors.AuthDeniedError; an account
// outside the allowlist is denied before any network call.
func (m *Manager) SignIn(ctx context.Context, scope string, cmd SignInCommand) (*domain.Session, error) {
	sess, err := m.signIn(ctx, scope, cmd)
	switch {
	case err == nil:
		metrics.ObserveSignIn("success")
	case errors.GetAuthDeniedError(err) != nil:
		metrics.ObserveSignIn("denied")
	default:
		metrics.ObserveSignIn("error")
	}
	return sess, err
}

func (m *Manager) signIn(ctx context.Context, scope string, cmd SignInCommand) (*domain.Session, error) {
	if scope == "" {
		return nil, errors.NewBadRequestError("session scope is missing")
	}

	email, err := m.decoder.Email(cmd.Credential)
	if err != nil {
		return nil, err
	}
	email = domain.NormalizeEmail(email)

	if !m.allowlist.Allows(email) {
		m.logger.Warnw("sign-in denied", "email", utils.MaskEmail(email), "reason", "allowlist")
		return nil, errors.NewAuthDeniedError(email, notAllowlistedReason)
	}

	verdict, err := m.verifier.Verify(ctx, cmd.Credential)
	if err != nil {
		return nil, err
	}
	if !verdict.OK {
		reason := verdict.Reason
		if reason == "" {
			reason = verificationFailedReason
		}
		m.logger.Warnw("sign-in denied", "email", utils.MaskEmail(email), "reason", reason)
		return nil, errors.NewAuthDeniedError(email, reason)
	}

	grant, err := m.issuer.Exchange(ctx, cmd.AuthCode)
	if err != nil {
		return nil, err
	}
	if grant == nil || grant.AccessToken == "" {
		return nil, errors.NewIdentityProviderError("Google did not return an access token.")
	}

	sess := &domain.Session{
		Email:         email,
		IdentityToken: cmd.Credential,
		AccessToken:   grant.AccessToken,
		ExpiresAt:     domain.ExpiresAtFor(m.clock(), grant.ExpiresIn),
	}
	if err := m.store.Save(ctx, scope, sess); err != nil {
		return nil, errors.NewInternalError("failed to persist session", err.Error())
	}

	m.logger.Infow("signed in", "email", utils.MaskEmail(email), "expires_at", sess.ExpiresAt)
	return sess, nil
}

// Current returns the scope's session, or nil when there is none. A stored
// session that is incomplete or expired is cleared and reported as absent.
func (m *Manager) Current(ctx context.Context, scope string) (*domain.Session, error) {
	sess, _, err := m.load(ctx, scope)
	return sess, err
}

// State reports where scope is in the session lifecycle: authenticated,
// expired (a stored session was just discarded) or anonymous.
func (m *Manager) State(ctx context.Context, scope string) (domain.State, *domain.Session, error) {
	sess, discarded, err := m.load(ctx, scope)
	switch {
	case err != nil:
		return domain.StateAnonymous, nil, err
	case sess != nil:
		return domain.StateAuthenticated, sess, nil
	case discarded:
		return domain.StateExpired, nil, nil
	default:
		return domain.StateAnonymous, nil, nil
	}
}

func (m *Manager) load(ctx context.Context, scope string) (*domain.Session, bool, error) {
	if scope == "" {
		return nil, false, nil
	}
	sess, err := m.store.Load(ctx, scope)
	if err != nil {
		return nil, false, errors.NewInternalError("failed to load session", err.Error())
	}
	if sess == nil {
		return nil, false, nil
	}
	if !sess.Valid(m.clock()) {
		if err := m.store.Clear(ctx, scope); err != nil {
			m.logger.Warnw("failed to clear invalid session", "error", err)
		}
		return nil, true, nil
	}
	return sess, false, nil
}

// SignOut clears the scope whatever its state.
func (m *Manager) SignOut(ctx context.Context, scope string) error {
	if err := m.store.Clear(ctx, scope); err != nil {
		return errors.NewInternalError("failed to clear session", err.Error())
	}
	return nil
}

// HandleError inspects an error from a store or upload call. Authorization
// failures clear the scope and become a session-expired error; anything
// else is returned unchanged.
func (m *Manager) HandleError(ctx context.Context, scope string, err error) error {
	if err == nil || !errors.IsUnauthorizedFailure(err) {
		return err
	}
	if clearErr := m.store.Clear(ctx, scope); clearErr != nil {
		m.logger.Warnw("failed to clear session after authorization failure", "error", clearErr)
	}
	m.logger.Infow("session invalidated", "cause", logutil.Truncate(errors.Message(err), 200))
	return errors.NewSessionExpiredError()
}
