package handlers

import (
	"context"

	appsession "github.com/ntwoods/dealerdocs/internal/application/session"
	"github.com/ntwoods/dealerdocs/internal/domain/session"
)

// SessionService is the session manager as seen by the auth handler.
type SessionService interface {
	SignIn(ctx context.Context, scope string, cmd appsession.SignInCommand) (*session.Session, error)
	State(ctx context.Context, scope string) (session.State, *session.Session, error)
	SignOut(ctx context.Context, scope string) error
	Allowlist() *session.Allowlist
}
