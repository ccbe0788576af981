package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appsession "github.com/ntwoods/dealerdocs/internal/application/session"
	"github.com/ntwoods/dealerdocs/internal/domain/session"
	"github.com/ntwoods/dealerdocs/internal/interfaces/dto"
	"github.com/ntwoods/dealerdocs/internal/interfaces/http/handlers/testutil"
	"github.com/ntwoods/dealerdocs/internal/shared/config"
	"github.com/ntwoods/dealerdocs/internal/shared/errors"
	"github.com/ntwoods/dealerdocs/internal/shared/logger"
)

const testScope = "6f1c1f3e-0b7e-4a4b-9d56-2f8f0f1f2a10"

type mockSessionService struct {
	mock.Mock
	allowlist *session.Allowlist
}

func (m *mockSessionService) SignIn(ctx context.Context, scope string, cmd appsession.SignInCommand) (*session.Session, error) {
	args := m.Called(ctx, scope, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *mockSessionService) State(ctx context.Context, scope string) (session.State, *session.Session, error) {
	args := m.Called(ctx, scope)
	var sess *session.Session
	if args.Get(1) != nil {
		sess = args.Get(1).(*session.Session)
	}
	return args.Get(0).(session.State), sess, args.Error(2)
}

func (m *mockSessionService) SignOut(ctx context.Context, scope string) error {
	return m.Called(ctx, scope).Error(0)
}

func (m *mockSessionService) Allowlist() *session.Allowlist {
	return m.allowlist
}

func newTestAuthHandler() (*AuthHandler, *mockSessionService) {
	svc := &mockSessionService{allowlist: session.NewAllowlist([]string{"mis01@ntwoods.com", "info@ntwoods.com"})}
	cfg := config.AuthConfig{SessionCookie: "dealer_docs_session", CookieSameSite: "lax"}
	return NewAuthHandler(svc, cfg, logger.NewNop()), svc
}

func TestAuthHandler_SignIn_Success(t *testing.T) {
	handler, svc := newTestAuthHandler()
	expiresAt := time.Date(2024, 5, 1, 10, 59, 0, 0, time.UTC)
	svc.On("SignIn", mock.Anything, testScope, appsession.SignInCommand{Credential: "id-token", AuthCode: "code-1"}).
		Return(&session.Session{Email: "mis01@ntwoods.com", IdentityToken: "id-token", AccessToken: "ya29", ExpiresAt: expiresAt}, nil)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/auth/google", dto.SignInRequest{Credential: "id-token", Code: "code-1"})
	testutil.SetScope(c, testScope)

	handler.SignIn(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.True(t, resp.Success)

	var data dto.SessionResponse
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, session.StateAuthenticated, data.State)
	assert.Equal(t, "mis01@ntwoods.com", data.Email)
	require.NotNil(t, data.ExpiresAt)
	assert.True(t, expiresAt.Equal(*data.ExpiresAt))
	assert.NotContains(t, w.Body.String(), "ya29")
}

func TestAuthHandler_SignIn_MissingFields(t *testing.T) {
	handler, svc := newTestAuthHandler()

	c, w := testutil.NewTestContext(http.MethodPost, "/api/auth/google", map[string]string{"credential": "id-token"})
	testutil.SetScope(c, testScope)

	handler.SignIn(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, string(errors.ErrorTypeValidation), resp.Error.Type)
	svc.AssertNotCalled(t, "SignIn", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthHandler_SignIn_Denied(t *testing.T) {
	handler, svc := newTestAuthHandler()
	svc.On("SignIn", mock.Anything, testScope, mock.Anything).
		Return(nil, errors.NewAuthDeniedError("random@gmail.com", "Your email is not in the allowlist."))

	c, w := testutil.NewTestContext(http.MethodPost, "/api/auth/google", dto.SignInRequest{Credential: "id-token", Code: "code-1"})
	testutil.SetScope(c, testScope)

	handler.SignIn(c)

	require.Equal(t, http.StatusForbidden, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "access_denied", resp.Error.Type)
	assert.Equal(t, "Your email is not in the allowlist.", resp.Error.Message)

	var denied dto.DeniedResponse
	require.NoError(t, json.Unmarshal(resp.Data, &denied))
	assert.Equal(t, "random@gmail.com", denied.Email)
	assert.Equal(t, []string{"mis01@ntwoods.com", "info@ntwoods.com"}, denied.AllowedEmails)
}

func TestAuthHandler_SignIn_ProviderFailure(t *testing.T) {
	handler, svc := newTestAuthHandler()
	svc.On("SignIn", mock.Anything, testScope, mock.Anything).
		Return(nil, errors.NewIdentityProviderError("Google token request failed."))

	c, w := testutil.NewTestContext(http.MethodPost, "/api/auth/google", dto.SignInRequest{Credential: "id-token", Code: "code-1"})
	testutil.SetScope(c, testScope)

	handler.SignIn(c)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.Equal(t, "Google token request failed.", resp.Error.Message)
	assert.Empty(t, resp.Data)
}

func TestAuthHandler_Session(t *testing.T) {
	expiresAt := time.Date(2024, 5, 1, 10, 59, 0, 0, time.UTC)
	tests := []struct {
		name       string
		state      session.State
		sess       *session.Session
		wantStatus int
		wantType   string
	}{
		{
			name:       "authenticated",
			state:      session.StateAuthenticated,
			sess:       &session.Session{Email: "mis01@ntwoods.com", IdentityToken: "id", AccessToken: "at", ExpiresAt: expiresAt},
			wantStatus: http.StatusOK,
		},
		{
			name:       "expired",
			state:      session.StateExpired,
			wantStatus: http.StatusUnauthorized,
			wantType:   "session_expired",
		},
		{
			name:       "anonymous",
			state:      session.StateAnonymous,
			wantStatus: http.StatusUnauthorized,
			wantType:   "unauthorized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, svc := newTestAuthHandler()
			svc.On("State", mock.Anything, testScope).Return(tt.state, tt.sess, nil)

			c, w := testutil.NewTestContext(http.MethodGet, "/api/auth/session", nil)
			testutil.SetScope(c, testScope)

			handler.Session(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp testutil.APIResponse
			require.NoError(t, testutil.ParseResponse(w, &resp))
			if tt.wantType != "" {
				assert.Equal(t, tt.wantType, resp.Error.Type)
			} else {
				assert.True(t, resp.Success)
			}
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	handler, svc := newTestAuthHandler()
	svc.On("SignOut", mock.Anything, testScope).Return(nil)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/auth/logout", nil)
	testutil.SetScope(c, testScope)

	handler.Logout(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "dealer_docs_session=;")
	assert.Contains(t, w.Header().Get("Set-Cookie"), "HttpOnly")
	svc.AssertExpectations(t)
}
