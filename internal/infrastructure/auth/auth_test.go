package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntwoods/dealerdocs/internal/domain/session"
	"github.com/ntwoods/dealerdocs/internal/shared/errors"
	"github.com/ntwoods/dealerdocs/internal/shared/logger"
)

func signCredential(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestDecodeCredential(t *testing.T) {
	credential := signCredential(t, jwt.MapClaims{
		"email": " MIS01@ntwoods.com ",
		"name":  "MIS Desk",
		"aud":   "client-1",
		"exp":   time.Now().Add(-time.Hour).Unix(),
	})

	claims, err := DecodeCredential(credential)

	require.NoError(t, err)
	assert.Equal(t, "mis01@ntwoods.com", claims.Email)
	assert.Equal(t, "MIS Desk", claims.Name)
	assert.Equal(t, jwt.ClaimStrings{"client-1"}, claims.Audience)
}

func TestCredentialDecoder_Email(t *testing.T) {
	email, err := CredentialDecoder{}.Email(signCredential(t, jwt.MapClaims{"email": "Info@NTWoods.com"}))

	require.NoError(t, err)
	assert.Equal(t, "info@ntwoods.com", email)
}

func TestDecodeCredential_Invalid(t *testing.T) {
	tests := map[string]string{
		"garbage":       "not-a-jwt",
		"empty":         "",
		"missing email": signCredential(t, jwt.MapClaims{"sub": "123"}),
		"blank email":   signCredential(t, jwt.MapClaims{"email": "  "}),
	}
	for name, credential := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeCredential(credential)
			require.Error(t, err)
			authErr := errors.GetAuthError(err)
			require.NotNil(t, authErr)
			assert.Equal(t, errors.ErrorTypeTokenInvalid, authErr.Type)
			assert.Equal(t, "Google did not return a valid email.", authErr.Message)
		})
	}
}

type fakeGoogle struct {
	srv            *httptest.Server
	discoveryHits  atomic.Int32
	discoveryDelay time.Duration
	discoveryFail  atomic.Bool
	tokenStatus    int
	tokenBody      string
	tokenForm      chan map[string]string
}

func newFakeGoogle(t *testing.T) *fakeGoogle {
	t.Helper()
	f := &fakeGoogle{
		tokenStatus: http.StatusOK,
		tokenBody:   `{"access_token":"ya29.token","expires_in":3599,"token_type":"Bearer","scope":"openid email"}`,
		tokenForm:   make(chan map[string]string, 1),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		f.discoveryHits.Add(1)
		if f.discoveryDelay > 0 {
			select {
			case <-time.After(f.discoveryDelay):
			case <-r.Context().Done():
				return
			}
		}
		if f.discoveryFail.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(DiscoveryDocument{
			Issuer:                "https://accounts.google.com",
			AuthorizationEndpoint: f.srv.URL + "/o/oauth2/v2/auth",
			TokenEndpoint:         f.srv.URL + "/token",
		})
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form := map[string]string{}
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		select {
		case f.tokenForm <- form:
		default:
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.tokenStatus)
		_, _ = io.WriteString(w, f.tokenBody)
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeGoogle) discoveryURL() string {
	return f.srv.URL + "/.well-known/openid-configuration"
}

func TestIdentityProvider_ReadyOnceForConcurrentCallers(t *testing.T) {
	google := newFakeGoogle(t)
	google.discoveryDelay = 20 * time.Millisecond
	provider := NewIdentityProvider(google.discoveryURL(), google.srv.Client(), logger.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc, err := provider.Ready(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, google.srv.URL+"/token", doc.TokenEndpoint)
		}()
	}
	wg.Wait()

	_, err := provider.Ready(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), google.discoveryHits.Load())
}

func TestIdentityProvider_TimesOut(t *testing.T) {
	google := newFakeGoogle(t)
	google.discoveryDelay = time.Second
	provider := NewIdentityProvider(google.discoveryURL(), google.srv.Client(), logger.NewNop())
	provider.timeout = 30 * time.Millisecond

	_, err := provider.Ready(context.Background())

	require.Error(t, err)
	assert.Equal(t, "Google Identity Services failed to load.", errors.Message(err))
}

func TestIdentityProvider_RetriesAfterFailure(t *testing.T) {
	google := newFakeGoogle(t)
	google.discoveryFail.Store(true)
	provider := NewIdentityProvider(google.discoveryURL(), google.srv.Client(), logger.NewNop())

	_, err := provider.Ready(context.Background())
	require.Error(t, err)

	google.discoveryFail.Store(false)
	doc, err := provider.Ready(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, doc.TokenEndpoint)
	assert.Equal(t, int32(2), google.discoveryHits.Load())
}

func TestIdentityProvider_CallerContext(t *testing.T) {
	google := newFakeGoogle(t)
	google.discoveryDelay = 200 * time.Millisecond
	provider := NewIdentityProvider(google.discoveryURL(), google.srv.Client(), logger.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := provider.Ready(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestIdentityProvider_AbandonedWaitKeepsSharedAttempt(t *testing.T) {
	google := newFakeGoogle(t)
	google.discoveryDelay = 50 * time.Millisecond
	provider := NewIdentityProvider(google.discoveryURL(), google.srv.Client(), logger.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	_, err := provider.Ready(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	doc, err := provider.Ready(context.Background())

	require.NoError(t, err)
	assert.Equal(t, google.srv.URL+"/token", doc.TokenEndpoint)
	assert.Equal(t, int32(1), google.discoveryHits.Load())
}

func newTokenClient(google *fakeGoogle) *GoogleAccessTokenClient {
	provider := NewIdentityProvider(google.discoveryURL(), google.srv.Client(), logger.NewNop())
	return NewGoogleAccessTokenClient("client-1", "secret-1", provider, google.srv.Client(), logger.NewNop())
}

func TestAccessTokenClient_Exchange(t *testing.T) {
	google := newFakeGoogle(t)
	client := newTokenClient(google)

	token, err := client.Exchange(context.Background(), "4/auth-code")

	require.NoError(t, err)
	assert.Equal(t, "ya29.token", token.AccessToken)
	assert.Equal(t, int64(3599), token.ExpiresIn)
	assert.Equal(t, "openid email", token.Scope)

	form := <-google.tokenForm
	assert.Equal(t, "authorization_code", form["grant_type"])
	assert.Equal(t, "4/auth-code", form["code"])
	assert.Equal(t, "postmessage", form["redirect_uri"])
	assert.Equal(t, "client-1", form["client_id"])
	assert.Equal(t, "secret-1", form["client_secret"])
}

func TestAccessTokenClient_NoExpiresIn(t *testing.T) {
	google := newFakeGoogle(t)
	google.tokenBody = `{"access_token":"ya29.token","token_type":"Bearer"}`

	token, err := newTokenClient(google).Exchange(context.Background(), "code")

	require.NoError(t, err)
	assert.Zero(t, token.ExpiresIn)
}

func TestAccessTokenClient_ProviderErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "description wins",
			body: `{"error":"invalid_grant","error_description":"Bad Request"}`,
			want: "Bad Request",
		},
		{
			name: "error code fallback",
			body: `{"error":"access_denied"}`,
			want: "access_denied",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			google := newFakeGoogle(t)
			google.tokenStatus = http.StatusBadRequest
			google.tokenBody = tt.body

			_, err := newTokenClient(google).Exchange(context.Background(), "code")

			require.Error(t, err)
			assert.Equal(t, tt.want, errors.Message(err))
			assert.Equal(t, errors.ErrorTypeOAuthError, errors.GetAuthError(err).Type)
		})
	}
}

func TestAccessTokenClient_EmptyCode(t *testing.T) {
	google := newFakeGoogle(t)

	_, err := newTokenClient(google).Exchange(context.Background(), " ")

	assert.True(t, errors.IsValidationError(err))
	assert.Zero(t, google.discoveryHits.Load())
}

func newVerifyServer(t *testing.T, status int, body string, got *verificationRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		if got != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(got))
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVerificationClient_Verify(t *testing.T) {
	var got verificationRequest
	srv := newVerifyServer(t, http.StatusOK, `{"ok":true,"email":"mis01@ntwoods.com"}`, &got)
	client := NewVerificationClient(srv.URL, "client-1", srv.Client(), logger.NewNop())

	result, err := client.Verify(context.Background(), "id-token")

	require.NoError(t, err)
	assert.Equal(t, &session.Verification{OK: true, Email: "mis01@ntwoods.com"}, result)
	assert.Equal(t, verificationRequest{IDToken: "id-token", ClientID: "client-1"}, got)
}

func TestVerificationClient_Outcomes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   session.Verification
	}{
		{
			name:   "rejected with reason",
			status: http.StatusOK,
			body:   `{"ok":false,"reason":"Audience mismatch"}`,
			want:   session.Verification{OK: false, Reason: "Audience mismatch"},
		},
		{
			name:   "server error without reason",
			status: http.StatusInternalServerError,
			body:   `{}`,
			want:   session.Verification{OK: false, Reason: "Server verification failed (500)"},
		},
		{
			name:   "server error with reason",
			status: http.StatusForbidden,
			body:   `{"reason":"Token expired","email":"a@b.c"}`,
			want:   session.Verification{OK: false, Email: "a@b.c", Reason: "Token expired"},
		},
		{
			name:   "html body",
			status: http.StatusOK,
			body:   `<html>moved</html>`,
			want:   session.Verification{OK: false, Reason: "Invalid server response"},
		},
		{
			name:   "html error body",
			status: http.StatusBadGateway,
			body:   `<html>bad gateway</html>`,
			want:   session.Verification{OK: false, Reason: "Invalid server response"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newVerifyServer(t, tt.status, tt.body, nil)
			client := NewVerificationClient(srv.URL, "client-1", srv.Client(), logger.NewNop())

			result, err := client.Verify(context.Background(), "id-token")

			require.NoError(t, err)
			assert.Equal(t, tt.want, *result)
		})
	}
}

func TestVerificationClient_MissingEndpoint(t *testing.T) {
	client := NewVerificationClient("", "client-1", nil, logger.NewNop())

	_, err := client.Verify(context.Background(), "id-token")

	assert.True(t, errors.IsConfigurationError(err))
}
