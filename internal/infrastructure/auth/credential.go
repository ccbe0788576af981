package auth

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ntwoods/dealerdocs/internal/shared/errors"
)

const invalidEmailMessage = "Google did not return a valid email."

// IdentityClaims are the identity token claims the service reads.
type IdentityClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// DecodeCredential reads the claims of a Google identity token without
// checking its signature. Trust comes from the verification endpoint, which
// runs before any session is created. The returned email is lowercased and
// trimmed.
func DecodeCredential(credential string) (*IdentityClaims, error) {
	claims := &IdentityClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(strings.TrimSpace(credential), claims); err != nil {
		return nil, errors.NewTokenInvalidError(invalidEmailMessage)
	}

	claims.Email = strings.ToLower(strings.TrimSpace(claims.Email))
	if claims.Email == "" {
		return nil, errors.NewTokenInvalidError(invalidEmailMessage)
	}
	return claims, nil
}

// CredentialDecoder adapts DecodeCredential to callers that only need the
// email.
type CredentialDecoder struct{}

func (CredentialDecoder) Email(credential string) (string, error) {
	claims, err := DecodeCredential(credential)
	if err != nil {
		return "", err
	}
	return claims.Email, nil
}
