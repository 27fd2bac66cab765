package auth

import (
	goerrors "errors"
	"event-lab/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_Authenticate_AdminToken(t *testing.T) {
	req := require.New(t)
	verifier := NewVerifier("test-secret", "admin-token-123")

	actor, err := verifier.Authenticate("admin-token-123")
	req.NoError(err)
	req.Equal("admin", actor)
}

func Test_Authenticate_MissingToken(t *testing.T) {
	req := require.New(t)
	verifier := NewVerifier("test-secret", "admin-token-123")

	_, err := verifier.Authenticate("")
	req.True(goerrors.Is(err, errors.ErrUnauthorized))
}

func Test_Authenticate_JWTRoundTrip(t *testing.T) {
	req := require.New(t)
	verifier := NewVerifier("test-secret", "admin-token-123")

	token, err := verifier.GenerateToken("user-42", []string{"user"}, time.Hour)
	req.NoError(err)

	actor, err := verifier.Authenticate(token)
	req.NoError(err)
	req.Equal("user-42", actor)
}

func Test_Authenticate_RejectsForgedToken(t *testing.T) {
	req := require.New(t)
	verifier := NewVerifier("test-secret", "admin-token-123")
	forger := NewVerifier("other-secret", "")

	token, err := forger.GenerateToken("user-42", []string{"user"}, time.Hour)
	req.NoError(err)

	_, err = verifier.Authenticate(token)
	req.True(goerrors.Is(err, errors.ErrInvalidToken))
}

func Test_Authenticate_RejectsExpiredToken(t *testing.T) {
	req := require.New(t)
	verifier := NewVerifier("test-secret", "")

	token, err := verifier.GenerateToken("user-42", []string{"user"}, -time.Minute)
	req.NoError(err)

	_, err = verifier.Authenticate(token)
	req.True(goerrors.Is(err, errors.ErrInvalidToken))
}
