package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_IssueAndParse(t *testing.T) {
	req := require.New(t)
	issuer := NewTokenIssuer("test-secret", time.Hour, 24*time.Hour)
	userID := uuid.New()

	pair, err := issuer.IssuePair(userID)
	req.NoError(err)
	req.NotEmpty(pair.Access)
	req.NotEmpty(pair.Refresh)

	claims, err := issuer.Parse(pair.Access, AccessToken)
	req.NoError(err)
	req.Equal(userID.String(), claims.UserID)

	_, err = issuer.Parse(pair.Refresh, AccessToken)
	req.ErrorIs(err, ErrWrongTokenType)
}

func TestTokenIssuer_Refresh(t *testing.T) {
	req := require.New(t)
	issuer := NewTokenIssuer("test-secret", time.Hour, 24*time.Hour)
	userID := uuid.New()

	pair, err := issuer.IssuePair(userID)
	req.NoError(err)

	access, err := issuer.Refresh(pair.Refresh)
	req.NoError(err)
	claims, err := issuer.Parse(access, AccessToken)
	req.NoError(err)
	req.Equal(userID.String(), claims.UserID)

	_, err = issuer.Refresh(pair.Access)
	req.ErrorIs(err, ErrWrongTokenType)
}

func TestTokenIssuer_RejectsExpiredAndForeignTokens(t *testing.T) {
	req := require.New(t)
	issuer := NewTokenIssuer("test-secret", time.Hour, time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	pair, err := issuer.IssuePair(uuid.New())
	req.NoError(err)
	_, err = issuer.Parse(pair.Access, AccessToken)
	req.ErrorIs(err, jwt.ErrTokenExpired)

	other := NewTokenIssuer("other-secret", time.Hour, time.Hour)
	foreign, err := other.IssuePair(uuid.New())
	req.NoError(err)
	_, err = issuer.Parse(foreign.Access, AccessToken)
	req.Error(err)
}

func TestPassword_HashAndCompare(t *testing.T) {
	req := require.New(t)

	hash, err := HashPassword("s3cret-passw0rd")
	req.NoError(err)

	ok, err := ComparePassword("s3cret-passw0rd", hash)
	req.NoError(err)
	req.True(ok)

	ok, err = ComparePassword("wrong", hash)
	req.NoError(err)
	req.False(ok)
}
