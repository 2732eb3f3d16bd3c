package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sr1515/social_network/models"
	"github.com/Sr1515/social_network/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type stubUsers struct {
	users map[uuid.UUID]*models.User
	err   error
}

func (s stubUsers) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	user, ok := s.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return user, nil
}

func newUser(username string, active bool) *models.User {
	return &models.User{BaseModel: models.BaseModel{ID: uuid.New()}, Username: username, IsActive: active}
}

func TestJWTVerifier_Verify(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour, time.Hour)
	alice := newUser("alice", true)
	banned := newUser("mallory", false)
	ghost := uuid.New()
	users := stubUsers{users: map[uuid.UUID]*models.User{alice.ID: alice, banned.ID: banned}}

	token := func(id uuid.UUID) string {
		pair, err := issuer.IssuePair(id)
		require.NoError(t, err)
		return pair.Access
	}
	refresh := func(id uuid.UUID) string {
		pair, err := issuer.IssuePair(id)
		require.NoError(t, err)
		return pair.Refresh
	}

	tests := []struct {
		name       string
		users      UserFinder
		credential string
		want       Reason
	}{
		{"missing credential", users, "", ReasonMissing},
		{"garbage credential", users, "not-a-jwt", ReasonMalformed},
		{"refresh token used as access", users, refresh(alice.ID), ReasonMalformed},
		{"unknown subject", users, token(ghost), ReasonUnknownSubject},
		{"inactive user", users, token(banned.ID), ReasonInactive},
		{"lookup failure", stubUsers{err: errors.New("connection reset")}, token(alice.ID), ReasonLookupFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewJWTVerifier(issuer, tt.users).Verify(context.Background(), tt.credential)
			require.Error(t, err)
			require.Equal(t, tt.want, RejectReason(err))
		})
	}

	t.Run("valid credential", func(t *testing.T) {
		identity, err := NewJWTVerifier(issuer, users).Verify(context.Background(), token(alice.ID))
		require.NoError(t, err)
		require.Equal(t, Identity{UserID: alice.ID, Username: "alice"}, identity)
	})
}

func TestJWTVerifier_ExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Minute, time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
	alice := newUser("alice", true)

	pair, err := issuer.IssuePair(alice.ID)
	require.NoError(t, err)

	verifier := NewJWTVerifier(issuer, stubUsers{users: map[uuid.UUID]*models.User{alice.ID: alice}})
	_, err = verifier.Verify(context.Background(), pair.Access)
	require.Equal(t, ReasonExpired, RejectReason(err))
}

func TestBearerToken(t *testing.T) {
	req := require.New(t)
	req.Equal("abc.def.ghi", BearerToken("Bearer abc.def.ghi"))
	req.Equal("", BearerToken("Token abc"))
	req.Equal("", BearerToken("bearer abc"))
	req.Equal("", BearerToken(""))
}
