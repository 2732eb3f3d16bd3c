package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Sr1515/social_network/models"
	"github.com/Sr1515/social_network/repositories"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Identity is the authenticated user behind a credential.
type Identity struct {
	UserID   uuid.UUID
	Username string
}

// Reason says why a credential was rejected.
type Reason string

const (
	ReasonMissing        Reason = "missing"
	ReasonMalformed      Reason = "malformed"
	ReasonExpired        Reason = "expired"
	ReasonBadSignature   Reason = "bad_signature"
	ReasonUnknownSubject Reason = "unknown_subject"
	ReasonInactive       Reason = "inactive"
	ReasonLookupFailed   Reason = "lookup_failed"
)

type VerifyError struct {
	Reason Reason
	Err    error
}

func (e *VerifyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("credential rejected (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("credential rejected (%s)", e.Reason)
}

func (e *VerifyError) Unwrap() error { return e.Err }

// RejectReason extracts the reason from a Verify error, or ReasonLookupFailed for foreign errors.
func RejectReason(err error) Reason {
	var verr *VerifyError
	if errors.As(err, &verr) {
		return verr.Reason
	}
	return ReasonLookupFailed
}

type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// JWTVerifier turns an access token into an Identity backed by an active user.
type JWTVerifier struct {
	tokens *TokenIssuer
	users  UserFinder
}

func NewJWTVerifier(tokens *TokenIssuer, users UserFinder) *JWTVerifier {
	return &JWTVerifier{tokens: tokens, users: users}
}

func (v *JWTVerifier) Verify(ctx context.Context, credential string) (Identity, error) {
	if credential == "" {
		return Identity{}, &VerifyError{Reason: ReasonMissing}
	}

	claims, err := v.tokens.Parse(credential, AccessToken)
	if err != nil {
		return Identity{}, &VerifyError{Reason: classify(err), Err: err}
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return Identity{}, &VerifyError{Reason: ReasonMalformed, Err: err}
	}

	user, err := v.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return Identity{}, &VerifyError{Reason: ReasonUnknownSubject, Err: err}
		}
		return Identity{}, &VerifyError{Reason: ReasonLookupFailed, Err: err}
	}
	if !user.IsActive {
		return Identity{}, &VerifyError{Reason: ReasonInactive}
	}

	return Identity{UserID: user.ID, Username: user.Username}, nil
}

func classify(err error) Reason {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ReasonExpired
	case errors.Is(err, jwt.ErrSignatureInvalid), errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ReasonBadSignature
	default:
		return ReasonMalformed
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
// Anything else yields "".
func BearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
