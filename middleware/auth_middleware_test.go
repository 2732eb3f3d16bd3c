package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Sr1515/social_network/auth"
	"github.com/Sr1515/social_network/models"
	"github.com/Sr1515/social_network/repositories"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeUsers map[uuid.UUID]*models.User

func (f fakeUsers) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := f[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return user, nil
}

func newTestApp(users fakeUsers, secret []byte) *fiber.App {
	app := fiber.New()
	app.Get("/me", Protected(secret), func(c *fiber.Ctx) error {
		id, err := CurrentUserID(c)
		if err != nil {
			return err
		}
		return c.SendString(id.String())
	})
	app.Get("/admin", Protected(secret), StaffRequired(users), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func get(t *testing.T, app *fiber.App, path, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestProtected(t *testing.T) {
	secret := []byte("middleware-secret")
	issuer := auth.NewTokenIssuer(string(secret), time.Hour, time.Hour)
	foreign := auth.NewTokenIssuer("someone-else", time.Hour, time.Hour)
	userID := uuid.New()

	pair, err := issuer.IssuePair(userID)
	require.NoError(t, err)
	forged, err := foreign.IssuePair(userID)
	require.NoError(t, err)

	app := newTestApp(fakeUsers{}, secret)

	tests := []struct {
		name   string
		token  string
		status int
		body   string
	}{
		{name: "access token", token: pair.Access, status: fiber.StatusOK, body: userID.String()},
		{name: "no token", token: "", status: fiber.StatusBadRequest},
		{name: "refresh token", token: pair.Refresh, status: fiber.StatusUnauthorized},
		{name: "wrong key", token: forged.Access, status: fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := get(t, app, "/me", tt.token)
			require.Equal(t, tt.status, status)
			if tt.body != "" {
				require.Equal(t, tt.body, body)
			}
		})
	}
}

func TestStaffRequired(t *testing.T) {
	secret := []byte("middleware-secret")
	issuer := auth.NewTokenIssuer(string(secret), time.Hour, time.Hour)

	staff := &models.User{BaseModel: models.BaseModel{ID: uuid.New()}, IsStaff: true, IsActive: true}
	member := &models.User{BaseModel: models.BaseModel{ID: uuid.New()}, IsActive: true}
	suspended := &models.User{BaseModel: models.BaseModel{ID: uuid.New()}, IsStaff: true}
	users := fakeUsers{staff.ID: staff, member.ID: member, suspended.ID: suspended}
	app := newTestApp(users, secret)

	tests := []struct {
		name   string
		userID uuid.UUID
		status int
	}{
		{name: "staff", userID: staff.ID, status: fiber.StatusOK},
		{name: "regular member", userID: member.ID, status: fiber.StatusForbidden},
		{name: "suspended staff", userID: suspended.ID, status: fiber.StatusForbidden},
		{name: "deleted account", userID: uuid.New(), status: fiber.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair, err := issuer.IssuePair(tt.userID)
			require.NoError(t, err)
			status, _ := get(t, app, "/admin", pair.Access)
			require.Equal(t, tt.status, status)
		})
	}
}
