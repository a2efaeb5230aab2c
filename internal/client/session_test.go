package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/loginapi/internal/app"
	"github.com/templui/loginapi/internal/config"
	"github.com/templui/loginapi/internal/model"
	"github.com/templui/loginapi/internal/repository/memrepo"
	"github.com/templui/loginapi/internal/routes"
	"golang.org/x/crypto/bcrypt"
)

func newSession(t *testing.T) (*Session, *httptest.Server) {
	t.Helper()
	a := app.Wire(&config.Config{
		JWTSecret:          "test-secret",
		JWTExpiry:          time.Hour,
		BcryptCost:         bcrypt.MinCost,
		CORSAllowedOrigins: []string{"*"},
	}, memrepo.New())
	srv := httptest.NewServer(routes.SetupRoutes(a))
	t.Cleanup(srv.Close)

	store := NewStore(NewMemoryStorage())
	require.NoError(t, store.Init(context.Background()))

	cfg := &Config{APIURL: srv.URL + "/api/", Timeout: 5 * time.Second}
	return NewSession(cfg, store), srv
}

func strPtr(s string) *string { return &s }

func TestSessionRegisterAndProtectedCalls(t *testing.T) {
	ctx := context.Background()
	s, _ := newSession(t)

	user, err := s.Register(ctx, RegisterRequest{
		Email:    "ada@example.com",
		Password: "pw",
		Name:     strPtr("Ada"),
		Skills:   []string{"JavaScript", "Go"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", *user.Name)
	assert.True(t, s.Store.IsAuthenticated())
	assert.Equal(t, ViewDashboard, s.Store.Snapshot().View)

	profile, err := s.Gateway.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.ID)

	updated, err := s.Gateway.UpdateProfile(ctx, ProfilePatch{
		Bio:    model.Set("hello"),
		Skills: model.Clear[[]string](),
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", *updated.Bio)
	assert.Nil(t, updated.Skills)
	assert.Equal(t, "Ada", *updated.Name)

	res, err := s.Gateway.Search(ctx, model.SearchByEmail, "ada@")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)

	data, err := s.Gateway.Data(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, data.Data.UserID)
}

func TestSessionLoginAndLogout(t *testing.T) {
	ctx := context.Background()
	s, _ := newSession(t)

	_, err := s.Register(ctx, RegisterRequest{Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)
	require.NoError(t, s.Logout(ctx))
	assert.False(t, s.Store.IsAuthenticated())
	assert.Equal(t, ViewLogin, s.Store.Snapshot().View)

	user, err := s.Login(ctx, "ada@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.True(t, s.Store.IsAuthenticated())
}

func TestAPIErrorCarriesMessage(t *testing.T) {
	ctx := context.Background()
	s, _ := newSession(t)

	_, err := s.Register(ctx, RegisterRequest{Email: "ada@example.com"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Email and password are required", apiErr.Message)
	assert.False(t, IsDenied(err))
}

func TestDeniedCallLogsOut(t *testing.T) {
	ctx := context.Background()
	s, _ := newSession(t)

	_, err := s.Register(ctx, RegisterRequest{Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)

	// a token the server cannot verify
	require.NoError(t, s.Store.SetAuth(ctx, "forged", *s.Store.Snapshot().User))

	_, err = s.Gateway.Profile(ctx)
	require.Error(t, err)
	assert.True(t, IsDenied(err))
	assert.False(t, s.Store.IsAuthenticated())
	assert.Equal(t, ViewLogin, s.Store.Snapshot().View)
}

func TestWrongPasswordLeavesNoSession(t *testing.T) {
	ctx := context.Background()
	s, _ := newSession(t)

	_, err := s.Register(ctx, RegisterRequest{Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = s.Login(ctx, "ada@example.com", "wrong")
	require.Error(t, err)
	assert.EqualError(t, err, "Invalid credentials")
	assert.False(t, s.Store.IsAuthenticated())
}

func TestTransportAttachesBearer(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"message":"ok","data":{}}`))
	}))
	t.Cleanup(srv.Close)

	store := NewStore(NewMemoryStorage())
	require.NoError(t, store.SetAuth(context.Background(), "abc", model.PublicUser{ID: "u"}))

	g := NewGateway(srv.URL, time.Second, store, nil)
	_, err := g.Data(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", got)
}
