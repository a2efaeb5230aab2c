package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/templui/loginapi/internal/model"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status))
	}
	return e.Message
}

// IsDenied reports whether err is a 401 or 403 from the API.
func IsDenied(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
}

// TokenSource supplies the bearer token for outbound calls.
type TokenSource interface {
	Token() string
}

// authTransport attaches the bearer token to every request and reports
// every 401/403 to onDenied.
type authTransport struct {
	base     http.RoundTripper
	tokens   TokenSource
	onDenied func()
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if token := t.tokens.Token(); token != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if t.onDenied != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
		t.onDenied()
	}
	return resp, nil
}

type Gateway struct {
	baseURL string
	http    *http.Client
}

func NewGateway(baseURL string, timeout time.Duration, tokens TokenSource, onDenied func()) *Gateway {
	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
			Transport: &authTransport{
				base:     http.DefaultTransport,
				tokens:   tokens,
				onDenied: onDenied,
			},
		},
	}
}

type RegisterRequest struct {
	Email           string   `json:"email"`
	Password        string   `json:"password"`
	Name            *string  `json:"name,omitempty"`
	Bio             *string  `json:"bio,omitempty"`
	Skills          []string `json:"skills,omitempty"`
	ProfileImageURL *string  `json:"profile_image_url,omitempty"`
}

type AuthResponse struct {
	Message string           `json:"message"`
	Token   string           `json:"token"`
	User    model.PublicUser `json:"user"`
}

// ProfilePatch sends only the fields that are present. A present field
// with a nil Value clears it.
type ProfilePatch struct {
	Name            model.Optional[string]   `json:"name,omitzero"`
	Bio             model.Optional[string]   `json:"bio,omitzero"`
	Skills          model.Optional[[]string] `json:"skills,omitzero"`
	ProfileImageURL model.Optional[string]   `json:"profile_image_url,omitzero"`
}

type profileResponse struct {
	Message string           `json:"message"`
	User    model.PublicUser `json:"user"`
}

type SearchResponse struct {
	Message string             `json:"message"`
	Users   []model.PublicUser `json:"users"`
	Count   int                `json:"count"`
}

type DataResponse struct {
	Message string `json:"message"`
	Data    struct {
		UserID    string `json:"userId"`
		Email     string `json:"email"`
		Timestamp string `json:"timestamp"`
	} `json:"data"`
}

func (g *Gateway) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var res AuthResponse
	if err := g.do(ctx, http.MethodPost, "/auth/register", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (g *Gateway) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var res AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := g.do(ctx, http.MethodPost, "/auth/login", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (g *Gateway) Profile(ctx context.Context) (*model.PublicUser, error) {
	var res profileResponse
	if err := g.do(ctx, http.MethodGet, "/protected/profile", nil, &res); err != nil {
		return nil, err
	}
	return &res.User, nil
}

func (g *Gateway) UpdateProfile(ctx context.Context, patch ProfilePatch) (*model.PublicUser, error) {
	var res profileResponse
	if err := g.do(ctx, http.MethodPut, "/protected/profile", patch, &res); err != nil {
		return nil, err
	}
	return &res.User, nil
}

func (g *Gateway) Search(ctx context.Context, filter model.SearchFilter, query string) (*SearchResponse, error) {
	q := url.Values{"filter": {string(filter)}, "query": {query}}
	var res SearchResponse
	if err := g.do(ctx, http.MethodGet, "/protected/search?"+q.Encode(), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (g *Gateway) Data(ctx context.Context) (*DataResponse, error) {
	var res DataResponse
	if err := g.do(ctx, http.MethodGet, "/protected/data", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (g *Gateway) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&e)
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}
