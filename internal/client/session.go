package client

import (
	"context"
	"log/slog"

	"github.com/templui/loginapi/internal/model"
)

// Session ties the gateway to the store: successful auth calls are
// recorded, and any denied call signs the user out.
type Session struct {
	Store   *Store
	Gateway *Gateway
}

func NewSession(cfg *Config, store *Store) *Session {
	s := &Session{Store: store}
	s.Gateway = NewGateway(cfg.APIURL, cfg.Timeout, store, s.denied)
	return s
}

func (s *Session) denied() {
	if err := s.Store.Logout(context.Background()); err != nil {
		slog.Error("failed to clear session after denied request", "error", err)
	}
	s.Store.Navigate(ViewLogin)
}

func (s *Session) Login(ctx context.Context, email, password string) (*model.PublicUser, error) {
	res, err := s.Gateway.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.signIn(ctx, res)
}

func (s *Session) Register(ctx context.Context, req RegisterRequest) (*model.PublicUser, error) {
	res, err := s.Gateway.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.signIn(ctx, res)
}

func (s *Session) signIn(ctx context.Context, res *AuthResponse) (*model.PublicUser, error) {
	if err := s.Store.SetAuth(ctx, res.Token, res.User); err != nil {
		return nil, err
	}
	s.Store.Navigate(ViewDashboard)
	return &res.User, nil
}

func (s *Session) Logout(ctx context.Context) error {
	if err := s.Store.Logout(ctx); err != nil {
		return err
	}
	s.Store.Navigate(ViewLogin)
	return nil
}
