package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/templui/loginapi/internal/model"
)

const (
	tokenKey = "token"
	userKey  = "user"
)

type View string

const (
	ViewLogin     View = "login"
	ViewRegister  View = "register"
	ViewDashboard View = "dashboard"
	ViewBrowse    View = "browse"
)

// Snapshot is a copy of the store's state at one point in time.
type Snapshot struct {
	User          *model.PublicUser
	Token         string
	Loading       bool
	View          View
	Authenticated bool
}

type observer struct {
	id int
	fn func(Snapshot)
}

// Store holds the signed-in user and token. Auth writes go to storage
// first and reach memory only when storage accepted them.
type Store struct {
	storage Storage

	mu        sync.Mutex
	user      *model.PublicUser
	token     *string
	loading   bool
	view      View
	observers []observer
	nextID    int
}

func NewStore(storage Storage) *Store {
	return &Store{storage: storage, loading: true, view: ViewLogin}
}

// Init restores the previous session. A stored user that does not parse,
// or a token without a user (or the reverse), clears both keys.
func (s *Store) Init(ctx context.Context) error {
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		s.notify()
	}()

	token, hasToken, err := s.storage.Get(ctx, tokenKey)
	if err != nil {
		return fmt.Errorf("failed to read stored token: %w", err)
	}
	rawUser, hasUser, err := s.storage.Get(ctx, userKey)
	if err != nil {
		return fmt.Errorf("failed to read stored user: %w", err)
	}

	if !hasToken && !hasUser {
		return nil
	}

	var user model.PublicUser
	if hasToken && hasUser && token != "" {
		if err := json.Unmarshal([]byte(rawUser), &user); err == nil && user.ID != "" {
			s.mu.Lock()
			s.user = &user
			s.token = &token
			s.view = ViewDashboard
			s.mu.Unlock()
			return nil
		}
	}

	slog.Warn("discarding unusable stored session")
	if err := s.storage.Delete(ctx, tokenKey, userKey); err != nil {
		return fmt.Errorf("failed to clear stored session: %w", err)
	}
	return nil
}

// SetAuth records a successful login or registration.
func (s *Store) SetAuth(ctx context.Context, token string, user model.PublicUser) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := s.storage.Set(ctx, map[string]string{tokenKey: token, userKey: string(raw)}); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	s.mu.Lock()
	s.user = &user
	s.token = &token
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *Store) Logout(ctx context.Context) error {
	if err := s.storage.Delete(ctx, tokenKey, userKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	s.mu.Lock()
	s.user = nil
	s.token = nil
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *Store) Navigate(v View) {
	s.mu.Lock()
	s.view = v
	s.mu.Unlock()
	s.notify()
}

// Token returns the current token, or "" when signed out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == nil {
		return ""
	}
	return *s.token
}

func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && s.token != nil
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Loading:       s.loading,
		View:          s.view,
		Authenticated: s.user != nil && s.token != nil,
	}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	if s.token != nil {
		snap.Token = *s.token
	}
	return snap
}

// Subscribe registers fn to run after every change. The returned func
// removes it.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.observers = append(s.observers, observer{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) notify() {
	s.mu.Lock()
	snap := s.snapshotLocked()
	fns := make([]func(Snapshot), len(s.observers))
	for i, o := range s.observers {
		fns[i] = o.fn
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
