// Package memrepo is an in-memory UserRepository with the same observable
// behavior as the PostgreSQL one. Services and handlers are tested on it.
package memrepo

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/templui/loginapi/internal/model"
	"github.com/templui/loginapi/internal/repository"
)

type UserRepository struct {
	mu    sync.RWMutex
	users []*model.User // insertion order stands in for store-default order
	now   func() time.Time
	err   error
}

var _ repository.UserRepository = (*UserRepository)(nil)

func New() *UserRepository {
	return &UserRepository{now: time.Now}
}

// FailWith makes every subsequent call return err. Pass nil to recover.
func (r *UserRepository) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *UserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}

	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.CreatedAt = r.now().UTC()
	r.users = append(r.users, clone(user))
	return nil
}

func (r *UserRepository) ByID(_ context.Context, id string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.ID == id })
}

func (r *UserRepository) ByEmail(_ context.Context, email string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.Email == email })
}

func (r *UserRepository) find(match func(*model.User) bool) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return nil, r.err
	}

	for _, u := range r.users {
		if match(u) {
			return clone(u), nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *UserRepository) UpdateProfile(_ context.Context, id string, update model.ProfileUpdate) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}

	for _, u := range r.users {
		if u.ID != id {
			continue
		}
		if update.Name.Present {
			u.Name = copyString(update.Name.Value)
		}
		if update.Bio.Present {
			u.Bio = copyString(update.Bio.Value)
		}
		if update.Skills.Present {
			u.Skills = nil
			if update.Skills.Value != nil && len(*update.Skills.Value) > 0 {
				u.Skills = append(pq.StringArray(nil), *update.Skills.Value...)
			}
		}
		if update.ProfileImageURL.Present {
			u.ProfileImageURL = copyString(update.ProfileImageURL.Value)
		}
		return clone(u), nil
	}
	return nil, repository.ErrUserNotFound
}

func (r *UserRepository) Search(_ context.Context, filter model.SearchFilter, query string, limit int) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return nil, r.err
	}
	if limit <= 0 || limit > model.SearchLimit {
		limit = model.SearchLimit
	}

	q := strings.ToLower(query)
	contains := func(s *string) bool {
		return s != nil && strings.Contains(strings.ToLower(*s), q)
	}

	out := []model.User{}
	for _, u := range r.users {
		var hit bool
		switch filter {
		case model.SearchByName:
			hit = contains(u.Name)
		case model.SearchByEmail:
			hit = contains(&u.Email)
		case model.SearchByID:
			hit = contains(&u.ID)
		case model.SearchBySkills:
			for i := range u.Skills {
				if contains(&u.Skills[i]) {
					hit = true
					break
				}
			}
		}
		if hit {
			out = append(out, *clone(u))
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *UserRepository) Ping(context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}

func clone(u *model.User) *model.User {
	cp := *u
	cp.Name = copyString(u.Name)
	cp.Bio = copyString(u.Bio)
	cp.ProfileImageURL = copyString(u.ProfileImageURL)
	if u.Skills != nil {
		cp.Skills = append(pq.StringArray(nil), u.Skills...)
	}
	return &cp
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
