package model

import (
	"time"

	"github.com/lib/pq"
)

type User struct {
	ID              string         `db:"id"`
	Email           string         `db:"email"`
	PasswordHash    string         `db:"password"`
	Name            *string        `db:"name"`
	Bio             *string        `db:"bio"`
	Skills          pq.StringArray `db:"skills"`
	ProfileImageURL *string        `db:"profile_image_url"`
	CreatedAt       time.Time      `db:"created_at"`
}

// PublicUser is the client-facing view of a user. It never carries the hash.
type PublicUser struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Name            *string   `json:"name"`
	Bio             *string   `json:"bio"`
	Skills          []string  `json:"skills"`
	ProfileImageURL *string   `json:"profile_image_url"`
	CreatedAt       time.Time `json:"created_at"`
}

func (u *User) Public() PublicUser {
	var skills []string
	if len(u.Skills) > 0 {
		skills = append([]string(nil), u.Skills...)
	}
	return PublicUser{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		Bio:             u.Bio,
		Skills:          skills,
		ProfileImageURL: u.ProfileImageURL,
		CreatedAt:       u.CreatedAt,
	}
}

// PublicUsers converts a result set, always returning a non-nil slice.
func PublicUsers(users []User) []PublicUser {
	out := make([]PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return out
}

// Identity is the verified caller carried in a request context.
type Identity struct {
	UserID string
	Email  string
}
