package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/templui/loginapi/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint hit.
const uniqueViolation = "23505"

const userColumns = `id, email, password, name, bio, skills, profile_image_url, created_at`

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	ByID(ctx context.Context, id string) (*model.User, error)
	ByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateProfile(ctx context.Context, id string, update model.ProfileUpdate) (*model.User, error)
	Search(ctx context.Context, filter model.SearchFilter, query string, limit int) ([]model.User, error)
	Ping(ctx context.Context) error
}

type userRepository struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewUserRepository bounds every call, connection wait included, by timeout.
// A zero timeout leaves the caller's context untouched.
func NewUserRepository(db *sqlx.DB, timeout time.Duration) UserRepository {
	return &userRepository{db: db, timeout: timeout}
}

func (r *userRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `INSERT INTO users (id, email, password, name, bio, skills, profile_image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := r.db.QueryRowxContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Bio, user.Skills, user.ProfileImageURL,
	).Scan(&user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (r *userRepository) ByID(ctx context.Context, id string) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *userRepository) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg any) (*model.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	user := &model.User{}
	err := r.db.GetContext(ctx, user, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// UpdateProfile writes only the present fields. A present field with a nil
// Value becomes NULL.
func (r *userRepository) UpdateProfile(ctx context.Context, id string, update model.ProfileUpdate) (*model.User, error) {
	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Name.Present {
		add("name", update.Name.Value)
	}
	if update.Bio.Present {
		add("bio", update.Bio.Value)
	}
	if update.Skills.Present {
		var skills pq.StringArray
		if update.Skills.Value != nil && len(*update.Skills.Value) > 0 {
			skills = pq.StringArray(*update.Skills.Value)
		}
		add("skills", skills)
	}
	if update.ProfileImageURL.Present {
		add("profile_image_url", update.ProfileImageURL.Value)
	}

	if len(sets) == 0 {
		return r.ByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), userColumns)

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	user := &model.User{}
	err := r.db.GetContext(ctx, user, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

var searchConditions = map[model.SearchFilter]string{
	model.SearchByName:   `name ILIKE $1`,
	model.SearchByEmail:  `email ILIKE $1`,
	model.SearchByID:     `id::text ILIKE $1`,
	model.SearchBySkills: `EXISTS (SELECT 1 FROM unnest(skills) AS skill WHERE skill ILIKE $1)`,
}

// Search is a case-insensitive substring match on one column. The query is
// matched literally; LIKE wildcards in it are escaped.
func (r *userRepository) Search(ctx context.Context, filter model.SearchFilter, query string, limit int) ([]model.User, error) {
	cond, ok := searchConditions[filter]
	if !ok {
		return nil, fmt.Errorf("unknown search filter %q", filter)
	}
	if limit <= 0 || limit > model.SearchLimit {
		limit = model.SearchLimit
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	stmt := `SELECT ` + userColumns + ` FROM users WHERE ` + cond + ` LIMIT $2`
	users := []model.User{}
	err := r.db.SelectContext(ctx, &users, stmt, "%"+EscapeLike(query)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return users, nil
}

func (r *userRepository) Ping(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.PingContext(ctx)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike makes s match literally inside a LIKE pattern.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return false
}
