package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/loginapi/internal/model"
)

var userRowColumns = []string{"id", "email", "password", "name", "bio", "skills", "profile_image_url", "created_at"}

func newMock(t *testing.T) (*userRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewUserRepository(sqlx.NewDb(db, "pgx"), time.Second).(*userRepository)
	return repo, mock
}

func TestCreate(t *testing.T) {
	repo, mock := newMock(t)
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO users \(id, email, password, name, bio, skills, profile_image_url\)`).
		WithArgs("u-1", "ada@example.com", "hash", "Ada", nil, sqlmock.AnyArg(), nil).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	name := "Ada"
	user := &model.User{ID: "u-1", Email: "ada@example.com", PasswordHash: "hash", Name: &name, Skills: []string{"go"}}
	require.NoError(t, repo.Create(context.Background(), user))

	assert.Equal(t, created, user.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDuplicateEmail(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err := repo.Create(context.Background(), &model.User{ID: "u-2", Email: "ada@example.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOtherErrorIsWrapped(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO users`).WillReturnError(sql.ErrConnDone)

	err := repo.Create(context.Background(), &model.User{ID: "u-3", Email: "x@example.com"})
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NotErrorIs(t, err, ErrDuplicateEmail)
}

func TestByEmail(t *testing.T) {
	repo, mock := newMock(t)
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1`).
		WithArgs("ada@example.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow("u-1", "ada@example.com", "hash", "Ada", nil, []byte(`{go,"distributed systems"}`), nil, created))

	user, err := repo.ByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)

	assert.Equal(t, "u-1", user.ID)
	require.NotNil(t, user.Name)
	assert.Equal(t, "Ada", *user.Name)
	assert.Nil(t, user.Bio)
	assert.Equal(t, []string{"go", "distributed systems"}, []string(user.Skills))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestByIDNotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	_, err := repo.ByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfileOnlyTouchesPresentFields(t *testing.T) {
	repo, mock := newMock(t)
	created := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users SET bio = $1 WHERE id = $2 RETURNING id,`)).
		WithArgs(nil, "u-1").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow("u-1", "ada@example.com", "hash", "Ada", nil, nil, nil, created))

	user, err := repo.UpdateProfile(context.Background(), "u-1", model.ProfileUpdate{Bio: model.Clear[string]()})
	require.NoError(t, err)
	assert.Nil(t, user.Bio)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfileSeveralFields(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users SET name = $1, skills = $2, profile_image_url = $3 WHERE id = $4`)).
		WithArgs("Grace", sqlmock.AnyArg(), "https://example.com/g.png", "u-1").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow("u-1", "g@example.com", "hash", "Grace", nil, []byte(`{cobol}`), "https://example.com/g.png", time.Now()))

	user, err := repo.UpdateProfile(context.Background(), "u-1", model.ProfileUpdate{
		Name:            model.Set("Grace"),
		Skills:          model.Set([]string{"cobol"}),
		ProfileImageURL: model.Set("https://example.com/g.png"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"cobol"}, []string(user.Skills))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfileMissingRow(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`UPDATE users SET name = \$1 WHERE id = \$2`).
		WithArgs("X", "gone").
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	_, err := repo.UpdateProfile(context.Background(), "gone", model.ProfileUpdate{Name: model.Set("X")})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSearchBySkills(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE EXISTS (SELECT 1 FROM unnest(skills) AS skill WHERE skill ILIKE $1) LIMIT $2`)).
		WithArgs("%java%", 50).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow("u-1", "ada@example.com", "hash", nil, nil, []byte(`{JavaScript}`), nil, time.Now()))

	users, err := repo.Search(context.Background(), model.SearchBySkills, "java", 0)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "u-1", users[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchEscapesWildcards(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE id::text ILIKE $1 LIMIT $2`)).
		WithArgs(`%50\%\_off%`, 10).
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	users, err := repo.Search(context.Background(), model.SearchByID, "50%_off", 10)
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchUnknownFilter(t *testing.T) {
	repo, _ := newMock(t)

	_, err := repo.Search(context.Background(), model.SearchFilter("password"), "abc", 10)
	assert.Error(t, err)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\\b`, EscapeLike(`a\b`))
	assert.Equal(t, `100\%`, EscapeLike(`100%`))
	assert.Equal(t, `snake\_case`, EscapeLike(`snake_case`))
	assert.Equal(t, `plain`, EscapeLike(`plain`))
}
