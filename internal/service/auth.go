package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/templui/loginapi/internal/apperr"
	"github.com/templui/loginapi/internal/model"
	"github.com/templui/loginapi/internal/repository"
	"github.com/templui/loginapi/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrCredentialsRequired = apperr.New(apperr.CodeInvalid, validation.ErrCredentialsRequired.Error())
	ErrInvalidCredentials  = apperr.New(apperr.CodeUnauthorized, "Invalid credentials")
	ErrEmailAlreadyExists  = apperr.New(apperr.CodeConflict, "User already exists")
)

// RegisterInput is the raw registration payload. Skills stays raw JSON
// because it may arrive as a list or a comma-separated string.
type RegisterInput struct {
	Email           string
	Password        string
	Name            *string
	Bio             *string
	Skills          json.RawMessage
	ProfileImageURL *string
}

// AuthResult is what register and login hand back to the caller.
type AuthResult struct {
	Token string
	User  *model.User
}

type AuthService struct {
	userRepository repository.UserRepository
	tokens         *TokenService
	bcryptCost     int
	dummyHash      []byte
}

func NewAuthService(userRepository repository.UserRepository, tokens *TokenService, bcryptCost int) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	s := &AuthService{
		userRepository: userRepository,
		tokens:         tokens,
		bcryptCost:     bcryptCost,
	}
	// compared against on unknown emails so both login failures cost the same
	s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcryptCost)
	return s
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	err := validation.ValidateCredentials(in.Email, in.Password)
	if errors.Is(err, validation.ErrCredentialsRequired) {
		return nil, ErrCredentialsRequired
	}
	if err != nil {
		return nil, invalid(err)
	}

	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}
	imageURL, err := normalizeImageURL(in.ProfileImageURL)
	if err != nil {
		return nil, err
	}
	skills, err := validation.ParseSkills(in.Skills)
	if err != nil {
		return nil, invalid(err)
	}

	hash, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user := &model.User{
		ID:              uuid.NewString(),
		Email:           in.Email,
		PasswordHash:    hash,
		Name:            name,
		Bio:             emptyToNil(in.Bio),
		Skills:          skills,
		ProfileImageURL: imageURL,
	}

	err = s.userRepository.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, apperr.Internal(err)
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	slog.Info("user registered", "user_id", user.ID)
	return &AuthResult{Token: token, User: user}, nil
}

// Login never reveals whether the email exists: unknown email and wrong
// password both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	err := validation.ValidateCredentials(email, password)
	if errors.Is(err, validation.ErrCredentialsRequired) {
		return nil, ErrCredentialsRequired
	}
	if err != nil {
		// oversized input cannot match any stored hash
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepository.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, apperr.Internal(err)
	}

	err = s.ComparePassword(password, user.PasswordHash)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func invalid(err error) error {
	return apperr.Invalid(err.Error())
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

func normalizeName(name *string) (*string, error) {
	name = emptyToNil(name)
	if name == nil {
		return nil, nil
	}
	if err := validation.ValidateName(*name); err != nil {
		return nil, invalid(err)
	}
	return name, nil
}

func normalizeImageURL(raw *string) (*string, error) {
	raw = emptyToNil(raw)
	if raw == nil {
		return nil, nil
	}
	if err := validation.ValidateProfileImageURL(*raw); err != nil {
		return nil, invalid(err)
	}
	return raw, nil
}
