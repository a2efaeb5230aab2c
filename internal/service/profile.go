package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/templui/loginapi/internal/apperr"
	"github.com/templui/loginapi/internal/model"
	"github.com/templui/loginapi/internal/repository"
	"github.com/templui/loginapi/internal/validation"
)

var (
	ErrUserNotFound     = apperr.New(apperr.CodeNotFound, "User not found")
	ErrNoFieldsToUpdate = apperr.New(apperr.CodeNoOp, "No fields to update")
)

// ProfilePatch is the raw update payload. A field that was not sent has
// Present == false; null and "" both clear.
type ProfilePatch struct {
	Name            model.Optional[string]
	Bio             model.Optional[string]
	Skills          model.Optional[json.RawMessage]
	ProfileImageURL model.Optional[string]
}

// SearchResult is a page of public profiles.
type SearchResult struct {
	Users []model.PublicUser
	Count int
}

type ProfileService struct {
	userRepository repository.UserRepository
}

func NewProfileService(userRepository repository.UserRepository) *ProfileService {
	return &ProfileService{userRepository: userRepository}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		return nil, mapUserErr(err)
	}
	return user, nil
}

func (s *ProfileService) Update(ctx context.Context, userID string, patch ProfilePatch) (*model.User, error) {
	update, err := normalizePatch(patch)
	if err != nil {
		return nil, err
	}
	if update.Empty() {
		return nil, ErrNoFieldsToUpdate
	}

	user, err := s.userRepository.UpdateProfile(ctx, userID, update)
	if err != nil {
		return nil, mapUserErr(err)
	}
	return user, nil
}

func (s *ProfileService) Search(ctx context.Context, filter, query string) (*SearchResult, error) {
	f, q, err := validation.ValidateSearch(filter, query)
	if err != nil {
		return nil, invalid(err)
	}

	users, err := s.userRepository.Search(ctx, f, q, model.SearchLimit)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	public := model.PublicUsers(users)
	return &SearchResult{Users: public, Count: len(public)}, nil
}

// normalizePatch validates a patch and turns every "clear" spelling (null,
// empty string, empty skills) into a present field with a nil value.
func normalizePatch(p ProfilePatch) (model.ProfileUpdate, error) {
	var u model.ProfileUpdate

	if p.Name.Present {
		name, err := normalizeName(p.Name.Value)
		if err != nil {
			return u, err
		}
		u.Name = model.Optional[string]{Present: true, Value: name}
	}

	if p.Bio.Present {
		u.Bio = model.Optional[string]{Present: true, Value: emptyToNil(p.Bio.Value)}
	}

	if p.Skills.Present {
		var raw json.RawMessage
		if p.Skills.Value != nil {
			raw = *p.Skills.Value
		}
		skills, err := validation.ParseSkills(raw)
		if err != nil {
			return u, invalid(err)
		}
		u.Skills = model.Clear[[]string]()
		if len(skills) > 0 {
			u.Skills = model.Set(skills)
		}
	}

	if p.ProfileImageURL.Present {
		imageURL, err := normalizeImageURL(p.ProfileImageURL.Value)
		if err != nil {
			return u, err
		}
		u.ProfileImageURL = model.Optional[string]{Present: true, Value: imageURL}
	}

	return u, nil
}

func mapUserErr(err error) error {
	if errors.Is(err, repository.ErrUserNotFound) {
		return ErrUserNotFound
	}
	return apperr.Internal(err)
}
