package validation

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/templui/loginapi/internal/model"
)

const MinSearchQueryLength = 2

var (
	ErrSearchParamsRequired = errors.New("Search filter and query are required")
	ErrSearchQueryTooShort  = errors.New("Search query must be at least 2 characters")
	ErrSearchFilterInvalid  = errors.New("Invalid search filter. Must be one of: name, email, id, skills")
)

// ValidateSearch checks the filter and returns the trimmed query.
func ValidateSearch(filter, query string) (model.SearchFilter, string, error) {
	query = strings.TrimSpace(query)
	if filter == "" || query == "" {
		return "", "", ErrSearchParamsRequired
	}

	f := model.SearchFilter(filter)
	allowed := make([]interface{}, 0, len(model.SearchFilters))
	for _, sf := range model.SearchFilters {
		allowed = append(allowed, sf)
	}
	err := validation.Validate(f, validation.In(allowed...).Error(ErrSearchFilterInvalid.Error()))
	if err != nil {
		return "", "", ErrSearchFilterInvalid
	}

	if len([]rune(query)) < MinSearchQueryLength {
		return "", "", ErrSearchQueryTooShort
	}
	return f, query, nil
}
