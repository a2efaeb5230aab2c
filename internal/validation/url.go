package validation

import (
	"errors"
	"net/url"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

const MaxProfileImageURLLength = 500

var profileImageURLPattern = regexp.MustCompile(`(?i)^(https?://)?([\da-z.-]+)\.([a-z.]{2,6})([/\w .-]*)*/?$`)

var errInvalidURL = errors.New("Invalid URL format")

// ValidateProfileImageURL checks URL shape only; reachability and content
// type are never checked. An empty value is valid and means "no image".
func ValidateProfileImageURL(raw string) error {
	return validation.Validate(raw,
		validation.RuneLength(0, MaxProfileImageURLLength).Error("URL must be less than 500 characters"),
		validation.By(parsesAsURL),
		validation.Match(profileImageURLPattern).Error(errInvalidURL.Error()),
	)
}

func parsesAsURL(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if !strings.HasPrefix(strings.ToLower(s), "http") {
		s = "http://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return errInvalidURL
	}
	return nil
}
