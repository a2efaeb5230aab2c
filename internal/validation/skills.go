package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

var ErrSkillsFormat = errors.New("Skills must be an array or a comma-separated string")

// ParseSkills accepts a JSON list of strings or a comma-separated string.
// Lists pass through unchanged; strings are split, trimmed and stripped of
// empty segments. An empty result, or JSON null, yields nil.
func ParseSkills(raw json.RawMessage) ([]string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		var list []string
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, ErrSkillsFormat
		}
		if len(list) == 0 {
			return nil, nil
		}
		return list, nil
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, ErrSkillsFormat
		}
		return SplitSkills(s), nil
	default:
		return nil, ErrSkillsFormat
	}
}

// SplitSkills turns "a, b , c" into [a b c].
func SplitSkills(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
