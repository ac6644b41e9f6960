package templates

import (
	"encoding/json"
	"errors"
)

var ErrBadStructure = errors.New("invalid template structure")

// TaskBlueprint is one entry in a template's task list. Title and
// description are copied verbatim into the task seeded from it.
type TaskBlueprint struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Priority    string  `json:"priority"`
}

// Structure is the typed form of a template's stored structure document.
// A missing or empty task list is valid.
type Structure struct {
	Tasks []TaskBlueprint `json:"tasks"`
}

// ParseStructure decodes a stored structure blob once, at the boundary.
// Untyped JSON never crosses into the expansion logic.
func ParseStructure(raw []byte) (*Structure, error) {
	if len(raw) == 0 {
		return &Structure{}, nil
	}

	var s Structure
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, ErrBadStructure
	}
	return &s, nil
}
