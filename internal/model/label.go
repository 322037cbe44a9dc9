package model

import (
	"encoding/json"
	"strings"
)

// Label is a global tag attachable to tasks. On the wire a label
// appears either as a bare string or as a decorated object, depending
// on which subsystem produced it; UnmarshalJSON accepts both so the
// rest of the code never type-sniffs.
type Label struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"nombre"`
	Color string `json:"color,omitempty"`
}

func (l *Label) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*l = Label{Name: name}
		return nil
	}

	var decorated struct {
		ID    string `json:"id"`
		Name  string `json:"nombre"`
		Alt   string `json:"name"`
		Color string `json:"color"`
	}
	if err := json.Unmarshal(data, &decorated); err != nil {
		return err
	}
	name := decorated.Name
	if name == "" {
		name = decorated.Alt
	}
	*l = Label{ID: decorated.ID, Name: name, Color: decorated.Color}
	return nil
}

// NormalizeLabel reduces a label name to its comparison form. Display
// casing is preserved everywhere else; only comparisons use this.
func NormalizeLabel(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
