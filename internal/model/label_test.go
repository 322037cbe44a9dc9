package model

import (
	"encoding/json"
	"testing"
)

func TestLabelUnmarshal(t *testing.T) {
	t.Run("bare string", func(t *testing.T) {
		var l Label
		if err := json.Unmarshal([]byte(`"urgente"`), &l); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if l.Name != "urgente" || l.ID != "" {
			t.Errorf("label = %+v", l)
		}
	})

	t.Run("decorated object", func(t *testing.T) {
		var l Label
		if err := json.Unmarshal([]byte(`{"id":"l1","nombre":"urgente","color":"#FF6B6B"}`), &l); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if l.ID != "l1" || l.Name != "urgente" || l.Color != "#FF6B6B" {
			t.Errorf("label = %+v", l)
		}
	})

	t.Run("alternate name key", func(t *testing.T) {
		var l Label
		if err := json.Unmarshal([]byte(`{"name":"backend"}`), &l); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if l.Name != "backend" {
			t.Errorf("Name = %q", l.Name)
		}
	})

	t.Run("mixed list", func(t *testing.T) {
		var labels []Label
		payload := `["urgente", {"nombre":"backend"}]`
		if err := json.Unmarshal([]byte(payload), &labels); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if len(labels) != 2 || labels[0].Name != "urgente" || labels[1].Name != "backend" {
			t.Errorf("labels = %+v", labels)
		}
	})
}

func TestNormalizeLabel(t *testing.T) {
	if got := NormalizeLabel("  Urgente "); got != "urgente" {
		t.Errorf("NormalizeLabel = %q", got)
	}
}
