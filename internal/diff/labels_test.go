package diff

import (
	"reflect"
	"testing"

	"github.com/existflow/tablero/internal/model"
)

func TestLabelsChanged(t *testing.T) {
	cases := []struct {
		name string
		prev []model.Label
		next []model.Label
		want bool
	}{
		{
			name: "identical",
			prev: []model.Label{{Name: "urgente"}, {Name: "backend"}},
			next: []model.Label{{Name: "urgente"}, {Name: "backend"}},
			want: false,
		},
		{
			name: "reordered",
			prev: []model.Label{{Name: "urgente"}, {Name: "backend"}},
			next: []model.Label{{Name: "backend"}, {Name: "urgente"}},
			want: false,
		},
		{
			name: "case and whitespace",
			prev: []model.Label{{Name: "Urgente"}},
			next: []model.Label{{Name: "  urgente "}},
			want: false,
		},
		{
			name: "added",
			prev: []model.Label{{Name: "urgente"}},
			next: []model.Label{{Name: "urgente"}, {Name: "qa"}},
			want: true,
		},
		{
			name: "removed",
			prev: []model.Label{{Name: "urgente"}, {Name: "qa"}},
			next: []model.Label{{Name: "qa"}},
			want: true,
		},
		{
			name: "renamed",
			prev: []model.Label{{Name: "urgente"}},
			next: []model.Label{{Name: "urgentísimo"}},
			want: true,
		},
		{
			name: "both empty",
			prev: nil,
			next: []model.Label{},
			want: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := LabelsChanged(tc.prev, tc.next); got != tc.want {
				t.Errorf("LabelsChanged = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLabelsChangedRepresentation(t *testing.T) {
	// Some payloads decorate labels with ids and colors; the same name
	// in both shapes is still the same label.
	prev := []model.Label{{ID: "l1", Name: "urgente", Color: "#FF6B6B"}}
	next := []model.Label{{Name: "urgente"}}
	if LabelsChanged(prev, next) {
		t.Error("decoration alone should not count as a change")
	}
}

func TestNames(t *testing.T) {
	labels := []model.Label{{Name: "Urgente"}, {Name: "Backend"}}
	got := Names(labels)
	want := []string{"Urgente", "Backend"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Names = %v, want %v (display casing preserved)", got, want)
	}
}

func TestNormalizedNames(t *testing.T) {
	labels := []model.Label{{Name: "Zeta "}, {Name: "alfa"}}
	got := NormalizedNames(labels)
	want := []string{"alfa", "zeta"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizedNames = %v, want %v", got, want)
	}
}
