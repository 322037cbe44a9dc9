package model

import "testing"

func TestStatusFromLabel(t *testing.T) {
	cases := []struct {
		in   string
		want Status
		ok   bool
	}{
		{"Pendiente", StatusPending, true},
		{"En progreso", StatusInProgress, true},
		{"En_progreso", StatusInProgress, true},
		{"En revision", StatusInReview, true},
		{"Terminada", StatusDone, true},
		{"Archivada", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := StatusFromLabel(tc.in)
			if ok != tc.ok || got != tc.want {
				t.Errorf("StatusFromLabel(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestStatusLabel(t *testing.T) {
	if got := StatusInProgress.Label(); got != "En progreso" {
		t.Errorf("Label = %q", got)
	}
	if got := StatusPending.Label(); got != "Pendiente" {
		t.Errorf("Label = %q", got)
	}
}

func TestIDForms(t *testing.T) {
	t.Run("canonical strips prefix", func(t *testing.T) {
		if got := CanonicalID("TAB-abc"); got != "abc" {
			t.Errorf("CanonicalID = %q", got)
		}
		if got := CanonicalID("abc"); got != "abc" {
			t.Errorf("CanonicalID = %q", got)
		}
	})

	t.Run("display is idempotent", func(t *testing.T) {
		if got := DisplayID(DisplayID("abc")); got != "TAB-abc" {
			t.Errorf("DisplayID = %q", got)
		}
	})

	t.Run("short never panics", func(t *testing.T) {
		if got := ShortID("a"); got != "TAB-a" {
			t.Errorf("ShortID = %q", got)
		}
		long := ShortID("0123456789abcdef")
		if len(long) != 12 {
			t.Errorf("ShortID length = %d, want 12", len(long))
		}
	})
}

func TestDateOnly(t *testing.T) {
	if got := DateOnly("2025-03-01T12:00:00Z"); got != "2025-03-01" {
		t.Errorf("DateOnly = %q", got)
	}
	if got := DateOnly(""); got != "" {
		t.Errorf("DateOnly = %q", got)
	}
}

func TestNewTaskDefaults(t *testing.T) {
	task := NewTask("t1", "p1", "Nueva")
	if task.Status != StatusPending {
		t.Errorf("Status = %q", task.Status)
	}
	if task.Priority != PriorityLow {
		t.Errorf("Priority = %q", task.Priority)
	}
	if task.OwnerName != "" || task.OwnerID != nil {
		t.Error("new task should be unassigned")
	}
}
