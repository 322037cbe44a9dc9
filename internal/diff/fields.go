// Package diff computes the sparse patches sent to the backend: only
// fields whose normalized value actually changed are written, so a
// save never overwrites concurrent edits to fields this editor never
// touched.
package diff

import "github.com/existflow/tablero/internal/model"

// Patch is a sparse task update keyed by backend field names. A nil
// value clears the field (JSON null).
type Patch map[string]interface{}

// Fields compares an edited draft against the last-known-persisted
// task and returns the minimal patch. Status values are compared after
// mapping UI labels to backend tokens, and the patch always carries
// the token. Due dates compare on their YYYY-MM-DD form with empty and
// unset equal. Owners compare by display name; the backend resolves
// identity from the name server-side.
func Fields(draft, original model.Task) Patch {
	patch := Patch{}

	if draft.Title != original.Title {
		patch["titulo"] = draft.Title
	}
	if draft.Description != original.Description {
		patch["descripcion"] = draft.Description
	}
	if draft.Priority != original.Priority {
		patch["prioridad"] = string(draft.Priority)
	}

	draftStatus := normalizeStatus(draft.Status)
	if draftStatus != normalizeStatus(original.Status) {
		patch["estado"] = string(draftStatus)
	}

	if model.DateOnly(draft.DueDate) != model.DateOnly(original.DueDate) {
		if d := model.DateOnly(draft.DueDate); d != "" {
			patch["fechaFin"] = d
		} else {
			patch["fechaFin"] = nil
		}
	}

	if draft.OwnerName != original.OwnerName {
		patch["asignadoA"] = draft.OwnerName
	}
	if draft.ProjectID != "" && draft.ProjectID != original.ProjectID {
		patch["proyecto"] = draft.ProjectID
	}

	return patch
}

// normalizeStatus maps a UI-facing status label to its backend token.
// Unrecognized values compare raw rather than being dropped.
func normalizeStatus(s model.Status) model.Status {
	if token, ok := model.StatusFromLabel(string(s)); ok {
		return token
	}
	return s
}
