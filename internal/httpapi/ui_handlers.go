package httpapi

import (
	_ "embed"
	"net/http"

	"jobfinder-engine/internal/action"
	"jobfinder-engine/internal/cvopt"
	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/session"
)

//go:embed ui.html
var uiPage []byte

type UIHandler struct {
	Session      *session.Session
	SearchRunner *action.Runner
	CVRunner     *action.Runner
}

// Page serves the form. Only the exact root path is the page.
func (h UIHandler) Page(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		WriteError(w, r, http.StatusNotFound, "not_found", "not found")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(uiPage)
}

type sessionResp struct {
	session.Snapshot
	CVLabel   string            `json:"cv_label"`
	Countries []domain.Country  `json:"countries"`
	WorkTypes []domain.WorkType `json:"work_types"`
	Search    action.Status     `json:"search"`
	CV        action.Status     `json:"cv"`
}

// State is everything the page needs to redraw the form after a reload.
func (h UIHandler) State(w http.ResponseWriter, r *http.Request) {
	snap := h.Session.Snapshot()
	writeJSON(w, sessionResp{
		Snapshot:  snap,
		CVLabel:   cvopt.SelectedLabel(snap.CVPath),
		Countries: domain.Countries,
		WorkTypes: domain.WorkTypes,
		Search:    h.SearchRunner.Status(),
		CV:        h.CVRunner.Status(),
	})
}
