package httpapi

import (
	"bytes"
	"net/http"

	"jobfinder-engine/internal/results"
)

type ResultsHandler struct {
	Board *results.Board
}

func (h ResultsHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Board.View())
}

func (h ResultsHandler) Panel(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := results.RenderPanel(&buf, h.Board.View()); err != nil {
		writeErr(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

type openReq struct {
	Generation uint64 `json:"generation"`
	Index      int    `json:"index"`
}

// Open opens the link of a drawn row in the default browser.
func (h ResultsHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req openReq
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid JSON: "+err.Error())
		return
	}
	row, err := h.Board.Open(req.Generation, req.Index)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, row)
}
