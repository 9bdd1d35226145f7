package httpapi

import (
	"context"
	"net/http"
	"sync/atomic"

	"jobfinder-engine/internal/action"
	"jobfinder-engine/internal/config"
	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/events"
	"jobfinder-engine/internal/results"
	"jobfinder-engine/internal/scrape"
	"jobfinder-engine/internal/session"
)

type SearchHandler struct {
	BaseCtx   context.Context
	CfgVal    *atomic.Value // config.Config
	Runner    *action.Runner
	Board     *results.Board
	Session   *session.Session
	Hub       *events.Hub
	NewSource func(cfg config.Config) scrape.ListingSource
	NewLedger func(cfg config.Config) scrape.Ledger
}

type searchReq struct {
	Role          string `json:"role"`
	Country       string `json:"country"`
	EasyApplyOnly bool   `json:"easyApplyOnly"`
	WorkType      string `json:"workType"`
}

func (h SearchHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Runner.Status())
}

// Run validates the form and starts the search in the background. The
// outcome arrives through /search/status and the events stream.
func (h SearchHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req searchReq
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid JSON: "+err.Error())
		return
	}
	f, err := domain.NewSearchFilter(req.Role, req.Country, req.EasyApplyOnly, req.WorkType)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	h.Session.SetFilter(f)

	cfg := h.CfgVal.Load().(config.Config)
	src, ledger := h.NewSource(cfg), h.NewLedger(cfg)
	reqID := RequestIDFrom(r.Context())

	err = h.Runner.Start(h.BaseCtx, scrape.MsgSearching, func(ctx context.Context) (action.Result, error) {
		out, err := scrape.RunSearch(ctx, src, ledger, f)
		if err != nil {
			return action.Result{}, err
		}
		v := h.Board.Replace(out.Listings, out.Banner)
		h.Hub.Emit(reqID, events.TypeResultsReplaced, map[string]any{
			"generation": v.Generation,
			"rows":       len(v.Rows),
			"outcome":    out.Kind,
		})
		return action.Done(out.Status), nil
	})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	h.Hub.Emit(reqID, events.TypeSearchStarted, f)
	WriteJSON(w, http.StatusAccepted, h.Runner.Status())
}
