package httpapi

import (
	"context"
	"net/http"
	"sync/atomic"

	"jobfinder-engine/internal/action"
	"jobfinder-engine/internal/config"
	"jobfinder-engine/internal/cvopt"
	"jobfinder-engine/internal/events"
	"jobfinder-engine/internal/session"
)

type CVHandler struct {
	BaseCtx      context.Context
	CfgVal       *atomic.Value // config.Config
	Runner       *action.Runner
	Session      *session.Session
	Hub          *events.Hub
	NewOptimizer func(cfg config.Config) CVOptimizer
	Dialog       cvopt.Dialog
	// DialogGate holds one token; only one picker is open at a time.
	DialogGate chan struct{}
}

type selectReq struct {
	Path string `json:"path"`
}

type selectResp struct {
	Path  string `json:"path"`
	Label string `json:"label"`
}

// Select records the chosen CV file. An empty path clears the choice.
func (h CVHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req selectReq
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid JSON: "+err.Error())
		return
	}
	p, err := cvopt.ChooseFile(req.Path)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	h.Session.SetCVPath(p)

	resp := selectResp{Path: p, Label: cvopt.SelectedLabel(p)}
	h.Hub.Emit(RequestIDFrom(r.Context()), events.TypeCVSelected, resp)
	writeJSON(w, resp)
}

// Choose opens the file picker and records its answer. Cancelling clears
// the choice, as with an empty Select.
func (h CVHandler) Choose(w http.ResponseWriter, r *http.Request) {
	select {
	case h.DialogGate <- struct{}{}:
		defer func() { <-h.DialogGate }()
	default:
		WriteError(w, r, http.StatusConflict, "busy", "a file dialog is already open")
		return
	}

	p, err := cvopt.Pick(r.Context(), h.Dialog)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	h.Session.SetCVPath(p)

	resp := selectResp{Path: p, Label: cvopt.SelectedLabel(p)}
	h.Hub.Emit(RequestIDFrom(r.Context()), events.TypeCVSelected, resp)
	writeJSON(w, resp)
}

type optimizeReq struct {
	Name     string `json:"name"`
	Position string `json:"position"`
}

func (h CVHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req optimizeReq
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid JSON: "+err.Error())
		return
	}

	cvReq := h.Session.CVRequest(req.Name, req.Position)
	opt := h.NewOptimizer(h.CfgVal.Load().(config.Config))
	if err := opt.Validate(cvReq); err != nil {
		writeErr(w, r, err)
		return
	}

	err := h.Runner.Start(h.BaseCtx, cvopt.MsgOptimizing, func(ctx context.Context) (action.Result, error) {
		res, err := opt.Optimize(ctx, cvReq)
		if err != nil {
			return action.Result{}, err
		}
		return action.Result{Message: res.Status(), Notice: res.Message()}, nil
	})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	h.Hub.Emit(RequestIDFrom(r.Context()), events.TypeCVStarted, nil)
	WriteJSON(w, http.StatusAccepted, h.Runner.Status())
}

func (h CVHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Runner.Status())
}
