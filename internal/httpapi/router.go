package httpapi

import (
	"net/http"

	"jobfinder-engine/internal/cvopt"
)

// NewMux routes every engine endpoint except /shutdown, which main owns.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Page
	uh := UIHandler{Session: d.Session, SearchRunner: d.SearchRunner, CVRunner: d.CVRunner}
	mux.HandleFunc("/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: uh.Page,
	}))
	mux.HandleFunc("/session", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: uh.State,
	}))
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: HealthHandler{Search: d.SearchRunner, CV: d.CVRunner}.Health,
	}))

	// Search
	sh := SearchHandler{
		BaseCtx:   d.BaseCtx,
		CfgVal:    d.CfgVal,
		Runner:    d.SearchRunner,
		Board:     d.Board,
		Session:   d.Session,
		Hub:       d.Hub,
		NewSource: d.NewSource,
		NewLedger: d.NewLedger,
	}
	mux.HandleFunc("/search/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.Run,
	}))
	mux.HandleFunc("/search/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sh.Status,
	}))

	// Results
	rh := ResultsHandler{Board: d.Board}
	mux.HandleFunc("/results", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: rh.Get,
	}))
	mux.HandleFunc("/results/panel", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: rh.Panel,
	}))
	mux.HandleFunc("/results/open", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: rh.Open,
	}))

	// CV
	cvh := CVHandler{
		BaseCtx:      d.BaseCtx,
		CfgVal:       d.CfgVal,
		Runner:       d.CVRunner,
		Session:      d.Session,
		Hub:          d.Hub,
		NewOptimizer: d.NewOptimizer,
		Dialog:       d.ChooseCV,
		DialogGate:   make(chan struct{}, 1),
	}
	if cvh.Dialog == nil {
		cvh.Dialog = cvopt.NativeDialog
	}
	mux.HandleFunc("/cv/select", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: cvh.Select,
	}))
	mux.HandleFunc("/cv/choose", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: cvh.Choose,
	}))
	mux.HandleFunc("/cv/optimize", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: cvh.Optimize,
	}))
	mux.HandleFunc("/cv/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: cvh.Status,
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
		Hub:         d.Hub,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	// Secrets
	sech := SecretsHandler{SetAPIKey: d.SetAPIKey}
	mux.HandleFunc("/api/secrets/openrouter", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sech.SetOpenRouterKey,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	return mux
}
