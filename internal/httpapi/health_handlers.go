package httpapi

import (
	"net/http"
	"time"

	"jobfinder-engine/internal/action"
)

// HealthHandler reports liveness and what each action is doing, so a shell
// can wait for idle before stopping the engine.
type HealthHandler struct {
	Search *action.Runner
	CV     *action.Runner
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"ok":     true,
		"time":   time.Now().Format(time.RFC3339),
		"search": h.Search.Status().State,
		"cv":     h.CV.Status().State,
	})
}
