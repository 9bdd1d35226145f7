package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"jobfinder-engine/internal/action"
	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/results"
	"jobfinder-engine/internal/store"
)

type APIError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, status, e)
}

// ErrorStatus maps err to an HTTP status and error code.
func ErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, action.ErrBusy):
		return http.StatusConflict, "busy"
	case errors.Is(err, results.ErrStaleView):
		return http.StatusConflict, "stale_view"
	case errors.Is(err, results.ErrNoSuchRow):
		return http.StatusNotFound, "no_such_row"
	case errors.Is(err, store.ErrMalformed), errors.Is(err, store.ErrCellTooLong):
		return http.StatusInternalServerError, "store"
	}
	switch kind := domain.Kind(err); kind {
	case "validation":
		return http.StatusBadRequest, kind
	case "timeout":
		return http.StatusGatewayTimeout, kind
	case "network":
		return http.StatusBadGateway, kind
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// writeErr writes err with the status its kind maps to. Its text is the
// message shown to the user.
func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	status, code := ErrorStatus(err)
	WriteError(w, r, status, code, err.Error())
}
