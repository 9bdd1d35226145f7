package httpapi

import (
	"net/http"
	"strings"
)

type SecretsHandler struct {
	SetAPIKey func(key string) error
}

type setAPIKeyReq struct {
	APIKey string `json:"api_key"`
}

// SetOpenRouterKey stores the API key in the OS keychain. The environment
// variable still wins when both are set.
func (h SecretsHandler) SetOpenRouterKey(w http.ResponseWriter, r *http.Request) {
	var req setAPIKeyReq
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(req.APIKey) == "" {
		WriteError(w, r, http.StatusBadRequest, "validation", "api_key is required")
		return
	}
	if err := h.SetAPIKey(req.APIKey); err != nil {
		WriteError(w, r, http.StatusBadRequest, "keyring", "failed to store api key: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
