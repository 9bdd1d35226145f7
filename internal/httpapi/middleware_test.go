package httpapi_test

import (
	"net/http"
	"reflect"
	"testing"

	"jobfinder-engine/internal/action"
	"jobfinder-engine/internal/config"
	"jobfinder-engine/internal/httpapi"
)

const evilOrigin = "https://evil.example"

func TestCors_PreflightFromUnknownOriginRefused(t *testing.T) {
	h := newHarness(t)
	req, _ := http.NewRequest(http.MethodOptions, h.srv.URL+"/config", nil)
	req.Header.Set("Origin", evilOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("allow-origin = %q", got)
	}
}

func TestCors_StateChangesFromUnknownOriginRefused(t *testing.T) {
	h := newHarness(t)
	before := h.deps.CfgVal.Load().(config.Config)

	changed := before
	changed.Optimizer.BaseURL = evilOrigin + "/v1"
	resp := h.doFrom(t, evilOrigin, http.MethodPut, "/config", changed)
	expectError(t, resp, http.StatusForbidden, "forbidden_origin", "")
	if after := h.deps.CfgVal.Load().(config.Config); after.Optimizer.BaseURL != before.Optimizer.BaseURL {
		t.Errorf("base url changed to %q", after.Optimizer.BaseURL)
	}

	h.deps.Session.SetCVPath("/tmp/cv.pdf")
	resp = h.doFrom(t, evilOrigin, http.MethodPost, "/cv/optimize", map[string]any{"name": "A", "position": "B"})
	expectError(t, resp, http.StatusForbidden, "forbidden_origin", "")
	if st := h.deps.CVRunner.Status(); st.State != action.StateIdle {
		t.Errorf("optimize started: %+v", st)
	}

	resp = h.doFrom(t, evilOrigin, http.MethodPost, "/api/secrets/openrouter", map[string]any{"api_key": "sk-x"})
	expectError(t, resp, http.StatusForbidden, "forbidden_origin", "")
}

func TestCors_ReadsFromUnknownOriginGetNoGrant(t *testing.T) {
	h := newHarness(t)
	resp := h.doFrom(t, evilOrigin, http.MethodGet, "/results", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("allow-origin = %q", got)
	}
}

func TestCors_AllowedOrigin(t *testing.T) {
	h := newHarness(t)

	req, _ := http.NewRequest(http.MethodOptions, h.srv.URL+"/search/run", nil)
	req.Header.Set("Origin", shellOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent || resp.Header.Get("Access-Control-Allow-Origin") != shellOrigin {
		t.Errorf("preflight = %d allow-origin=%q", resp.StatusCode, resp.Header.Get("Access-Control-Allow-Origin"))
	}

	resp = h.doFrom(t, shellOrigin, http.MethodPost, "/search/run", goSearch)
	if resp.StatusCode != http.StatusAccepted {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != shellOrigin {
		t.Errorf("allow-origin = %q", got)
	}
	h.deps.SearchRunner.Wait()
}

func TestLocalOrigins(t *testing.T) {
	got := httpapi.LocalOrigins("127.0.0.1:38472")
	want := []string{"http://127.0.0.1:38472", "http://localhost:38472"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
