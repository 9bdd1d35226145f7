package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"jobfinder-engine/internal/action"
	"jobfinder-engine/internal/config"
	"jobfinder-engine/internal/cvopt"
	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/events"
	"jobfinder-engine/internal/httpapi"
	"jobfinder-engine/internal/results"
	"jobfinder-engine/internal/scrape"
	"jobfinder-engine/internal/session"
	"jobfinder-engine/internal/store"

	"github.com/tmc/langchaingo/llms"
)

type fakeSource struct {
	mu       sync.Mutex
	listings []domain.Listing
	err      error
	gate     chan struct{}
	calls    int
}

func (f *fakeSource) Fetch(ctx context.Context, _ domain.SearchFilter) ([]domain.Listing, error) {
	f.mu.Lock()
	f.calls++
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.listings, f.err
}

func (f *fakeSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeOpener struct {
	mu     sync.Mutex
	opened []string
}

func (o *fakeOpener) Open(url string) error {
	o.mu.Lock()
	o.opened = append(o.opened, url)
	o.mu.Unlock()
	return nil
}

func (o *fakeOpener) Opened() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.opened...)
}

type replyModel struct {
	reply string
	err   error
}

func (m replyModel) GenerateContent(ctx context.Context, _ []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: m.reply}}}, nil
}

func (m replyModel) Call(ctx context.Context, prompt string, opts ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, opts...)
}

const shellOrigin = "tauri://localhost"

type staticKey string

func (k staticKey) APIKey() string { return string(k) }

type harness struct {
	srv       *httptest.Server
	deps      httpapi.Deps
	source    *fakeSource
	opener    *fakeOpener
	storePath string
	outDir    string
	apiKey    string
	model     replyModel

	// dialog answers /cv/choose
	dialogPath string
	dialogErr  error
	dialogGate chan struct{}
	dialogOpen chan struct{}

	mu        sync.Mutex
	savedKeys []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()

	cfgPath, err := config.EnsureUserConfig(dir)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	var cfgVal atomic.Value
	cfgVal.Store(cfg)

	h := &harness{
		source:    &fakeSource{},
		opener:    &fakeOpener{},
		storePath: filepath.Join(dir, "job_results.xlsx"),
		outDir:    filepath.Join(dir, "out"),
		apiKey:    "sk-test",
		model:     replyModel{reply: "Optimized CV"},
	}

	hub := events.NewHub()
	h.deps = httpapi.Deps{
		BaseCtx:      context.Background(),
		Hub:          hub,
		CfgVal:       &cfgVal,
		UserCfgPath:  cfgPath,
		LoadCfg:      func() (config.Config, error) { return config.Load(cfgPath) },
		Session:      session.New(),
		Board:        results.NewBoard(h.opener),
		SearchRunner: action.NewRunner("search", "", httpapi.StatusEmitter(hub, events.TypeSearchFinished)),
		CVRunner:     action.NewRunner("cv", cvopt.MsgFailed, httpapi.StatusEmitter(hub, events.TypeCVFinished)),
		NewSource:    func(config.Config) scrape.ListingSource { return h.source },
		NewLedger:    func(config.Config) scrape.Ledger { return store.Open(h.storePath) },
		NewOptimizer: func(c config.Config) httpapi.CVOptimizer {
			return cvopt.New(cvopt.Config{Model: c.Optimizer.Model, OutputDir: h.outDir}, staticKey(h.apiKey),
				func(string, cvopt.Config) (llms.Model, error) { return h.model, nil })
		},
		ChooseCV: func(ctx context.Context) (string, error) {
			if h.dialogGate != nil {
				h.dialogOpen <- struct{}{}
				select {
				case <-h.dialogGate:
				case <-ctx.Done():
					return "", ctx.Err()
				}
			}
			return h.dialogPath, h.dialogErr
		},
		SetAPIKey: func(key string) error {
			h.mu.Lock()
			h.savedKeys = append(h.savedKeys, key)
			h.mu.Unlock()
			return nil
		},
	}

	handler := httpapi.Chain(httpapi.NewMux(h.deps), httpapi.RequestID, httpapi.Recover, httpapi.Cors(func() []string { return []string{shellOrigin} }))
	h.srv = httptest.NewServer(handler)
	t.Cleanup(func() {
		h.deps.SearchRunner.Wait()
		h.deps.CVRunner.Wait()
		h.srv.Close()
	})
	return h
}

func (h *harness) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	return h.doFrom(t, "", method, path, body)
}

// doFrom sends the request as a browser page on origin would.
func (h *harness) doFrom(t *testing.T, origin, method, path string, body any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, h.srv.URL+path, rd)
	if err != nil {
		t.Fatal(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func expectError(t *testing.T, resp *http.Response, status int, code, msg string) {
	t.Helper()
	if resp.StatusCode != status {
		t.Errorf("status = %d, want %d", resp.StatusCode, status)
	}
	e := decode[httpapi.APIError](t, resp)
	if e.Error.Code != code {
		t.Errorf("code = %q, want %q", e.Error.Code, code)
	}
	if msg != "" && e.Error.Message != msg {
		t.Errorf("message = %q, want %q", e.Error.Message, msg)
	}
	if e.Error.RequestID == "" {
		t.Error("request_id missing")
	}
}
