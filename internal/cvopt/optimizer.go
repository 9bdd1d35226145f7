// Package cvopt asks a chat-completion model for an ATS-friendly CV rewrite
// and saves the reply as a text file.
package cvopt

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"jobfinder-engine/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	MsgNoAPIKey   = "OPENROUTER_API_KEY is not set in environment variables."
	MsgNoFile     = "Please select a CV to optimize."
	MsgOptimizing = "Optimizing CV..."
	MsgFailed     = "Error processing CV."
	msgSaved      = "Optimized CV saved as: %s"
	msgSavedLong  = "The CV has been optimized and saved as:\n%s"

	systemPrompt = "You are an HR expert optimizing CVs for ATS."
	userPrompt   = `Improve this CV to be ATS (Applicant Tracking System) compatible
and tailor it for the position "%s".`
)

var ErrEmptyCompletion = errors.New("model returned no completion")

type Config struct {
	BaseURL   string
	Model     string
	Timeout   time.Duration
	OutputDir string
}

type KeySource interface {
	APIKey() string
}

// ModelFactory builds the chat model for one request.
type ModelFactory func(apiKey string, cfg Config) (llms.Model, error)

// OpenRouterModel talks to OpenRouter through its OpenAI-compatible API.
func OpenRouterModel(apiKey string, cfg Config) (llms.Model, error) {
	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithModel(cfg.Model),
		openai.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	)
	if err != nil {
		return nil, err
	}
	return llm, nil
}

type Optimizer struct {
	cfg      Config
	keys     KeySource
	newModel ModelFactory
}

func New(cfg Config, keys KeySource, newModel ModelFactory) *Optimizer {
	if newModel == nil {
		newModel = OpenRouterModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	return &Optimizer{cfg: cfg, keys: keys, newModel: newModel}
}

type Result struct {
	Path string `json:"path"`
	// CVBytes is the size of the chosen file. Its content is not sent.
	CVBytes int `json:"cvBytes"`
}

func (r Result) Status() string  { return fmt.Sprintf(msgSaved, r.Path) }
func (r Result) Message() string { return fmt.Sprintf(msgSavedLong, r.Path) }

// Validate runs the local checks. Nothing touches the disk or network first.
func (o *Optimizer) Validate(req domain.CVRequest) error {
	if o.keys == nil || o.keys.APIKey() == "" {
		return domain.Invalid(MsgNoAPIKey)
	}
	if strings.TrimSpace(req.FilePath) == "" {
		return domain.Invalid(MsgNoFile)
	}
	return nil
}

// Optimize sends the fixed two-message request and writes the reply to
// "<name> - <position>.txt" in the output dir, replacing any existing file.
func (o *Optimizer) Optimize(ctx context.Context, req domain.CVRequest) (Result, error) {
	if err := o.Validate(req); err != nil {
		return Result{}, err
	}

	cv, err := os.ReadFile(req.FilePath)
	if err != nil {
		return Result{}, fmt.Errorf("read cv: %w", err)
	}
	log.Printf("[cvopt] read cv path=%q bytes=%d (not sent)", req.FilePath, len(cv))

	model, err := o.newModel(o.keys.APIKey(), o.cfg)
	if err != nil {
		return Result{}, fmt.Errorf("chat client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, o.cfg.Timeout)
	defer cancel()

	resp, err := model.GenerateContent(ctx, Messages(req.Position))
	if err != nil {
		return Result{}, domain.RemoteError("", err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return Result{}, ErrEmptyCompletion
	}
	text := resp.Choices[0].Content

	out := filepath.Join(o.cfg.OutputDir, OutputFileName(req.Name, req.Position))
	if err := os.MkdirAll(o.cfg.OutputDir, 0o755); err != nil {
		return Result{}, err
	}
	if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
		return Result{}, fmt.Errorf("write %s: %w", out, err)
	}

	log.Printf("[cvopt] saved path=%q model=%s chars=%d", out, o.cfg.Model, len(text))
	return Result{Path: out, CVBytes: len(cv)}, nil
}

// Messages is the request: a system framing and the position. The CV
// content is not included.
func Messages(position string) []llms.MessageContent {
	return []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, fmt.Sprintf(userPrompt, position)),
	}
}

var pathSeparators = strings.NewReplacer("/", "_", `\`, "_")

// OutputFileName is "<name> - <position>.txt" with path separators replaced.
func OutputFileName(name, position string) string {
	return pathSeparators.Replace(fmt.Sprintf("%s - %s.txt", name, position))
}
