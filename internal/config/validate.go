package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate trims string fields and returns the normalized copy
// along with everything wrong with it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	out.Search.BaseURL = strings.TrimSpace(out.Search.BaseURL)
	out.Search.UserAgent = strings.TrimSpace(out.Search.UserAgent)
	out.Store.Path = strings.TrimSpace(out.Store.Path)
	out.Optimizer.BaseURL = strings.TrimRight(strings.TrimSpace(out.Optimizer.BaseURL), "/")
	out.Optimizer.Model = strings.TrimSpace(out.Optimizer.Model)
	out.Optimizer.OutputDir = strings.TrimSpace(out.Optimizer.OutputDir)

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	origins := make([]string, 0, len(out.App.AllowedOrigins))
	for _, o := range out.App.AllowedOrigins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" {
			continue
		}
		u, err := url.Parse(o)
		if err != nil || u.Scheme == "" || u.Host == "" || u.Path != "" || u.RawQuery != "" {
			res.addErr("app.allowed_origins entries must be scheme://host[:port], got %q", o)
			continue
		}
		if o == "*" || strings.Contains(u.Host, "*") {
			res.addErr("app.allowed_origins must not contain wildcards, got %q", o)
			continue
		}
		origins = append(origins, o)
	}
	out.App.AllowedOrigins = origins

	checkURL := func(name, raw string) {
		if raw == "" {
			res.addErr("%s is required", name)
			return
		}
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			res.addErr("%s must be an absolute http(s) URL, got %q", name, raw)
		}
	}
	checkURL("search.base_url", out.Search.BaseURL)
	checkURL("optimizer.base_url", out.Optimizer.BaseURL)

	if out.Search.UserAgent == "" {
		res.addWarn("search.user_agent is empty; the job site may refuse the request.")
	}
	if out.Search.TimeoutSeconds <= 0 {
		res.addErr("search.timeout_seconds must be > 0")
	}
	if out.Optimizer.TimeoutSeconds <= 0 {
		res.addErr("optimizer.timeout_seconds must be > 0")
	} else if out.Optimizer.TimeoutSeconds < 15 {
		res.addWarn("optimizer.timeout_seconds is very low (%d); completions often take longer.", out.Optimizer.TimeoutSeconds)
	}

	if out.Store.Path == "" {
		res.addErr("store.path is required")
	} else if !strings.EqualFold(filepath.Ext(out.Store.Path), ".xlsx") {
		res.addErr("store.path must end in .xlsx, got %q", out.Store.Path)
	}

	if out.Optimizer.Model == "" {
		res.addErr("optimizer.model is required")
	}
	if out.Optimizer.OutputDir == "" {
		out.Optimizer.OutputDir = "."
	}

	return out, res
}
