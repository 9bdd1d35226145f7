package httpapi

import (
	"context"
	"sync/atomic"

	"jobfinder-engine/internal/action"
	"jobfinder-engine/internal/config"
	"jobfinder-engine/internal/cvopt"
	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/events"
	"jobfinder-engine/internal/results"
	"jobfinder-engine/internal/scrape"
	"jobfinder-engine/internal/session"
)

// CVOptimizer is the optimize action as the handlers use it.
type CVOptimizer interface {
	Validate(req domain.CVRequest) error
	Optimize(ctx context.Context, req domain.CVRequest) (cvopt.Result, error)
}

type Deps struct {
	// BaseCtx bounds background actions. It is cancelled at shutdown.
	BaseCtx context.Context

	Hub *events.Hub

	CfgVal      *atomic.Value // config.Config
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	Session *session.Session
	Board   *results.Board

	SearchRunner *action.Runner
	CVRunner     *action.Runner

	// Built from the live config for each run.
	NewSource    func(cfg config.Config) scrape.ListingSource
	NewLedger    func(cfg config.Config) scrape.Ledger
	NewOptimizer func(cfg config.Config) CVOptimizer

	// ChooseCV shows the CV file picker.
	ChooseCV cvopt.Dialog

	SetAPIKey func(key string) error
}
