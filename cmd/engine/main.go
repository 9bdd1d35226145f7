package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"jobfinder-engine/internal/action"
	"jobfinder-engine/internal/config"
	"jobfinder-engine/internal/cvopt"
	"jobfinder-engine/internal/events"
	"jobfinder-engine/internal/httpapi"
	"jobfinder-engine/internal/results"
	"jobfinder-engine/internal/scheduler"
	"jobfinder-engine/internal/scrape"
	"jobfinder-engine/internal/secrets"
	"jobfinder-engine/internal/session"
	"jobfinder-engine/internal/store"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"
	"github.com/pkg/browser"
	"golang.org/x/sync/errgroup"
)

func main() {
	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[engine] .env not loaded: %v", err)
	}

	// Engine data dir: use env if provided (a launcher can pass one), else local folder.
	dataDir := os.Getenv("JOBFINDER_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	instance := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := instance.TryLock()
	if err != nil {
		log.Fatalf("engine lock: %v", err)
	}
	if !locked {
		log.Fatalf("another engine is already running for %s", dataDir)
	}
	defer instance.Unlock()

	userCfgPath, err := config.EnsureUserConfig(dataDir)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(userCfgPath)
		if err != nil {
			return cfg, err
		}
		cfg, vr := config.NormalizeAndValidate(cfg)
		for _, w := range vr.Warnings {
			log.Printf("[config] warning: %s", w)
		}
		if !vr.OK() {
			return cfg, fmt.Errorf("invalid config: %v", vr.Errors)
		}
		return cfg, nil
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := events.NewHub()
	keys := secrets.Resolver{}

	deps := httpapi.Deps{
		BaseCtx:      ctx,
		Hub:          hub,
		CfgVal:       &cfgVal,
		UserCfgPath:  userCfgPath,
		LoadCfg:      loadCfg,
		Session:      session.New(),
		Board:        results.NewBoard(results.BrowserOpener{}),
		SearchRunner: action.NewRunner("search", "", httpapi.StatusEmitter(hub, events.TypeSearchFinished)),
		CVRunner:     action.NewRunner("cv", cvopt.MsgFailed, httpapi.StatusEmitter(hub, events.TypeCVFinished)),
		NewSource: func(c config.Config) scrape.ListingSource {
			return scrape.NewFetcher(scrape.FetcherConfig{
				BaseURL:   c.Search.BaseURL,
				UserAgent: c.Search.UserAgent,
				Timeout:   c.SearchTimeout(),
			})
		},
		NewLedger: func(c config.Config) scrape.Ledger {
			return store.Open(resolve(dataDir, c.Store.Path))
		},
		NewOptimizer: func(c config.Config) httpapi.CVOptimizer {
			return cvopt.New(cvopt.Config{
				BaseURL:   c.Optimizer.BaseURL,
				Model:     c.Optimizer.Model,
				Timeout:   c.OptimizerTimeout(),
				OutputDir: resolve(dataDir, c.Optimizer.OutputDir),
			}, keys, cvopt.OpenRouterModel)
		},
		ChooseCV:  cvopt.NativeDialog,
		SetAPIKey: secrets.SetAPIKey,
	}

	if keys.APIKey() == "" {
		log.Printf("[engine] %s is not set; CV optimization will be refused until it is", secrets.APIKeyEnv)
	}

	token, err := shutdownToken(dataDir)
	if err != nil {
		log.Fatalf("shutdown token: %v", err)
	}

	mux := httpapi.NewMux(deps)
	mux.HandleFunc("/shutdown", shutdownHandler(token, stop))

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	uiURL := "http://" + ln.Addr().String() + "/"
	log.Printf("engine listening on %s (data=%s store=%s)", uiURL, dataDir, resolve(dataDir, cfg.Store.Path))

	local := httpapi.LocalOrigins(ln.Addr().String())
	allowedOrigins := func() []string {
		return append(append([]string(nil), local...), cfgVal.Load().(config.Config).App.AllowedOrigins...)
	}

	g, gctx := errgroup.WithContext(ctx)
	srv := &http.Server{
		Handler:           httpapi.Chain(mux, httpapi.RequestID, httpapi.AccessLog, httpapi.Recover, httpapi.Cors(allowedOrigins)),
		ReadHeaderTimeout: 5 * time.Second,
		// Open event streams end when shutdown starts.
		BaseContext: func(net.Listener) context.Context { return gctx },
	}

	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Printf("[engine] shutting down")
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	// Keeps idle event streams open through proxies and sleeping tabs.
	g.Go(func() error {
		return scheduler.Every(gctx, 25*time.Second, "heartbeat", func(context.Context) error {
			hub.Emit("", events.TypePing, nil)
			return nil
		})
	})

	if cfg.App.OpenUI {
		if err := browser.OpenURL(uiURL); err != nil {
			log.Printf("[engine] open ui: %v", err)
		}
	}

	if err := g.Wait(); err != nil {
		log.Printf("[engine] exit: %v", err)
	}
	deps.SearchRunner.Wait()
	deps.CVRunner.Wait()
}
