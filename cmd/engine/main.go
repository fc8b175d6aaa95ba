package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"easyapply-engine/internal/config"
	"easyapply-engine/internal/docgen"
	"easyapply-engine/internal/domain"
	"easyapply-engine/internal/events"
	"easyapply-engine/internal/httpapi"
	"easyapply-engine/internal/logging"
	"easyapply-engine/internal/poll"
	"easyapply-engine/internal/scheduler"
	"easyapply-engine/internal/store"

	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "engine:", err)
		os.Exit(1)
	}
}

func run() error {
	// The desktop shell passes its own data dir; default to the working dir.
	dataDir := strings.TrimSpace(os.Getenv("EASYAPPLY_DATA_DIR"))
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	unlock, err := lockDataDir(dataDir)
	if err != nil {
		return err
	}
	defer unlock()

	userCfgPath, err := config.EnsureUserConfig(dataDir, filepath.Join("config", "config.yml"))
	if err != nil {
		return fmt.Errorf("config bootstrap failed: %w", err)
	}
	envFile := filepath.Join(dataDir, ".env")

	var warnings []string
	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(userCfgPath)
		if err != nil {
			return cfg, err
		}
		if err := config.OverlayEnv(&cfg, envFile); err != nil {
			return cfg, err
		}
		cfg, vr := config.NormalizeAndValidate(cfg)
		if !vr.OK() {
			return cfg, errors.New("invalid config:\n- " + strings.Join(vr.Errors, "\n- "))
		}
		warnings = vr.Warnings
		return cfg, nil
	}

	cfg, err := loadCfg()
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", userCfgPath, err)
	}
	var cfgVal atomic.Value // stores config.Config
	cfgVal.Store(cfg)

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	for _, w := range warnings {
		log.Warn("config warning", zap.String("warning", w))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPath := filepath.Join(dataDir, "easyapply.db")
	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	searchCache, err := buildCache(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer searchCache.Close()

	hub := events.NewHub()
	svc := poll.NewService(&liveSearcher{cfgVal: &cfgVal, cache: searchCache, log: log}, db.Pool, hub, log.Named("search"))

	gen := &docgen.Generator{
		Profile:      loadProfile(cfg, dataDir, log),
		OutputDir:    inDataDir(dataDir, cfg.Documents.OutputDir),
		TemplatesDir: cfg.Documents.TemplatesDir,
		Compiler:     docgen.Compiler{Path: cfg.Documents.PDFLatexPath},
		Log:          log.Named("docgen"),
	}

	token := strings.TrimSpace(os.Getenv("EASYAPPLY_SHUTDOWN_TOKEN"))
	if token == "" {
		if token, err = randomToken(16); err != nil {
			return err
		}
		// the desktop shell reads this line from stdout
		fmt.Printf("SHUTDOWN_TOKEN=%s\n", token)
	}

	handler := httpapi.NewRouter(httpapi.Deps{
		DB:            db.Pool,
		Hub:           hub,
		Log:           log.Named("http"),
		CfgVal:        &cfgVal,
		UserCfgPath:   userCfgPath,
		LoadCfg:       loadCfg,
		Searches:      svc,
		Documents:     gen,
		ExportDir:     dataDir,
		ShutdownToken: token,
		Shutdown:      stop,
	})

	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(cfg.App.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	poller := &poll.Poller{Service: svc, CfgVal: &cfgVal, Log: log.Named("poll")}
	go poller.Run(ctx)
	go scheduler.Every(ctx, 6*time.Hour, "retention", log, func(ctx context.Context) error {
		cur := cfgVal.Load().(config.Config)
		n, err := store.CleanupOld(ctx, db.Pool, cur.Retention.MaxAgeDays)
		if err == nil && n > 0 {
			log.Info("removed old postings", zap.Int64("deleted", n))
		}
		return err
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	log.Info("engine listening", zap.String("addr", "http://"+addr), zap.String("db", dbPath))

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	log.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

func inDataDir(dataDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dataDir, p)
}

func loadProfile(cfg config.Config, dataDir string, log *zap.Logger) *domain.UserProfile {
	if cfg.Documents.ProfilePath == "" {
		return nil
	}
	path := inDataDir(dataDir, cfg.Documents.ProfilePath)
	p, err := docgen.LoadProfile(path)
	if err != nil {
		log.Warn("profile not loaded, documents will be placeholders", zap.String("path", path), zap.Error(err))
		return nil
	}
	return p
}
