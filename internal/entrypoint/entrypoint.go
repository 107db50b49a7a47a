package entrypoint

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/covers"
	"github.com/mrlokans/bookshelf/internal/creation"
	"github.com/mrlokans/bookshelf/internal/detail"
	"github.com/mrlokans/bookshelf/internal/gallery"
	http_controllers "github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/logger"
	"github.com/mrlokans/bookshelf/internal/metadata"
	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/session"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, log *slog.Logger, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           http_controllers.AccessLog(router, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting server", "addr", srv.Addr, "backend", cfg.Backend.APIURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server", "timeout", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server exiting")
}

func Run(cfg *config.Config, version string) {
	log, err := logger.Setup(os.Stderr, cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log configuration: %v\n", err)
		os.Exit(1)
	}
	log.Info("starting bookshelf", "version", version)

	gin.SetMode(cfg.UI.GinMode)

	books := catalog.NewClient(cfg.Backend.APIURL, cfg.Backend.Timeout)
	volumes := metadata.NewClient(
		cfg.Backend.APIURL,
		metadata.WithRateLimit(cfg.Metadata.RateLimit, cfg.Metadata.Burst),
		metadata.WithTimeout(cfg.Metadata.Timeout),
	)

	sessions, err := session.NewManager(session.Config{
		Lifetime:      cfg.Session.Lifetime,
		SecureCookies: cfg.Session.SecureCookies,
		DBPath:        cfg.Session.DBPath,
	})
	if err != nil {
		log.Error("failed to initialize sessions", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := sessions.Close(); err != nil {
			log.Error("error closing session store", "error", err)
		}
	}()

	forms := creation.NewRegistry(cfg.Session.FormTTL)
	forms.Start()

	var csrfSecret []byte
	if cfg.CSRF.Enabled {
		csrfSecret, err = loadCSRFSecret(cfg.CSRF.Secret)
		if err != nil {
			log.Error("failed to prepare CSRF secret", "error", err)
			os.Exit(1)
		}
		if cfg.CSRF.Secret == "" {
			log.Info("generated CSRF secret (set CSRF_SECRET to persist across restarts)")
		}
	}

	// Cover caching is optional; pages link to the stored URL without it.
	var coverStore http_controllers.CoverStore
	var coverWarmer http_controllers.CoverWarmer
	var pruner *scheduler.CoverPruneScheduler
	var pruneSchedule http_controllers.PruneSchedule
	var taskClient *tasks.Client
	schedCtx, schedCancel := context.WithCancel(context.Background())
	if cfg.Covers.CacheDir != "" {
		cache, err := covers.NewCache(cfg.Covers.CacheDir)
		if err != nil {
			log.Warn("failed to initialize cover cache", "error", err)
		} else {
			log.Info("cover cache initialized", "dir", cache.CacheDir())
			coverStore = cache

			pruner = scheduler.NewCoverPruneScheduler(cache, scheduler.CoverPruneConfig{
				Enabled:  cfg.Covers.PruneEnabled,
				Schedule: cfg.Covers.PruneSchedule,
				MaxAge:   cfg.Covers.MaxAge,
			}, log)
			if err := pruner.Start(schedCtx); err != nil {
				log.Warn("failed to start cover prune scheduler", "error", err)
			}
			pruneSchedule = pruner

			if cfg.Tasks.Enabled {
				taskCfg := tasks.DefaultConfig()
				if cfg.Tasks.Workers > 0 {
					taskCfg.Workers = cfg.Tasks.Workers
				}
				taskClient, err = tasks.NewClient(cfg.Tasks.DBPath, taskCfg, log)
				if err != nil {
					log.Warn("failed to initialize task queue, covers will load on first view", "error", err)
				} else {
					taskClient.Register(tasks.NewWarmCoverQueue(cache))
					go taskClient.Start(schedCtx)
					coverWarmer = taskClient
				}
			}
		}
	}

	routerCfg := http_controllers.RouterConfig{
		Books:            books,
		Backend:          books,
		Details:          detail.NewLoader(books, volumes, log),
		Gallery:          gallery.NewLoader(books, volumes, log),
		Sessions:         sessions,
		Forms:            forms,
		CoverCache:       coverStore,
		CoverWarmer:      coverWarmer,
		CoverPrune:       pruneSchedule,
		CSRFSecret:       csrfSecret,
		SecureCookies:    cfg.Session.SecureCookies,
		GalleryLimit:     cfg.Gallery.Limit,
		PlaceholderImage: cfg.UI.PlaceholderImage,
		Version:          version,
		Logger:           log,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if taskClient != nil {
			taskClient.Stop(ctx)
		}
		schedCancel()
		if pruner != nil {
			pruner.Stop()
		}
		forms.Stop()
		if taskClient != nil {
			if err := taskClient.Close(); err != nil {
				log.Error("error closing task queue", "error", err)
			}
		}
	}

	Serve(router, cfg, log, onShutdown)
}

// loadCSRFSecret accepts a hex or raw secret, or generates 32 random bytes.
func loadCSRFSecret(configured string) ([]byte, error) {
	if configured != "" {
		if secret, err := hex.DecodeString(configured); err == nil && len(secret) == 32 {
			return secret, nil
		}
		if len(configured) != 32 {
			return nil, fmt.Errorf("CSRF_SECRET must be 32 bytes or 64 hex characters")
		}
		return []byte(configured), nil
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}
	return secret, nil
}
