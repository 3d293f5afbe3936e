package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gorilla "github.com/gorilla/sessions"
	"github.com/pawmatch/pawmatch/assets"
	"github.com/pawmatch/pawmatch/internal"
	"github.com/pawmatch/pawmatch/internal/db"
	"github.com/pawmatch/pawmatch/internal/db/migrate"
	"github.com/pawmatch/pawmatch/internal/market"
	marketdb "github.com/pawmatch/pawmatch/internal/market/db"
	"github.com/pawmatch/pawmatch/internal/web"
	"github.com/pawmatch/pawmatch/internal/web/sessions"
	"github.com/pawmatch/pawmatch/internal/web/view"
	"github.com/pawmatch/pawmatch/migrations"
	"golang.org/x/sync/errgroup"
)

const migrateTimeout = time.Second * 60

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Stderr))
}

func run(ctx context.Context, w io.Writer) int {
	logger := slog.New(slog.NewTextHandler(w, nil))

	cfg, err := configFromEnv()
	if err != nil {
		logger.Error("failed to get config from environment", "error", err)
		return 1
	}

	sqlDB, err := db.OpenSQLite(cfg.db.file, true)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return 1
	}

	defer func() {
		if err := sqlDB.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	if cfg.db.migrate {
		logger.Info("attempting to migrate database")

		migrateCtx, cancel := context.WithTimeout(ctx, migrateTimeout)
		defer cancel()

		meta := migrate.Metadata{
			AppVersion: internal.BuildRevision,
			Timestamp:  internal.BuildRevisionTime,
		}

		ran, err := migrate.RunFS(migrateCtx, sqlDB, migrations.FS, meta)
		if err != nil {
			logger.Error("failed to migrate database", "error", err)
			return 1
		}

		for _, m := range ran {
			logger.Info("migration ran", "sequence", m.Sequence, "filename", m.Filename)
		}
	}

	store := marketdb.New(sqlDB)

	svc, err := market.NewService(store)
	if err != nil {
		logger.Error("failed to create marketplace service", "error", err)
		return 1
	}

	var viewRenderer web.ViewRenderer
	if cfg.http.viewDir != "" {
		logger.Info("loading templates from disk", "dir", cfg.http.viewDir)
		viewRenderer = view.NewFSRenderer(os.DirFS(cfg.http.viewDir))
	} else {
		viewRenderer, err = view.NewMemRenderer(assets.TemplateFS)
		if err != nil {
			logger.Error("failed to parse embedded templates", "error", err)
			return 1
		}
	}

	// The cookie store wants authentication and encryption keys in
	// pairs. We only authenticate, the cookie contents are not secret.
	keyPairs := make([][]byte, 0, len(cfg.http.cookieKeys)*2)
	for _, key := range cfg.http.cookieKeys {
		keyPairs = append(keyPairs, key.SecretValue(), nil)
	}

	cookieStore := gorilla.NewCookieStore(keyPairs...)
	cookieStore.Options = &gorilla.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   cfg.http.server.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}

	webServer := web.NewServer(&web.ServerDeps{
		Logger:       logger,
		ViewRenderer: viewRenderer,
		Service:      svc,
		SessionStore: sessions.NewStore(cookieStore),
		DistFS:       http.FS(assets.DistFS),
	}, cfg.http.server)

	srv := &http.Server{
		Addr:         cfg.http.addr,
		ReadTimeout:  cfg.http.readTimeout,
		WriteTimeout: cfg.http.writeTimeout,
		IdleTimeout:  cfg.http.idleTimeout,
		Handler:      webServer,
	}

	// We need to run two tasks concurrently:
	// - Listen and serving of the HTTP server.
	// - Waiting for a signal to stop the server.

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server",
			"addr", cfg.http.addr,
			"buildRevision", internal.BuildRevision,
			"buildRevisionTime", internal.BuildRevisionTime,
			"buildLocalModified", internal.BuildLocalModified,
		)
		// ListenAndServe always returns a non-nil error,
		// g will cancel gCtx when an error is returned, so
		// this will also stop the other goroutine.
		return srv.ListenAndServe()
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("stopping http server")

		shutCtx, cancel := context.WithTimeout(context.Background(), cfg.http.shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutCtx)
	})

	err = g.Wait()
	if err != nil && err != http.ErrServerClosed {
		logger.Error("http server stopped with error", "error", err)
		return 1
	}

	logger.Info("http server stopped successfully")

	return 0
}
