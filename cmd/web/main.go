// cmd/web/main.go
//
// Reing – HTTP entry point.
//
// Start-up sequence
// -----------------
//
//  1. Console bootstrap logger, then config.Load (.env → YAML → env →
//     Vault refs).
//
//  2. Rotating JSON logger under <root>/logs (tees to console in a TTY).
//
//  3. Open the store, run embedded migrations when auto_migrate is set.
//
//  4. Card renderer + LRU, optional mail and social notifiers, and the
//     notification dispatcher.
//
//  5. Views, CSRF signer, router, and the HTTP server.
//
// Shutdown
// --------
// SIGINT or SIGTERM stops the listener first, then the dispatcher drains
// for whatever is left of shutdown_timeout, then the pool closes.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/reing/internal/auth"
	"github.com/yanizio/reing/internal/card"
	"github.com/yanizio/reing/internal/config"
	"github.com/yanizio/reing/internal/csrf"
	"github.com/yanizio/reing/internal/database"
	"github.com/yanizio/reing/internal/logger"
	"github.com/yanizio/reing/internal/notify"
	"github.com/yanizio/reing/internal/repository/sqlstore"
	"github.com/yanizio/reing/internal/server"
	"github.com/yanizio/reing/internal/view"
	"github.com/yanizio/reing/internal/web"
)

func main() {
	if err := run(); err != nil {
		zap.S().Errorw("reing exited", "err", err)
		_ = zap.L().Sync()
		os.Exit(1)
	}
}

func run() error {
	boot := logger.Bootstrap()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	//
	// ── 1.  Config ──────────────────────────────────────────────────────
	//
	cfg, err := config.Load(ctx)
	if err != nil {
		boot.Errorw("config", "err", err)
		return err
	}

	//
	// ── 2.  Logger ──────────────────────────────────────────────────────
	//
	log, err := logger.New(cfg.Paths.Root, logger.IsTTY())
	if err != nil {
		boot.Errorw("start logger", "err", err)
		return err
	}
	defer func() { _ = log.Sync() }()

	//
	// ── 3.  Store ───────────────────────────────────────────────────────
	//
	db, err := database.Open(ctx, database.Options{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		log.Errorw("connect database", "driver", cfg.Database.Driver, "err", err)
		return err
	}
	defer db.Close()
	log.Infow("database online", "driver", cfg.Database.Driver)

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, log); err != nil {
			log.Errorw("migrate", "err", err)
			return err
		}
	}
	repo := sqlstore.New(db)

	//
	// ── 4.  Cards and notifications ─────────────────────────────────────
	//
	renderer, err := card.NewRenderer(cfg.Card.FontPath, cfg.App.Domain)
	if err != nil {
		log.Errorw("card font", "path", cfg.Card.FontPath, "err", err)
		return err
	}
	cards := card.NewCards(renderer, cfg.Card.CacheSize)

	opts := notify.Options{
		QueueSize: cfg.Notify.QueueSize,
		Spacing:   cfg.Notify.Spacing,
		Log:       log.With("component", "notify"),
	}
	if cfg.Mailer.Enabled {
		opts.Questions = notify.NewMailer(notify.MailConfig{
			Host:     cfg.Mailer.Host,
			Port:     cfg.Mailer.Port,
			Username: cfg.Mailer.Username,
			Password: cfg.Mailer.Password,
			From:     cfg.Mailer.From,
			To:       cfg.Mailer.To,
			Domain:   cfg.App.Domain,
		})
	}
	if cfg.Social.Enabled {
		opts.Answers = notify.NewPoster(notify.SocialConfig{
			BaseURL: cfg.Social.BaseURL,
			Token:   cfg.Social.Token,
			Hashtag: cfg.Social.Hashtag,
			Domain:  cfg.App.Domain,
		}, cards, log)
	}
	dispatcher := notify.NewDispatcher(opts)

	//
	// ── 5.  HTTP ────────────────────────────────────────────────────────
	//
	views, err := view.New(time.Now)
	if err != nil {
		log.Errorw("parse templates", "err", err)
		return err
	}

	router := web.NewRouter(web.Deps{
		Repo:     repo,
		Notifier: dispatcher,
		Cards:    cards,
		CSRF:     csrf.New(cfg.App.CSRFKey),
		Views:    views,
		Admin: auth.Credentials{
			Username:     cfg.Admin.Username,
			PasswordHash: cfg.Admin.PasswordHash,
		},
		DB:         db,
		Log:        log,
		Domain:     cfg.App.Domain,
		PageSize:   cfg.App.PageSize,
		ForceHTTPS: cfg.HTTP.ForceHTTPS,
	})

	srv := server.New(cfg.HTTP.ListenAddr, router, server.Timeouts{
		Read:     cfg.HTTP.ReadTimeout,
		Write:    cfg.HTTP.WriteTimeout,
		Idle:     cfg.HTTP.IdleTimeout,
		Shutdown: cfg.HTTP.ShutdownTimeout,
	}, log)

	runErr := srv.Run(ctx)

	drainCtx, cancel := context.WithTimeout(context.Background(), srv.ShutdownTimeout())
	defer cancel()
	if err := dispatcher.Close(drainCtx); err != nil {
		log.Warnw("notifications abandoned", "pending", dispatcher.Pending(), "err", err)
	}
	log.Infow("shutdown complete")
	return runErr
}
