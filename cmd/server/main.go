package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	authmodule "github.com/authforge/authforge/modules/auth"
	"github.com/authforge/authforge/pkg/auth"
	"github.com/authforge/authforge/pkg/config"
	"github.com/authforge/authforge/pkg/email"
	"github.com/authforge/authforge/pkg/httpserver"
	"github.com/authforge/authforge/pkg/logger"
	"github.com/authforge/authforge/pkg/pg"
)

type appConfig struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	DB           pg.Config
	HTTP         httpserver.Config
	Email        email.Config
	Tokens       auth.TokenConfig
	Verification auth.VerificationConfig
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	logOpts := []logger.Option{logger.WithService("authforge")}
	if cfg.Environment == "development" {
		logOpts = append(logOpts, logger.WithDevelopment())
	}
	log := logger.New(logOpts...)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	pool, err := pg.Connect(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, cfg.DB, log); err != nil {
		return err
	}

	sender, err := newSender(cfg, log)
	if err != nil {
		return err
	}

	minter, err := auth.NewTokenMinter(cfg.Tokens)
	if err != nil {
		return err
	}

	storage := authmodule.NewPostgresStorage(pool)
	mailer := authmodule.NewMailer(sender)

	verification := auth.NewVerificationService(storage, mailer, cfg.Verification,
		auth.WithVerificationLogger(log),
	)
	session := auth.NewSessionService(storage, minter, verification,
		auth.WithSessionLogger(log),
	)

	module := authmodule.NewModule(session, verification, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", httpserver.HealthHandler(log, pg.Healthcheck(pool)))
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", module.Router())
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	return httpserver.New(cfg.HTTP, log).Run(ctx, r)
}

// newSender picks the delivery backend: Postmark when a server token is
// configured, the file-based dev sender otherwise.
func newSender(cfg appConfig, log *slog.Logger) (email.Sender, error) {
	if cfg.Email.PostmarkServerToken != "" {
		return email.NewPostmarkSender(cfg.Email)
	}
	log.Warn("no postmark token configured, writing emails to disk",
		slog.String("dir", cfg.Email.DevOutputDir),
	)
	return email.NewDevSender(cfg.Email.DevOutputDir), nil
}
