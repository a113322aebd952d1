package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/smartcampus/campus-portal/internal/api"
	"github.com/smartcampus/campus-portal/internal/api/middleware"
	"github.com/smartcampus/campus-portal/internal/core/ports"
	"github.com/smartcampus/campus-portal/internal/core/service"
	"github.com/smartcampus/campus-portal/internal/infrastructure/apiclient"
	"github.com/smartcampus/campus-portal/internal/infrastructure/storage"
	"github.com/smartcampus/campus-portal/internal/pkg/config"
	"github.com/smartcampus/campus-portal/internal/pkg/metrics"
	"github.com/smartcampus/campus-portal/pkg/logger"
)

const appName = "campus portal"

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
		App:    "portal",
	})

	displayAppname(appName)
	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("portal stopped")
	}
	log.Info().Msg("portal stopped")
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, closeStorage, err := storage.Open(ctx, cfg, logger.Component("storage"))
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := closeStorage(closeCtx); err != nil {
			log.Warn().Err(err).Msg("close storage")
		}
	}()

	baseURL := cfg.BaseURL()
	client, err := apiclient.New(baseURL,
		apiclient.WithTimeout(cfg.API.Timeout),
		apiclient.WithLogger(logger.Component("apiclient")),
	)
	if err != nil {
		return fmt.Errorf("api client: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.Register(reg)

	ready := map[string]ports.Pinger{}
	if p, ok := provider.(ports.Pinger); ok {
		ready[cfg.Storage.Backend] = p
	}

	e, err := api.NewRouter(api.Deps{
		AuthService: service.NewAuthService(client, logger.Component("auth")),
		APIClient:   client,
		Storage:     provider,
		Cookie: middleware.CookieConfig{
			Name:   cfg.Portal.CookieName,
			Secure: cfg.Portal.CookieSecure,
		},
		Ready:    ready,
		Registry: reg,
		Log:      logger.Component("http"),
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Str("api", baseURL).
			Str("storage", cfg.Storage.Backend).
			Msg("portal listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server.ListenAndServe: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	return shutdown(server)
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
