package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mangashelf/internal/catalog"
	"mangashelf/internal/config"
	"mangashelf/internal/httpx"
	"mangashelf/internal/library"
	"mangashelf/internal/logging"
	"mangashelf/internal/platform/kitsu"
	"mangashelf/internal/recommend"
	"mangashelf/internal/user"
)

func main() {
	config.LoadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	if cfg.Auth.JWTSecret == "" {
		logging.Fatal().Msg("missing required environment variable: JWT_SECRET")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStorage(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("cannot open storage")
	}
	defer st.close()

	kitsuClient := kitsu.NewBreakerClient(kitsu.NewClient(cfg.Kitsu))

	librarySvc := library.NewService(st.library, kitsuClient)
	catalogSvc := catalog.NewService(kitsuClient, librarySvc)
	recommendSvc := recommend.NewService(librarySvc, kitsuClient, cfg.Recommend)

	deps := routerDeps{
		cfg:       cfg,
		library:   library.NewHTTPHandler(librarySvc),
		catalog:   catalog.NewHTTPHandler(catalogSvc),
		recommend: recommend.NewHTTPHandler(recommendSvc),
		limiter:   httpx.NewRateLimitMiddleware(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst),
		ready:     st.ping,
	}
	if st.users != nil {
		userSvc := user.NewService(st.users, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		deps.users = user.NewHTTPHandler(userSvc)
		deps.accounts = userSvc.Exists
	} else {
		logging.Info().Str("driver", cfg.Storage.Driver).Msg("accounts disabled for this storage driver")
	}
	go deps.limiter.Run(ctx)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      newRouter(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server error")
		}
	case <-ctx.Done():
		logging.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("graceful shutdown failed")
		}
	}
}
