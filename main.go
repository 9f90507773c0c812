package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	zero "github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/snooze/internal/client"
	"github.com/sidereusnuntius/snooze/internal/config"
	service "github.com/sidereusnuntius/snooze/internal/service/impl"
	"github.com/sidereusnuntius/snooze/internal/state"
	"github.com/sidereusnuntius/snooze/internal/web"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config, err := config.ReadConfig(os.Args[1:])
	if err != nil {
		zero.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogger(&config)

	key, err := config.SessionKey()
	if err != nil {
		zero.Fatal().Err(err).Msg("failed to derive session key")
	}
	manager := web.NewSessionManager(&config, key)

	api := client.New(config.APIURL, &http.Client{Timeout: config.RequestTimeout}, config.RetryAttempts)
	state := state.State{
		API:    api,
		Config: config,
	}
	service := service.New(state)

	handler := web.New(&config, service, manager)
	router := chi.NewRouter()
	router.Use(web.RequestLogger(zero.Logger))
	handler.Mount(router)

	s := &http.Server{
		Addr:              config.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.Shutdown(shutdown); err != nil {
			zero.Error().Err(err).Msg("failed to shut down server")
		}
	}()

	zero.Info().
		Str("addr", config.Addr).
		Stringer("api", config.APIURL).
		Msg("started server")
	err = s.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		zero.Fatal().Err(err).Send()
	}
	zero.Info().Msg("server stopped")
}

func setupLogger(config *config.Configuration) {
	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if config.Debug {
		zero.Logger = zero.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
}
