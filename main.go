package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	orchestratorx "github.com/zulls123/greencare/agent/agents/orchestrator"
	gatewayx "github.com/zulls123/greencare/agent/gateway"
	profilex "github.com/zulls123/greencare/agent/profile"
	"github.com/zulls123/greencare/api"
	arkx "github.com/zulls123/greencare/pkg/ark"
	configx "github.com/zulls123/greencare/pkg/config"
	_ "github.com/zulls123/greencare/pkg/logger/autoload"
)

type AppConfig struct {
	HTTPAddr        string        `envconfig:"HTTP_ADDR" split_words:"true" default:":8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" split_words:"true" default:"10s"`
}

func main() {
	appCfg := configx.MustNew[AppConfig]("")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	arkCfg := configx.MustNew[arkx.Config]("ARK")
	arkClient := arkx.MustNew(*arkCfg)

	gatewayCfg := configx.MustNew[gatewayx.Config]("AGENT")
	gw := gatewayx.New(arkClient, *gatewayCfg)

	storeCfg := configx.MustNew[profilex.PostgresConfig]("DATABASE")
	store, err := profilex.NewPostgresStore(ctx, *storeCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open profile store")
	}
	defer store.Close()

	orch, err := orchestratorx.New(store, gw)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build orchestrator")
	}

	router := api.NewRouter(api.NewHandler(orch, store))
	srv := &http.Server{
		Addr:    appCfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", appCfg.HTTPAddr).Msg("advisory orchestrator listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), appCfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
