package main

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"showdown-agent/agent"
	"showdown-agent/client"
	"showdown-agent/config"
	"showdown-agent/data"
	"showdown-agent/logger"
	"showdown-agent/player"
	"showdown-agent/spectate"
	"showdown-agent/store"
)

const shutdownTimeout = 5 * time.Second

func main() {
	fx.New(
		fx.NopLogger,
		fx.Provide(
			provideConfig,
			provideLogger,
			provideDex,
			provideResults,
			spectate.NewHub,
			provideSpectateServer,
			provideAgent,
		),
		fx.Invoke(run),
	).Run()
}

// provideConfig loads .env before anything reads the environment. Config
// loading logs at the default level; the rest of the app uses cfg.LogLevel.
func provideConfig() (*config.Config, error) {
	return config.Load(logger.New(""))
}

func provideLogger(cfg *config.Config) zerolog.Logger {
	return logger.New(cfg.LogLevel)
}

func provideDex(cfg *config.Config, log zerolog.Logger) (*data.Store, error) {
	dex := data.NewStore()
	if strings.EqualFold(cfg.DexURL, "off") {
		if err := dex.LoadPokemonData(cfg.PokedexPath); err != nil {
			return nil, err
		}
		if err := dex.LoadMoveData(cfg.MovesPath); err != nil {
			return nil, err
		}
	} else {
		fetcher := data.NewFetcher(cfg.DexURL, cfg.DexCacheDir, cfg.DexMaxAge, log)
		if err := fetcher.Load(dex, cfg.PokedexPath, cfg.MovesPath); err != nil {
			return nil, err
		}
	}
	log.Info().Int("pokemon", dex.PokemonCount()).Int("moves", dex.MoveCount()).Msg("dex loaded")
	return dex, nil
}

func provideResults(lc fx.Lifecycle, cfg *config.Config) (*store.Results, error) {
	results, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return results.Close()
		},
	})
	return results, nil
}

func provideSpectateServer(hub *spectate.Hub, results *store.Results, log zerolog.Logger) *spectate.Server {
	return spectate.NewServer(hub, results, log)
}

func provideAgent(cfg *config.Config, log zerolog.Logger) *agent.Agent {
	return agent.New(cfg.Seed, log)
}

func run(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg *config.Config,
	dex *data.Store,
	results *store.Results,
	hub *spectate.Hub,
	viewer *spectate.Server,
	decider *agent.Agent,
	log zerolog.Logger,
) {
	srv := &http.Server{
		Addr:        cfg.HTTPAddr,
		Handler:     viewer.Handler(),
		ReadTimeout: 10 * time.Second,
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				log.Info().Str("addr", srv.Addr).Msg("viewer listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error().Err(err).Msg("viewer failed")
				}
			}()
			go func() {
				defer close(done)
				if err := playBattles(ctx, cfg, dex, results, hub, decider, log); err != nil {
					log.Error().Err(err).Msg("agent stopped with error")
					_ = shutdowner.Shutdown(fx.ExitCode(1))
					return
				}
				_ = shutdowner.Shutdown()
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			<-done
			shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
			defer stop()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("viewer shutdown failed")
				return err
			}
			log.Info().Msg("stopped")
			return nil
		},
	})
}

// playBattles connects, plays until the configured number of battles is
// done, and reconnects a bounded number of times on connection errors.
func playBattles(
	ctx context.Context,
	cfg *config.Config,
	dex *data.Store,
	results *store.Results,
	hub *spectate.Hub,
	decider *agent.Agent,
	log zerolog.Logger,
) error {
	opts := player.OptionsFromConfig(cfg)
	var lastErr error
	for attempt := 0; attempt < cfg.ReconnectAttempts; attempt++ {
		if attempt > 0 {
			log.Warn().Int("attempt", attempt+1).Int("max", cfg.ReconnectAttempts).Msg("reconnecting to showdown")
			select {
			case <-time.After(cfg.ReconnectDelay):
			case <-ctx.Done():
				return nil
			}
		}

		conn, err := client.NewShowdownClient(ctx, cfg.ServerURL, cfg.LoginURL, log)
		if err != nil {
			lastErr = err
			log.Error().Err(err).Msg("connecting to showdown")
			continue
		}
		p := player.New(conn, dex, decider, hub, results, opts, log)
		err = p.Run(ctx)
		opts.Battles -= p.Finished()
		if err == nil || ctx.Err() != nil || opts.Battles <= 0 {
			return nil
		}
		lastErr = err
		log.Error().Err(err).Msg("connection lost")
	}
	return lastErr
}
