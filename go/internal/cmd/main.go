package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
	"github.com/mcdev12/storefront/go/internal/publisher"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	configPath := parseConfigPath(os.Args[1:])

	config, err := loadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	level, err := zerolog.ParseLevel(config.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if err := run(config); err != nil {
		log.Fatal().Err(err).Msg("storefront server failed")
	}
}

// parseConfigPath loads the .env files (default ".env") before reading
// flags, so CONFIG_PATH may come from either.
func parseConfigPath(args []string, envFiles ...string) string {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	fs := flag.NewFlagSet("storefront", flag.ExitOnError)
	configPath := fs.String("config", getEnv("CONFIG_PATH", "config.yaml"), "path to the YAML config file")
	fs.Parse(args)
	return *configPath
}

func run(config *Config) error {
	services, err := setupServices(config, clockwork.NewRealClock())
	if err != nil {
		return fmt.Errorf("failed to setup services: %w", err)
	}

	if config.NATS.Enabled {
		nc, err := connectNATS(config.NATS.URL)
		if err != nil {
			return err
		}
		defer nc.Close()
		services.Scheduler.Subscribe(publisher.NewNATSPublisher(nc, config.NATS.Subject))
	}

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go services.Connections.Start(ctx)

	if err := services.Scheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start flash sale scheduler: %w", err)
	}
	defer services.Scheduler.Stop()

	go services.Catalog.Run(ctx)

	server := setupServer(config, services)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("storefront server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("storefront server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("storefront server shutdown failed")
	}

	log.Info().Msg("storefront shutdown complete")
	return nil
}

func connectNATS(url string) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("storefront-flashsale"),
		nats.MaxReconnects(-1), // Infinite reconnects
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	log.Info().Str("url", nc.ConnectedUrl()).Msg("connected to NATS")
	return nc, nil
}
