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

	log "github.com/sirupsen/logrus"

	"github.com/amaumene/coffeeshop/pkg/config"
	"github.com/amaumene/coffeeshop/pkg/environment"
	"github.com/amaumene/coffeeshop/pkg/handlers"
)

const defaultAddr = "0.0.0.0:3000"

func main() {
	// Setup logging
	log.SetOutput(os.Stdout)
	log.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	log.SetLevel(log.InfoLevel)

	server, err := newServer(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.WithError(err).Fatal("Failed to start envserver")
	}

	go func() {
		log.WithField("address", server.Addr).Info("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	waitForShutdown(server)
}

// newServer parses args, resolves and loads the environment settings and
// returns a server for them that has not been started yet.
func newServer(args []string) (*http.Server, error) {
	fs := flag.NewFlagSet("envserver", flag.ContinueOnError)
	var (
		addr       = fs.String("addr", getEnvOrDefault("ADDR", defaultAddr), "Listen address")
		envName    = fs.String("env", "", "Deployment target (default $APP_ENV, then the build variant)")
		configFile = fs.String("config", "", "Settings file (.yaml, .yml or .json); defaults to environment.<env>.yaml in the working directory")
		dotenv     = fs.String("dotenv", ".env", "Comma-separated .env files; missing files are skipped")
	)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	env, err := resolveEnvironment(*envName)
	if err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	if *configFile == "" {
		*configFile = config.DefaultFile(".", env)
	}
	cfg, err := config.Load(config.Options{
		Environment: env,
		File:        *configFile,
		DotEnvFiles: config.SplitList(*dotenv),
	})
	if err != nil {
		return nil, fmt.Errorf("load environment settings: %w", err)
	}
	for _, f := range cfg.Audit() {
		log.WithField("field", f.Field).Warn(f.Message)
	}
	log.WithFields(log.Fields{
		"environment":    cfg.Environment().String(),
		"api_server_url": cfg.APIServerURL(),
		"auth0_domain":   cfg.Auth0().Domain(),
		"auth0_client":   cfg.Auth0().MaskedClientID(),
	}).Info("Environment settings loaded")

	return &http.Server{
		Addr:         *addr,
		Handler:      handlers.NewHandler(cfg),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, nil
}

func resolveEnvironment(name string) (environment.Environment, error) {
	if name != "" {
		return environment.ParseEnvironment(name)
	}
	return config.EnvironmentFromEnv(nil, environment.BuildEnvironment())
}

// waitForShutdown waits for shutdown signals and gracefully shuts down
func waitForShutdown(server *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	log.WithField("signal", sig).Info("Received shutdown signal, initiating graceful shutdown")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Failed to shutdown HTTP server gracefully")
		return
	}
	log.Info("HTTP server shut down successfully")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
