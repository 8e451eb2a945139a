// main is the entry point of the EDRP bridge.
// It initializes the configuration, logger, API client and session tracker,
// then serves the host callbacks over HTTP.
package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/edrp-bridge/internal/bridge"
	"github.com/woozymasta/edrp-bridge/internal/config"
	"github.com/woozymasta/edrp-bridge/internal/fake"
	"github.com/woozymasta/edrp-bridge/internal/logger"
	"github.com/woozymasta/edrp-bridge/internal/lookup"
	"github.com/woozymasta/edrp-bridge/internal/remote"
	"github.com/woozymasta/edrp-bridge/internal/server"
	"github.com/woozymasta/edrp-bridge/internal/tracker"
)

func main() {
	cfg := config.Parse()

	logger.Setup(cfg.Logger)

	// API client
	transport := remote.NewHTTPTransport(remote.HTTPOptions{
		BaseURL:    cfg.Remote.URL,
		Timeout:    cfg.Remote.Timeout,
		RateCount:  cfg.Remote.RateCount,
		RateWindow: cfg.Remote.RateWindow,
	})
	client := remote.New(transport)

	// One-shot queries
	if lookup.Run(context.Background(), cfg.Lookup, client, os.Stdout) {
		return
	}

	// Session tracker
	b := bridge.New(tracker.New(client, tracker.Options{
		Groups:             cfg.Tracker.Groups,
		GroupCaseSensitive: cfg.Tracker.CaseSensitive,
		PingInterval:       cfg.Tracker.PingInterval,
		Unknown:            cfg.Tracker.Unknown,
	}))

	log.Info().
		Str("api", transport.BaseURL()).
		Strs("groups", cfg.Tracker.Groups).
		Dur("ping_interval", b.Tracker().PingInterval()).
		Msg("Starting EDRP bridge...")

	// Event replay
	if cfg.Lookup.FakeEvents > 0 {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		fake.GenerateEvents(context.Background(), b, cfg.Tracker.Groups[0], cfg.Lookup.FakeEvents, rnd)
		return
	}

	b.OnStart()

	// Init server
	srvHandler := server.New(b, client, cfg)

	httpServer := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           srvHandler.Run(),
		ReadHeaderTimeout: 5 * time.Second,
		// Callbacks wait on the API inline
		WriteTimeout: cfg.Remote.Timeout*4 + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("address", cfg.Server.Address).Msg("Host adapter listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	srvHandler.Close()
	b.OnStop()

	log.Info().Msg("Server exited")
}
