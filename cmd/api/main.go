package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"journey.transitgo.org/internal/app"
	"journey.transitgo.org/internal/config"
	"journey.transitgo.org/internal/dispatch"
	"journey.transitgo.org/internal/gtfs"
	"journey.transitgo.org/internal/logging"
	"journey.transitgo.org/internal/planner"
	"journey.transitgo.org/internal/realtime"
	"journey.transitgo.org/internal/stopindex"
)

type application struct {
	*app.Application
}

func main() {
	var (
		port       int
		env        string
		configPath string
	)

	flag.IntVar(&port, "port", 4000, "API server port")
	flag.StringVar(&env, "env", "development", "Environment (development|staging|production)")
	flag.StringVar(&configPath, "config", "config.yaml", "Path to the mode bundle configuration")
	flag.Parse()

	logger := logging.NewStructuredLogger(os.Stdout, slog.LevelInfo)

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	bundles := make([]gtfs.ModeBundle, 0, len(cfg.Modes))
	for _, m := range cfg.Modes {
		bundles = append(bundles, gtfs.ModeBundle{ModeTag: m.Tag, Path: m.Path})
	}

	catalogue, err := gtfs.BuildCatalogue(bundles, logger)
	if err != nil {
		logger.Error("failed to build catalogue", "error", err)
		os.Exit(1)
	}

	conns := planner.BuildConnections(catalogue)
	calendar := planner.NewCalendar(catalogue, logger)
	index := stopindex.New(catalogue)

	var fetcher *realtime.Fetcher
	if cfg.APIKey != "" {
		fetcher = realtime.NewFetcher(cfg.APIKey, cfg.TripUpdateURLs(),
			time.Duration(cfg.RealtimeCacheTTLSecs)*time.Second, logger)
	} else {
		logger.Info("realtime overlay disabled", "reason", config.APIKeyEnv+" not set")
	}

	dispatcher := dispatch.New(catalogue, calendar, conns,
		planner.Options{
			MinTransferSecs:  cfg.MinTransferSecs,
			MaxNextDaySearch: cfg.MaxNextDaySearch,
		},
		fetcher,
		time.Duration(cfg.RequestTimeoutSecs)*time.Second,
		logger)

	a := &application{
		Application: &app.Application{
			Config:     cfg,
			Logger:     logger,
			Catalogue:  catalogue,
			StopIndex:  index,
			Dispatcher: dispatcher,
		},
	}

	logger.Info("catalogue built",
		"modes", catalogue.Modes(),
		"stops", len(catalogue.StopIDs()),
		"connections", len(conns))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      a.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	logger.Info("starting server", "addr", srv.Addr, "env", env)
	err = srv.ListenAndServe()
	logger.Error(err.Error())
	os.Exit(1)
}
