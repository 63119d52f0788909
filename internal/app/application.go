package app

import (
	"log/slog"

	"journey.transitgo.org/internal/config"
	"journey.transitgo.org/internal/dispatch"
	"journey.transitgo.org/internal/gtfs"
	"journey.transitgo.org/internal/stopindex"
)

// Application holds the dependencies for our HTTP handlers, helpers,
// and middleware: the configuration, a logger, and the read-only planning
// services built once at startup.
type Application struct {
	Config     *config.Config
	Logger     *slog.Logger
	Catalogue  *gtfs.Catalogue
	StopIndex  *stopindex.Index
	Dispatcher *dispatch.Dispatcher
}
