package engine

import (
	"log/slog"
	"sync"

	_ "airstage/internal/backend/s3"
	"airstage/internal/config"
	"airstage/internal/logging"
	"airstage/internal/queue"
	"airstage/internal/station"
)

// Engine turns recordings into queued transfer jobs and pumps them through
// their lifecycle.
type Engine struct {
	cfg      *config.Config
	store    *queue.Store
	profiles *station.Store
	logger   *slog.Logger

	pumpMu sync.Mutex
}

// New assembles an engine. A nil logger falls back to a no-op logger.
func New(cfg *config.Config, store *queue.Store, profiles *station.Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{
		cfg:      cfg,
		store:    store,
		profiles: profiles,
		logger:   logger.With(logging.String(logging.FieldComponent, "engine")),
	}
}

// localRoot is where a queue's local backend (and the staging fallback for
// unimplemented methods) writes its payloads.
func (e *Engine) localRoot(kind queue.Kind) string {
	if kind == queue.KindStorage {
		return e.cfg.Paths.ExportDir
	}
	return e.cfg.Paths.StagingDir
}
