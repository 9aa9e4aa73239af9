package main

import (
	"strings"
	"sync"

	"airstage/internal/config"
	"airstage/internal/engine"
	"airstage/internal/logging"
	"airstage/internal/queue"
	"airstage/internal/station"
)

type commandContext struct {
	configFlag  *string
	stationFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, stationFlag *string) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		stationFlag: stationFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) station() string {
	if c.stationFlag != nil && strings.TrimSpace(*c.stationFlag) != "" {
		return strings.TrimSpace(*c.stationFlag)
	}
	if cfg, err := c.ensureConfig(); err == nil && cfg != nil {
		return cfg.Station.DefaultID
	}
	return ""
}

// withStores opens the queue and profile stores for one command invocation
// and closes them afterwards.
func (c *commandContext) withStores(fn func(cfg *config.Config, store *queue.Store, profiles *station.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := queue.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	profiles, err := station.Open(cfg)
	if err != nil {
		return err
	}
	defer profiles.Close()

	return fn(cfg, store, profiles)
}

func (c *commandContext) withEngine(fn func(cfg *config.Config, store *queue.Store, eng *engine.Engine) error) error {
	return c.withStores(func(cfg *config.Config, store *queue.Store, profiles *station.Store) error {
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			logger = logging.NewNop()
		}
		return fn(cfg, store, engine.New(cfg, store, profiles, logger))
	})
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
