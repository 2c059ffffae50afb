package sensor

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/ericogr/dht22-monitor/pkg/config"
)

// optionsFromConfig extracts the driver settings from the config.
func optionsFromConfig(cfg config.Config, logger *log.Logger) Options {
	return Options{
		MinInterval: time.Duration(cfg.MinIntervalMs) * time.Millisecond,
		MaxHandles:  cfg.MaxHandles,
		Logger:      logger,
	}
}
