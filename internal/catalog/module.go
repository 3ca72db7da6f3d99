package catalog

import (
	"log/slog"
	"strings"

	"go.uber.org/fx"

	"github.com/polkiloo/coffeeshop/internal/config"
)

// Module provides the menu catalog, read from the configured file when set.
var Module = fx.Provide(newCatalog)

func newCatalog(cfg *config.Config, logger *slog.Logger) (*Catalog, error) {
	if cfg.MenuFile == "" {
		return Default(), nil
	}
	c, err := LoadFile(cfg.MenuFile)
	if err != nil {
		return nil, err
	}
	logger.Info("menu loaded", slog.String("path", cfg.MenuFile), slog.String("drinks", strings.Join(c.Keys(), ",")))
	return c, nil
}
