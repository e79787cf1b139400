package api

import (
	"github.com/digital-directions/stagegate/internal/config"
	"github.com/digital-directions/stagegate/internal/infrastructure"
	"github.com/digital-directions/stagegate/internal/mapping"
	"github.com/digital-directions/stagegate/internal/valuesource"
	"github.com/digital-directions/stagegate/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration and the
// external source system client.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Source     mapping.Source
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	logger := infra.Logger.With("module", "api")

	var source mapping.Source
	if !cfg.Source.Disabled {
		source = valuesource.New(cfg.Source, logger)
	}

	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    logger,
			Database:  infra.Database,
			Storage:   infra.Storage,
			Identity:  infra.Identity,
		},
		Pagination: cfg.API.Pagination,
		Source:     source,
	}
}
