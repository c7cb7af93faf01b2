package api

import (
	"github.com/JaimeStill/docman/internal/config"
	"github.com/JaimeStill/docman/internal/infrastructure"
	"github.com/JaimeStill/docman/pkg/pagination"
	"github.com/JaimeStill/docman/pkg/repository"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination    pagination.Config
	Retry         repository.RetryConfig
	MaxUploadSize int64
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Pagination:    cfg.Pagination,
		Retry:         cfg.Access,
		MaxUploadSize: cfg.Storage.MaxUploadSizeBytes(),
	}
}
