// Package api assembles the domain systems and their HTTP handlers into a
// single module mounted beneath the configured base path. Every route
// requires a verified bearer token.
package api

import (
	"net/http"

	"github.com/JaimeStill/docman/internal/config"
	"github.com/JaimeStill/docman/internal/identity"
	"github.com/JaimeStill/docman/internal/infrastructure"
	"github.com/JaimeStill/docman/pkg/middleware"
	"github.com/JaimeStill/docman/pkg/module"
)

// NewModule builds the API module and its middleware stack.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) *module.Module {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, runtime, domain)

	m := module.New(cfg.Server.BasePath, mux)
	m.Use(middleware.TrimSlash())
	m.Use(middleware.CORS(&cfg.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(identity.Authenticate(identity.NewVerifier(&cfg.Identity), runtime.Logger))

	return m
}
