package api

import (
	"net/http"

	"github.com/digital-directions/stagegate/internal/config"
	"github.com/digital-directions/stagegate/pkg/openapi"
	"github.com/digital-directions/stagegate/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	storageHandler := newStorageHandler(
		runtime.Storage,
		runtime.Logger,
		cfg.Storage.MaxListSize,
	)

	groups := []routes.Group{
		domain.Projects.Handler().Routes(),
		domain.Stages.Handler().Routes(),
		domain.Signoffs.Handler().Routes(),
		domain.GoLive.Handler().Routes(),
		domain.Mapping.Handler().Routes(),
		domain.Notify.Handler().Routes(),
		storageHandler.routes(),
	}

	routes.Register(mux, groups...)

	if spec, err := buildSpec(cfg, groups...); err != nil {
		runtime.Logger.Warn("openapi spec generation failed", "error", err)
	} else {
		mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(spec))
	}
}
