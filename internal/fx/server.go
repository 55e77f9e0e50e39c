package fx

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/amityadav/smartsearch/internal/config"
	"github.com/amityadav/smartsearch/internal/core"
	"github.com/amityadav/smartsearch/internal/server"
	"github.com/amityadav/smartsearch/internal/store"
	"go.uber.org/fx"
)

// ServerModule starts the HTTP server
var ServerModule = fx.Module("server",
	fx.Invoke(StartServer),
)

// ServerParams groups dependencies for starting the server
type ServerParams struct {
	fx.In
	Lifecycle fx.Lifecycle
	Core      *core.ResearchCore
	Store     *store.PostgresStore
	Config    config.Config
}

// StartServer starts the REST server with lifecycle management
func StartServer(p ServerParams) {
	restHandler := server.CreateRESTHandler(server.Services{
		Researcher: p.Core,
		Store:      p.Store,
	}, p.Config)
	handler := server.CreateRecoveryHandler(restHandler)

	srv := &http.Server{
		Addr:    p.Config.HTTPAddr,
		Handler: handler,
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Printf("[FX] HTTP Server listening on %s", p.Config.HTTPAddr)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Printf("[FX] HTTP Server error: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Printf("[FX] Shutting down HTTP server...")
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			if p.Store != nil {
				p.Store.Close()
			}
			return nil
		},
	})
}
