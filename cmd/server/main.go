package main

import (
	"log"

	appfx "github.com/amityadav/smartsearch/internal/fx"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// FX resolves all dependencies, manages OnStart/OnStop hooks and
	// handles graceful shutdown on SIGINT/SIGTERM.
	app := fx.New(
		appfx.ConfigModule,    // Provides: config.Config
		appfx.StoreModule,     // Provides: *store.PostgresStore (nil without DATABASE_URL)
		appfx.TransportModule, // Provides: *brightdata.Client
		appfx.RetrievalModule, // Provides: *retrieval.Registry
		appfx.ScraperModule,   // Provides: *scraper.Scraper
		appfx.ModelModule,     // Provides: adk model.LLM
		appfx.CoreModule,      // Provides: *core.ResearchCore
		appfx.ServerModule,    // Starts the REST server

		// Use simple console logger for cleaner output
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ConsoleLogger{W: log.Writer()}
		}),
	)

	// Run blocks until the app receives a shutdown signal
	app.Run()
}
