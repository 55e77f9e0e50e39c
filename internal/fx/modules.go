package fx

import (
	"context"
	"log"
	"time"

	"github.com/amityadav/smartsearch/internal/brightdata"
	"github.com/amityadav/smartsearch/internal/config"
	"github.com/amityadav/smartsearch/internal/core"
	"github.com/amityadav/smartsearch/internal/retrieval"
	"github.com/amityadav/smartsearch/internal/scraper"
	"github.com/amityadav/smartsearch/internal/store"
	adk "github.com/amityadav/smartsearch/pkg/adk/model"
	"github.com/amityadav/smartsearch/prompts"
	"go.uber.org/fx"
	adkmodel "google.golang.org/adk/model"
)

// ============================================================================
// FX MODULES - Group related providers together
// ============================================================================

// ConfigModule provides application configuration
var ConfigModule = fx.Module("config",
	fx.Provide(config.Load),
)

// StoreModule provides the research history database (optional)
var StoreModule = fx.Module("store",
	fx.Provide(NewPostgresStore),
)

// TransportModule provides the Bright Data API client
var TransportModule = fx.Module("transport",
	fx.Provide(NewBrightDataClient),
)

// RetrievalModule provides the backend registry with all retrieval capabilities
var RetrievalModule = fx.Module("retrieval",
	fx.Provide(NewRetrievalRegistry),
)

// ScraperModule provides the page reader used by the agent
var ScraperModule = fx.Module("scraper",
	fx.Provide(NewPageScraper),
)

// ModelModule provides the LLM backing the research agent
var ModelModule = fx.Module("model",
	fx.Provide(NewResearchModel),
)

// CoreModule provides the research business logic
var CoreModule = fx.Module("core",
	fx.Provide(NewResearchCore),
)

// ============================================================================
// PROVIDER FUNCTIONS - Constructors that FX will call automatically
// ============================================================================

// NewPostgresStore creates the history store, or nil when no database
// is configured (history endpoints report the feature as disabled).
func NewPostgresStore(cfg config.Config) (*store.PostgresStore, error) {
	if cfg.DatabaseURL == "" {
		log.Printf("[FX] Research history disabled (no DATABASE_URL)")
		return nil, nil
	}
	st, err := store.NewPostgresStore(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	log.Printf("[FX] PostgresStore initialized")
	return st, nil
}

// NewBrightDataClient creates the outbound HTTP transport
func NewBrightDataClient(cfg config.Config) *brightdata.Client {
	if cfg.BrightDataAPIKey == "" {
		log.Printf("[FX] Warning: BRIGHTDATA_API_KEY not set, retrieval calls will fail")
	}
	c := brightdata.NewClient(cfg.BrightDataAPIKey)
	log.Printf("[FX] BrightData client initialized")
	return c
}

// NewPageScraper creates the page reader
func NewPageScraper() *scraper.Scraper {
	return scraper.NewScraper()
}

// NewRetrievalRegistry builds the backend registry. Bindings are
// declared here once at startup; nothing reconfigures them at runtime.
func NewRetrievalRegistry(cfg config.Config, client *brightdata.Client) *retrieval.Registry {
	registry := retrieval.NewRegistry()

	registry.Register(retrieval.NewSERPAdapter(client, cfg.SerpZone, retrieval.Backend{
		Name:        "web-search",
		Description: prompts.ToolWebSearchDesc,
		Target:      "https://google.com/search",
	}))

	registry.Register(retrieval.NewSERPAdapter(client, cfg.SerpZone, retrieval.Backend{
		Name:        "discussion-search",
		Description: prompts.ToolDiscussionSearchDesc,
		Target:      "https://google.com/search",
		QueryPrefix: "site:reddit.com ",
	}))

	pollTimeout := time.Duration(cfg.PollTimeoutSeconds) * time.Second

	if cfg.PerplexityDatasetID != "" {
		registry.Register(retrieval.NewDatasetAdapter(client, retrieval.Backend{
			Name:        "deep-research",
			Description: prompts.ToolDeepResearchDesc,
			Target:      "https://www.perplexity.ai",
			DatasetID:   cfg.PerplexityDatasetID,
			Citations:   true,
		}, retrieval.WithPollTimeout(pollTimeout)))
		log.Printf("[FX] Registry: deep-research registered")
	}

	if cfg.GPTDatasetID != "" {
		registry.Register(retrieval.NewDatasetAdapter(client, retrieval.Backend{
			Name:        "gpt-research",
			Description: prompts.ToolGPTResearchDesc,
			Target:      "https://chatgpt.com",
			DatasetID:   cfg.GPTDatasetID,
		}, retrieval.WithPollTimeout(pollTimeout)))
		log.Printf("[FX] Registry: gpt-research registered")
	}

	log.Printf("[FX] Retrieval registry initialized with %d backends", registry.Count())
	return registry
}

// NewResearchModel creates the agent LLM: OpenAI primary, Groq
// fallback on rate limits when both keys are configured.
func NewResearchModel(cfg config.Config) adkmodel.LLM {
	var primary, fallback adkmodel.LLM

	if cfg.OpenAIAPIKey != "" {
		primary, _ = adk.NewModel("openai", cfg.OpenAIAPIKey, "gpt-4o")
	}
	if cfg.GroqAPIKey != "" {
		fallback, _ = adk.NewModel("groq", cfg.GroqAPIKey, "llama-3.3-70b-versatile")
	}

	switch {
	case primary != nil && fallback != nil:
		log.Printf("[FX] ResearchModel initialized (OpenAI primary, Groq fallback)")
		return adk.NewFallbackModel(primary, fallback)
	case primary != nil:
		log.Printf("[FX] ResearchModel initialized (OpenAI)")
		return primary
	case fallback != nil:
		log.Printf("[FX] ResearchModel initialized (Groq)")
		return fallback
	default:
		log.Fatal("[FX] No LLM provider configured. Set OPENAI_API_KEY or GROQ_API_KEY")
		return nil
	}
}

// NewResearchCore creates the research business logic
func NewResearchCore(registry *retrieval.Registry, scr *scraper.Scraper, model adkmodel.LLM) *core.ResearchCore {
	c := core.NewResearchCore(registry, scr, model)
	log.Printf("[FX] ResearchCore initialized")
	return c
}
