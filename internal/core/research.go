package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/amityadav/smartsearch/internal/adk/researchagent"
	"github.com/amityadav/smartsearch/internal/retrieval"
	"github.com/amityadav/smartsearch/internal/scraper"
	adkmodel "google.golang.org/adk/model"
)

// ResearchCore answers one natural-language question by running the
// research agent over the registered retrieval backends.
type ResearchCore struct {
	registry *retrieval.Registry
	scraper  *scraper.Scraper
	model    adkmodel.LLM
}

// NewResearchCore creates the research business logic
func NewResearchCore(registry *retrieval.Registry, scr *scraper.Scraper, model adkmodel.LLM) *ResearchCore {
	return &ResearchCore{registry: registry, scraper: scr, model: model}
}

// Answer runs the agent for the query and returns its final summary
func (c *ResearchCore) Answer(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("query must not be empty")
	}

	result, err := researchagent.Run(ctx, researchagent.Dependencies{
		Registry: c.registry,
		Scraper:  c.scraper,
		Model:    c.model,
	}, query)
	if err != nil {
		return "", fmt.Errorf("agent run failed: %w", err)
	}
	if result.Summary == "" {
		return "", fmt.Errorf("agent returned an empty answer")
	}
	return result.Summary, nil
}
