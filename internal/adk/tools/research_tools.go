package tools

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/amityadav/smartsearch/internal/retrieval"
	"github.com/amityadav/smartsearch/internal/scraper"
	"github.com/amityadav/smartsearch/prompts"
	"google.golang.org/adk/tool"
)

// NewRetrievalTool exposes one registry capability to the agent. The
// tool name is the capability name with dashes swapped for
// underscores (LLM function-calling naming rules).
func NewRetrievalTool(reg *retrieval.Registry, capability string) (tool.Tool, error) {
	adapter, ok := reg.Get(capability)
	if !ok {
		return nil, fmt.Errorf("capability %q not registered", capability)
	}
	backend := adapter.Backend()

	return &Simple{
		NameVal: strings.ReplaceAll(capability, "-", "_"),
		DescVal: backend.Description,
		Fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
			query, _ := args["query"].(string)
			if strings.TrimSpace(query) == "" {
				return "", fmt.Errorf("missing query")
			}
			log.Printf("[Tools] %s: %q", capability, query)
			return reg.Retrieve(ctx, capability, query)
		},
	}, nil
}

// NewReadPageTool creates a tool that fetches a URL and returns its text
func NewReadPageTool(s *scraper.Scraper) tool.Tool {
	return &Simple{
		NameVal: "read_page",
		DescVal: prompts.ToolReadPageDesc,
		Fn: func(ctx context.Context, args map[string]interface{}) (string, error) {
			pageURL, _ := args["url"].(string)
			if !strings.HasPrefix(pageURL, "http://") && !strings.HasPrefix(pageURL, "https://") {
				return "", fmt.Errorf("url must be a full http(s) URL")
			}
			content, err := s.Scrape(pageURL)
			if err != nil {
				// Keep the agent going; a dead link is not a session fault.
				return "Could not read page: " + err.Error(), nil
			}
			return content, nil
		},
	}
}
