package researchagent

import (
	"context"
	"fmt"
	"iter"
	"log"
	"time"

	"github.com/amityadav/smartsearch/internal/adk/tools"
	"github.com/amityadav/smartsearch/internal/retrieval"
	"github.com/amityadav/smartsearch/internal/scraper"
	"github.com/amityadav/smartsearch/prompts"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	adkmodel "google.golang.org/adk/model"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/adk/tool"
	"google.golang.org/genai"
)

const appName = "SmartSearch"

// Dependencies holds the services needed by the agent
type Dependencies struct {
	Registry *retrieval.Registry
	Scraper  *scraper.Scraper
	Model    adkmodel.LLM
}

// NewResearchAgent creates the research agent with one tool per
// registered retrieval capability, plus the page reader.
func NewResearchAgent(deps Dependencies) (agent.Agent, error) {
	allTools, err := getAllTools(deps)
	if err != nil {
		return nil, err
	}

	log.Printf("[ResearchAgent] Initializing with model %s and %d tools", deps.Model.Name(), len(allTools))

	return llmagent.New(llmagent.Config{
		Name:        "smart_search_engine",
		Model:       deps.Model,
		Description: "Research agent: fan out over search backends, summarize, cite",
		Instruction: prompts.AgentResearch,
		Tools:       allTools,
	})
}

func getAllTools(deps Dependencies) ([]tool.Tool, error) {
	var allTools []tool.Tool
	for _, name := range deps.Registry.Names() {
		t, err := tools.NewRetrievalTool(deps.Registry, name)
		if err != nil {
			return nil, err
		}
		allTools = append(allTools, t)
	}
	if deps.Scraper != nil {
		allTools = append(allTools, tools.NewReadPageTool(deps.Scraper))
	}
	return allTools, nil
}

// RunResult contains the outcome of an agent run
type RunResult struct {
	Summary string // The agent's final text response
}

// Run executes the agent for one user query and returns the result
func Run(ctx context.Context, deps Dependencies, query string) (*RunResult, error) {
	myAgent, err := NewResearchAgent(deps)
	if err != nil {
		return nil, err
	}

	sessionSvc := session.InMemoryService()

	r, err := runner.New(runner.Config{
		AppName:        appName,
		Agent:          myAgent,
		SessionService: sessionSvc,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	// One throwaway session per query; research calls carry no state
	// between requests.
	userID := "web"
	sessionID := fmt.Sprintf("research-%s", time.Now().Format("20060102-150405.000"))

	_, err = sessionSvc.Create(ctx, &session.CreateRequest{
		AppName:   appName,
		UserID:    userID,
		SessionID: sessionID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	inputMsg := &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			genai.NewPartFromText(query),
		},
	}

	log.Printf("[ResearchAgent] Starting run %s for query: %q", sessionID, query)

	next, stop := iter.Pull2(r.Run(ctx, userID, sessionID, inputMsg, agent.RunConfig{}))
	defer stop()

	finalResponse, err := drainEvents(next)
	if err != nil {
		return nil, err
	}

	log.Printf("[ResearchAgent] Run %s completed", sessionID)
	return &RunResult{Summary: finalResponse}, nil
}

// drainEvents consumes the event stream and keeps the last text
// output, which is the agent's final answer.
func drainEvents(next func() (*session.Event, error, bool)) (string, error) {
	var finalResponse string
	for {
		event, err, ok := next()
		if !ok {
			break
		}
		if err != nil {
			log.Printf("[ResearchAgent] Error during run: %v", err)
			return "", err
		}

		if event.Content != nil {
			for _, p := range event.Content.Parts {
				if p.Text != "" {
					finalResponse = p.Text
				}
			}
		}
	}
	return finalResponse, nil
}
