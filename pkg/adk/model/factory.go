package model

import (
	"fmt"

	"github.com/amityadav/smartsearch/pkg/adk/model/openai"
	adkmodel "google.golang.org/adk/model"
)

const groqBaseURL = "https://api.groq.com/openai/v1/chat/completions"

// NewModel creates an ADK model adapter based on provider name.
// Supported providers: "openai", "groq" (same wire protocol, different endpoint).
func NewModel(providerName, apiKey, modelID string) (adkmodel.LLM, error) {
	switch providerName {
	case "openai":
		return openai.NewModel(openai.Config{
			APIKey:    apiKey,
			ModelName: modelID,
		}), nil
	case "groq":
		return openai.NewModel(openai.Config{
			APIKey:    apiKey,
			BaseURL:   groqBaseURL,
			ModelName: modelID,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported ADK model provider: %s (supported: openai, groq)", providerName)
	}
}
