package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"log"
	"net/http"
	"strings"
	"time"

	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

// Model implements the adk model.LLM interface against any
// OpenAI-compatible chat-completions endpoint. The default target is
// OpenAI itself; Groq works through a BaseURL override.
type Model struct {
	apiKey    string
	baseURL   string
	modelName string
	client    *http.Client
}

// Config for creating a new Model
type Config struct {
	APIKey    string
	BaseURL   string // Defaults to the OpenAI endpoint
	ModelName string // Defaults to gpt-4o
}

// NewModel creates a new OpenAI-compatible model adapter from config
func NewModel(cfg Config) *Model {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1/chat/completions"
	}
	if cfg.ModelName == "" {
		cfg.ModelName = "gpt-4o"
	}
	return &Model{
		apiKey:    cfg.APIKey,
		baseURL:   cfg.BaseURL,
		modelName: cfg.ModelName,
		client:    &http.Client{Timeout: 120 * time.Second},
	}
}

// Name returns the name of the model
func (m *Model) Name() string {
	return m.modelName
}

// --- Local types for the OpenAI-compatible API (NOT exported) ---

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

// GenerateContent generates content from the model
func (m *Model) GenerateContent(ctx context.Context, req *model.LLMRequest, stream bool) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		// 1. Convert ADK request contents to chat messages
		var messages []chatMessage

		for _, content := range req.Contents {
			role := "user"
			if content.Role == "model" {
				role = "assistant"
			}
			if content.Role == "system" {
				role = "system"
			}

			text := ""
			for _, part := range content.Parts {
				if part.Text != "" {
					text += part.Text
				}
			}

			if text != "" {
				messages = append(messages, chatMessage{
					Role:    role,
					Content: text,
				})
			}
		}

		// 2. Send request
		chatReq := chatRequest{
			Model:       m.modelName,
			Messages:    messages,
			Temperature: 0,
		}

		respStr, err := m.sendRequest(ctx, chatReq)
		if err != nil {
			yield(nil, err)
			return
		}

		// 3. Convert response to ADK format
		resp := &model.LLMResponse{
			Content: &genai.Content{
				Role: "model",
				Parts: []*genai.Part{
					genai.NewPartFromText(respStr),
				},
			},
			FinishReason: genai.FinishReasonStop,
		}

		yield(resp, nil)
	}
}

// sendRequest handles HTTP requests to the LLM API
func (m *Model) sendRequest(ctx context.Context, reqBody chatRequest) (string, error) {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	log.Printf("[OpenAIAdapter] Sending request to %s with model %s...", m.baseURL, m.modelName)

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("api error: %d %s", resp.StatusCode, string(bodyBytes))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}

	content := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	log.Printf("[OpenAIAdapter] Success, response length: %d", len(content))
	return content, nil
}
