package model

import (
	"context"
	"fmt"
	"iter"
	"log"
	"strings"

	adkmodel "google.golang.org/adk/model"
)

// FallbackModel wraps two models and falls back to the second on rate limits
type FallbackModel struct {
	primary  adkmodel.LLM
	fallback adkmodel.LLM
}

// NewFallbackModel creates a model that tries primary first, then falls back on 429
func NewFallbackModel(primary, fallback adkmodel.LLM) *FallbackModel {
	return &FallbackModel{primary: primary, fallback: fallback}
}

// Name returns the model name
func (m *FallbackModel) Name() string {
	return fmt.Sprintf("fallback-%s", m.primary.Name())
}

// GenerateContent tries the primary model first, falls back to the
// secondary on rate limit
func (m *FallbackModel) GenerateContent(ctx context.Context, req *adkmodel.LLMRequest, stream bool) iter.Seq2[*adkmodel.LLMResponse, error] {
	return func(yield func(*adkmodel.LLMResponse, error) bool) {
		primaryFailed := false
		var primaryError error

		for resp, err := range m.primary.GenerateContent(ctx, req, stream) {
			if err != nil {
				if isRateLimitError(err) {
					log.Printf("[FallbackModel] Primary model rate limited: %v", err)
					primaryFailed = true
					primaryError = err
					break
				}
				// Other errors propagate immediately
				yield(nil, err)
				return
			}
			if !yield(resp, nil) {
				return
			}
		}

		if !primaryFailed {
			return
		}

		log.Printf("[FallbackModel] Switching to fallback model %s...", m.fallback.Name())

		for resp, err := range m.fallback.GenerateContent(ctx, req, stream) {
			if err != nil {
				yield(nil, fmt.Errorf("primary failed (%v), fallback failed (%v)", primaryError, err))
				return
			}
			if !yield(resp, nil) {
				return
			}
		}
	}
}

// isRateLimitError checks if an error is a rate limit error
func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "rate_limit")
}
