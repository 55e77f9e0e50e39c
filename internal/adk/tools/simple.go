package tools

import (
	"context"
	"fmt"
)

// Simple implements the adk tool.Tool interface around a plain
// function. The call context is threaded through to Fn so tool bodies
// can honor request timeouts and cancellation.
type Simple struct {
	NameVal string
	DescVal string
	Fn      func(ctx context.Context, args map[string]interface{}) (string, error)
}

func (t *Simple) Name() string {
	return t.NameVal
}

func (t *Simple) Description() string {
	return t.DescVal
}

func (t *Simple) IsLongRunning() bool {
	return false
}

// Call executes the tool and wraps the result for ADK
func (t *Simple) Call(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
	if t.Fn == nil {
		return nil, fmt.Errorf("tool function not implemented")
	}
	result, err := t.Fn(ctx, args)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"result": result}, nil
}
