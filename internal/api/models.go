package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// DefaultModel is used when the user does not pick one.
const DefaultModel = "gpt-3.5-turbo"

// DefaultModels is shown when the models endpoint is unavailable.
var DefaultModels = []string{
	DefaultModel,
	"gpt-4-turbo-preview",
	"openai/gpt-4o",
	"deepseek-chat",
	"anthropic/claude-3-sonnet-20240229",
	"gemini/gemini-pro",
}

// SupportedModels fetches the model identifiers the API accepts. The body
// may be a JSON array of strings or an object with a "models" array.
func (c *Client) SupportedModels(ctx context.Context) ([]string, error) {
	raw, err := c.getBody(ctx, PathSupportedModels, nil)
	if err != nil {
		return nil, err
	}
	return parseModels(raw)
}

// ModelsOrDefault returns the supported models, or DefaultModels if they
// cannot be fetched.
func (c *Client) ModelsOrDefault(ctx context.Context) []string {
	models, err := c.SupportedModels(ctx)
	if err != nil || len(models) == 0 {
		c.logger.Warn("using built-in model list", zap.Error(err))
		return append([]string(nil), DefaultModels...)
	}
	return models
}

func parseModels(raw []byte) ([]string, error) {
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		var obj struct {
			Models []string `json:"models"`
		}
		if err2 := json.Unmarshal(raw, &obj); err2 != nil {
			return nil, fmt.Errorf("decode models: %w", err)
		}
		list = obj.Models
	}

	out := make([]string, 0, len(list))
	for _, m := range list {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	return out, nil
}
