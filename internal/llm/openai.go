package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// openaiModels maps retired or aliased names to current OpenAI model IDs.
var openaiModels = map[string]string{
	"gpt-4-turbo-preview": "gpt-4-turbo",
	"gpt-4o-latest":       "gpt-4o",
}

// schemaMode is how a chat-completions API is asked for a question object.
type schemaMode int

const (
	// schemaStrict sends the schema as a strict json_schema response format.
	schemaStrict schemaMode = iota

	// schemaInPrompt asks for json_object output and appends the schema to
	// the system prompt, for APIs without json_schema support.
	schemaInPrompt
)

// OpenAIProvider talks to OpenAI's chat-completions API. OpenRouter and
// DeepSeek reuse it through their compatible endpoints.
type OpenAIProvider struct {
	client *openai.Client
	name   string
	model  string
	mode   schemaMode
}

// NewOpenAIProvider creates a provider for api.openai.com, or for
// cfg.BaseURL when set.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	return newChatProvider(ProviderOpenAI, cfg.APIKey, cfg.BaseURL, resolveModel(cfg.Model, openaiModels), schemaStrict), nil
}

func newChatProvider(name, apiKey, baseURL, model string, mode schemaMode) *OpenAIProvider {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		name:   name,
		model:  model,
		mode:   mode,
	}
}

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	chatReq := openai.ChatCompletionRequest{
		Model:               p.model,
		Messages:            p.messages(req),
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
	}

	if req.Schema != nil {
		switch p.mode {
		case schemaInPrompt:
			chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			}
		default:
			def, err := json.Marshal(req.Schema.Definition)
			if err != nil {
				return nil, fmt.Errorf("marshal schema: %w", err)
			}
			chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
				JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
					Name:   req.Schema.Name,
					Schema: json.RawMessage(def),
					Strict: true,
				},
			}
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, p.mapError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &Error{Kind: KindMalformed, Provider: p.name, Err: errors.New("no choices in response")}
	}

	choice := resp.Choices[0]
	content := extractJSON(choice.Message.Content)
	if choice.FinishReason == openai.FinishReasonLength {
		return nil, &Error{Kind: KindTruncated, Provider: p.name, Content: content}
	}
	if err := checkQuestion(p.name, req.Schema, content); err != nil {
		return nil, err
	}

	return &Response{
		Content: content,
		Usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
		Model:      resp.Model,
		StopReason: "end",
	}, nil
}

func (p *OpenAIProvider) ModelID() string {
	return p.model
}

func (p *OpenAIProvider) messages(req Request) []openai.ChatCompletionMessage {
	system := req.System
	if p.mode == schemaInPrompt && req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			system += "\n\nReply with a single JSON object matching this JSON Schema:\n" + string(def)
		}
	}

	var out []openai.ChatCompletionMessage
	if system != "" {
		out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}

func (p *OpenAIProvider) mapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return statusError(p.name, apiErr.HTTPStatusCode, 0, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode >= http.StatusBadRequest {
		return statusError(p.name, reqErr.HTTPStatusCode, 0, err)
	}
	return &Error{Kind: KindUnavailable, Provider: p.name, Err: err}
}
