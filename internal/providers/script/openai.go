package script

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	openAIDefaultTimeout = 30 * time.Second
	defaultOpenAIModel   = "gpt-5-2025-08-07"
	maxCompletionTokens  = 800

	systemPersona = "You are a world-class direct-response copywriter. Write natural, flowing ad scripts with perfect pacing and no section labels."
)

// OpenAIOptions configures the OpenAI-backed generator.
type OpenAIOptions struct {
	APIKey       string
	Model        string
	BaseURL      string
	Organization string
	HTTPClient   *http.Client
	// OnFallback is invoked with the failure reason whenever the demo script
	// is substituted.
	OnFallback func(reason string, err error)
}

// OpenAIGenerator calls the chat-completions endpoint and substitutes the
// demo script on any failure.
type OpenAIGenerator struct {
	apiKey       string
	model        string
	baseURL      string
	organization string
	client       *http.Client
	onFallback   func(reason string, err error)
}

type openAIChatRequest struct {
	Model               string          `json:"model"`
	Messages            []openAIMessage `json:"messages"`
	MaxCompletionTokens int             `json:"max_completion_tokens,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func NewOpenAIGenerator(opts OpenAIOptions) (*OpenAIGenerator, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("openai api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultOpenAIModel
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: openAIDefaultTimeout}
	}
	return &OpenAIGenerator{
		apiKey:       strings.TrimSpace(opts.APIKey),
		model:        model,
		baseURL:      baseURL,
		organization: strings.TrimSpace(opts.Organization),
		client:       client,
		onFallback:   opts.OnFallback,
	}, nil
}

func (o *OpenAIGenerator) Generate(ctx context.Context, prompt string) (*Result, error) {
	payload := openAIChatRequest{
		Model:               o.model,
		MaxCompletionTokens: maxCompletionTokens,
		Messages: []openAIMessage{
			{Role: "system", Content: systemPersona},
			{Role: "user", Content: prompt},
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return o.useFallback("encode_request", err)
	}
	endpoint := fmt.Sprintf("%s/chat/completions", o.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return o.useFallback("build_request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	if o.organization != "" {
		httpReq.Header.Set("OpenAI-Organization", o.organization)
	}
	resp, err := o.client.Do(httpReq)
	if err != nil {
		return o.useFallback("http_request", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return o.useFallback(fmt.Sprintf("http_%d", resp.StatusCode), fmt.Errorf("openai status %d", resp.StatusCode))
	}
	var out openAIChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return o.useFallback("decode_response", err)
	}
	if len(out.Choices) == 0 {
		return o.useFallback("empty_choices", errors.New("no choices"))
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return o.useFallback("empty_response", errors.New("empty response"))
	}
	return &Result{Script: text, Provider: openAIProviderName}, nil
}

func (o *OpenAIGenerator) useFallback(reason string, err error) (*Result, error) {
	if o.onFallback != nil {
		o.onFallback(reason, err)
	}
	return &Result{
		Script:         FallbackScript,
		Provider:       staticProviderName,
		Fallback:       true,
		FallbackReason: reason,
	}, nil
}

var _ Generator = (*OpenAIGenerator)(nil)
