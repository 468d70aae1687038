package script

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newTestGenerator(t *testing.T, transport roundTripFunc, onFallback func(string, error)) *OpenAIGenerator {
	t.Helper()
	gen, err := NewOpenAIGenerator(OpenAIOptions{
		APIKey:     "dummy",
		HTTPClient: &http.Client{Transport: transport},
		OnFallback: onFallback,
	})
	if err != nil {
		t.Fatalf("NewOpenAIGenerator returned error: %v", err)
	}
	return gen
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestOpenAIGenerateSuccess(t *testing.T) {
	var captured openAIChatRequest
	gen := newTestGenerator(t, func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer dummy" {
			t.Fatalf("Authorization = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		return jsonResponse(http.StatusOK, `{"choices":[{"message":{"content":"  A crisp ad script.  "}}]}`), nil
	}, nil)

	res, err := gen.Generate(context.Background(), "write me an ad")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if res.Script != "A crisp ad script." {
		t.Fatalf("Script = %q", res.Script)
	}
	if res.Provider != openAIProviderName || res.Fallback {
		t.Fatalf("provenance = %+v", res)
	}
	if captured.Model != defaultOpenAIModel {
		t.Fatalf("model = %q, want %q", captured.Model, defaultOpenAIModel)
	}
	if captured.MaxCompletionTokens != maxCompletionTokens {
		t.Fatalf("max tokens = %d", captured.MaxCompletionTokens)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" {
		t.Fatalf("messages = %+v", captured.Messages)
	}
}

func TestOpenAIGenerateFallsBack(t *testing.T) {
	tests := []struct {
		name      string
		transport roundTripFunc
		reason    string
	}{
		{
			name: "transport error",
			transport: func(r *http.Request) (*http.Response, error) {
				return nil, errors.New("boom")
			},
			reason: "http_request",
		},
		{
			name: "http 500",
			transport: func(r *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusInternalServerError, `{}`), nil
			},
			reason: "http_500",
		},
		{
			name: "malformed body",
			transport: func(r *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `not json`), nil
			},
			reason: "decode_response",
		},
		{
			name: "no choices",
			transport: func(r *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `{"choices":[]}`), nil
			},
			reason: "empty_choices",
		},
		{
			name: "blank content",
			transport: func(r *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `{"choices":[{"message":{"content":"   "}}]}`), nil
			},
			reason: "empty_response",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var capturedReason string
			gen := newTestGenerator(t, tc.transport, func(reason string, err error) {
				capturedReason = reason
			})
			res, err := gen.Generate(context.Background(), "write me an ad")
			if err != nil {
				t.Fatalf("Generate returned error: %v", err)
			}
			if !res.Fallback || res.Script != FallbackScript {
				t.Fatalf("expected demo fallback, got %+v", res)
			}
			if res.FallbackReason != tc.reason || capturedReason != tc.reason {
				t.Fatalf("reason = %q (callback %q), want %q", res.FallbackReason, capturedReason, tc.reason)
			}
		})
	}
}

func TestNewOpenAIGeneratorRequiresKey(t *testing.T) {
	if _, err := NewOpenAIGenerator(OpenAIOptions{}); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestStaticGenerator(t *testing.T) {
	res, err := NewStaticGenerator().Generate(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if res.Script != FallbackScript || !res.Fallback || res.Provider != staticProviderName {
		t.Fatalf("unexpected result: %+v", res)
	}
}
