// Package script generates ad scripts from a copywriter prompt via an LLM
// endpoint, with a demo fallback so the flow never hard-fails.
package script

import "context"

// Generator produces a script for a prompt. Implementations must not return
// an error for vendor failures they can fall back from.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*Result, error)
}

// Result is a generated script plus provenance.
type Result struct {
	Script   string `json:"script"`
	Provider string `json:"provider"`
	// Fallback is true when the vendor call failed and the demo script was
	// substituted instead.
	Fallback bool `json:"fallback"`
	// FallbackReason names the failure that triggered the substitution.
	FallbackReason string `json:"fallback_reason,omitempty"`
}

// FallbackScript is the fixed demo script substituted whenever the LLM call
// fails. Keeping the flow moving matters more than the failure.
const FallbackScript = "HOOK: Are you tired of overpaying for insurance? BODY: Our customers save an average of $400 per year while getting better coverage and peace of mind with our A+ rated service. CTA: Call now for your free quote!"

const (
	openAIProviderName = "openai"
	staticProviderName = "static"
)

// StaticGenerator always returns the demo script. It backs development
// environments without an API key and is the terminal fallback.
type StaticGenerator struct{}

func NewStaticGenerator() *StaticGenerator {
	return &StaticGenerator{}
}

func (s *StaticGenerator) Generate(ctx context.Context, prompt string) (*Result, error) {
	return &Result{Script: FallbackScript, Provider: staticProviderName, Fallback: true}, nil
}

var _ Generator = (*StaticGenerator)(nil)
