package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrScriptRequired     = errors.New("script is required")
	ErrTemplateDetected   = errors.New("template detected, use filled script")
	ErrUnsupportedCreator = errors.New("unsupported creator")
	ErrStepIncomplete     = errors.New("step has missing required fields")
	ErrJobNotRetryable    = errors.New("job is not retryable")
	ErrProviderFailure    = errors.New("provider failure")
)
