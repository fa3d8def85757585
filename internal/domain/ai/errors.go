package ai

import "errors"

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrNotConfigured means no API key was provided for the model.
var ErrNotConfigured = errors.New("openai api key not configured")

// ErrEmptyContract is returned when /analyze receives no text.
var ErrEmptyContract = errors.New("no contract text provided")
