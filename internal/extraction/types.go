// Package extraction pulls the caller's appointment-slot choice out of a
// finished call transcript. It supports an LLM-backed extractor (the
// production path) and a heuristic pattern-based extractor usable offline.
package extraction

import (
	"context"
	"errors"
)

// ErrExtractionFailed is the single failure outcome of extraction. Provider
// errors, a missing time_choice_letter field, a label outside the known set
// and malformed model output are all collapsed into it; the wrapped message
// keeps them distinguishable in logs.
var ErrExtractionFailed = errors.New("time choice extraction failed")

// TimeChoice is the one structured field extracted from a transcript.
type TimeChoice struct {
	// Letter is the slot label the caller chose, always a member of the
	// label set the extractor was given.
	Letter string `json:"time_choice_letter"`
}

// Extractor extracts the caller's slot choice from transcript text.
type Extractor interface {
	// ExtractTimeChoice returns the chosen slot label, constrained to the
	// given label set. Any failure is reported as ErrExtractionFailed.
	ExtractTimeChoice(ctx context.Context, transcript string, labels []string) (TimeChoice, error)
}

// Config holds extractor configuration.
type Config struct {
	// Provider selects the extraction backend: "openai" or "heuristic".
	Provider string `json:"provider"`

	// OpenAI provider settings.
	Model   string `json:"model,omitempty"`
	APIKey  string `json:"api_key,omitempty"`
	BaseURL string `json:"base_url,omitempty"`
}

// DefaultConfig returns the default extractor configuration.
func DefaultConfig() Config {
	return Config{
		Provider: "openai",
		Model:    "gpt-4",
	}
}
