package extraction

import "fmt"

// New creates an extractor based on configuration.
func New(cfg Config) (Extractor, error) {
	switch cfg.Provider {
	case "", "openai":
		return newOpenAIExtractor(cfg)
	case "heuristic":
		return NewHeuristicExtractor(), nil
	default:
		return nil, fmt.Errorf("unknown extraction provider: %s", cfg.Provider)
	}
}

// validateLetter checks that a returned label belongs to the known set.
func validateLetter(letter string, labels []string) error {
	for _, l := range labels {
		if letter == l {
			return nil
		}
	}
	return fmt.Errorf("%w: label %q not in %v", ErrExtractionFailed, letter, labels)
}
