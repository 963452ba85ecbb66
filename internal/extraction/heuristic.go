package extraction

import (
	"context"
	"fmt"
	"regexp"
)

// choicePatterns match the ways callers state a lettered choice. Checked in
// order; the last match in the transcript wins, since callers correct
// themselves ("actually, make that B").
var choicePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\boption\s+([A-Z])\b`),
	regexp.MustCompile(`(?i)\bletter\s+([A-Z])\b`),
	regexp.MustCompile(`\b([A-Z])\)\s`),
	regexp.MustCompile(`(?i)(?:choose|pick|take|prefer|go with|want)\s+([A-Z])\b`),
	regexp.MustCompile(`\b([A-Z])\b`),
}

// HeuristicExtractor implements Extractor with pattern matching over the
// transcript text. It exists for offline operation and tests; the LLM
// extractor is the production path.
type HeuristicExtractor struct{}

// NewHeuristicExtractor creates a pattern-based extractor.
func NewHeuristicExtractor() *HeuristicExtractor {
	return &HeuristicExtractor{}
}

// ExtractTimeChoice scans the transcript for a stated option letter.
func (h *HeuristicExtractor) ExtractTimeChoice(_ context.Context, transcript string, labels []string) (TimeChoice, error) {
	allowed := make(map[string]bool, len(labels))
	for _, l := range labels {
		allowed[l] = true
	}

	for _, re := range choicePatterns {
		matches := re.FindAllStringSubmatch(transcript, -1)
		// Walk matches last-to-first so a correction overrides the
		// original choice.
		for i := len(matches) - 1; i >= 0; i-- {
			letter := normalizeLetter(matches[i][1])
			if allowed[letter] {
				return TimeChoice{Letter: letter}, nil
			}
		}
	}

	return TimeChoice{}, fmt.Errorf("%w: no option letter found in transcript", ErrExtractionFailed)
}

// normalizeLetter uppercases a single matched letter.
func normalizeLetter(s string) string {
	if len(s) == 1 && s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0] - 'a' + 'A')
	}
	return s
}

var _ Extractor = (*HeuristicExtractor)(nil)
