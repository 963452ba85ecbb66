package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
	"golang.org/x/time/rate"
)

// Rate limiter defaults: 50 requests per minute.
const (
	defaultRateLimit = 50.0 / 60.0
	defaultBurst     = 5
)

// extractPrompt constrains the model to the one-field schema the follow-up
// text needs. The schema is deliberately minimal: the transcript also holds
// name, insurance, referral and reason for visit, but extracting those is
// future scope.
const extractPrompt = `You are reading the transcript of a phone call in which a caller picked an appointment slot from a list of lettered options (%s).

Extract which option letter the caller chose. Respond ONLY with a JSON object of the form:

{"time_choice_letter": "<letter>"}

No additional text.`

// openAIExtractor implements Extractor using an OpenAI chat model via
// langchaingo.
type openAIExtractor struct {
	llm     *openai.LLM
	limiter *rate.Limiter
}

// newOpenAIExtractor creates an LLM-backed extractor.
func newOpenAIExtractor(cfg Config) (Extractor, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key required")
	}

	model := cfg.Model
	if model == "" {
		model = DefaultConfig().Model
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}

	return &openAIExtractor{
		llm:     llm,
		limiter: rate.NewLimiter(rate.Limit(defaultRateLimit), defaultBurst),
	}, nil
}

// ExtractTimeChoice asks the model for the caller's chosen option letter.
func (o *openAIExtractor) ExtractTimeChoice(ctx context.Context, transcript string, labels []string) (TimeChoice, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return TimeChoice{}, fmt.Errorf("rate limiter error: %w", err)
	}

	system := fmt.Sprintf(extractPrompt, strings.Join(labels, ", "))

	resp, err := o.llm.GenerateContent(ctx,
		[]llms.MessageContent{
			llms.TextParts(schema.ChatMessageTypeSystem, system),
			llms.TextParts(schema.ChatMessageTypeHuman, transcript),
		},
		llms.WithTemperature(0),
	)
	if err != nil {
		return TimeChoice{}, fmt.Errorf("%w: provider error: %v", ErrExtractionFailed, err)
	}
	if len(resp.Choices) == 0 {
		return TimeChoice{}, fmt.Errorf("%w: empty response from model", ErrExtractionFailed)
	}

	choice, err := parseTimeChoiceJSON(resp.Choices[0].Content)
	if err != nil {
		return TimeChoice{}, err
	}
	if err := validateLetter(choice.Letter, labels); err != nil {
		return TimeChoice{}, err
	}
	return choice, nil
}

// parseTimeChoiceJSON parses the model response into a TimeChoice.
func parseTimeChoiceJSON(content string) (TimeChoice, error) {
	// Models sometimes wrap JSON in markdown code blocks.
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var choice TimeChoice
	if err := json.Unmarshal([]byte(content), &choice); err != nil {
		return TimeChoice{}, fmt.Errorf("%w: malformed model response: %v", ErrExtractionFailed, err)
	}
	if choice.Letter == "" {
		return TimeChoice{}, fmt.Errorf("%w: response missing time_choice_letter", ErrExtractionFailed)
	}
	return choice, nil
}

var _ Extractor = (*openAIExtractor)(nil)
