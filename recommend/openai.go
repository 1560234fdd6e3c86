package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"go-ecoagent/types"
)

const maxSummaryLength = 6000 // rough character limit for the prompt

// OpenAISummarizer asks a chat model for optimization recommendations.
type OpenAISummarizer struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

func NewOpenAISummarizer(apiKey, model string, logger *zap.Logger) *OpenAISummarizer {
	if model == "" {
		model = openai.GPT4oMini
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAISummarizer{client: openai.NewClient(apiKey), model: model, logger: logger}
}

func (s *OpenAISummarizer) Summarize(ctx context.Context, entityKind, entityID string, summary any) ([]string, error) {
	payload, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("marshal %s summary: %w", entityKind, err)
	}
	metricsJSON := string(payload)
	if len(metricsJSON) > maxSummaryLength {
		metricsJSON = metricsJSON[:maxSummaryLength]
	}

	prompt := fmt.Sprintf(
		"Current metrics for %s %q on a university campus:\n\n%s\n\nSuggest up to 3 concrete energy or water optimization actions for this %s. One action per line, plain text, no numbering. Mention expected impact where the data supports it.",
		entityKind, entityID, metricsJSON, entityKind,
	)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You are a facilities-management assistant that proposes concise, actionable energy and water saving measures for campus buildings.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens:   200,
			N:           1,
			Temperature: 0.5,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: openai chat completion: %v", types.ErrModelUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	return splitRecommendations(resp.Choices[0].Message.Content), nil
}

// splitRecommendations turns the model's reply into one string per
// action, stripping list markers the model tends to add anyway.
func splitRecommendations(content string) []string {
	lines := strings.Split(content, "\n")
	recs := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*•0123456789. ")
		if line == "" {
			continue
		}
		recs = append(recs, line)
	}
	return recs
}
