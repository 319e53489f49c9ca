package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/luxe-atelier/crm-insight/internal/model"
)

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		want      model.Sentiment
		scoreSign int
	}{
		{"clearly positive", "This is great, thank you!", model.SentimentPositive, 1},
		{"clearly negative", "This is terrible, I hate it", model.SentimentNegative, -1},
		{"neutral", "I will check the delivery schedule next week with the team at the boutique", model.SentimentNeutral, 0},
		{"empty text", "", model.SentimentNeutral, 0},
		{"punctuation stripped", "Great! Amazing!!", model.SentimentPositive, 1},
		{"mixed cancels out over long text", "great but the rest of this very long message is about something else entirely and dilutes the single positive word below threshold", model.SentimentNeutral, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(tt.text)
			assert.Equal(t, tt.want, got.Sentiment)
			switch tt.scoreSign {
			case 1:
				assert.Greater(t, got.Score, 0.0)
			case -1:
				assert.Less(t, got.Score, 0.0)
			default:
				assert.Zero(t, got.Score)
			}
			assert.GreaterOrEqual(t, got.Confidence, 0.0)
			assert.LessOrEqual(t, got.Confidence, 1.0)
		})
	}
}

func TestAnalyzeScoreClamped(t *testing.T) {
	// Every word positive drives the raw rate far above 1 before clamping.
	got := Analyze("great amazing perfect wonderful fantastic")
	assert.Equal(t, model.SentimentPositive, got.Sentiment)
	assert.Equal(t, 1.0, got.Score)
	assert.Equal(t, 1.0, got.Confidence)
}

func TestAnalyzeDeterministic(t *testing.T) {
	text := "I love this watch but the price is frustrating"
	assert.Equal(t, Analyze(text), Analyze(text))
}

func msgs(contents ...string) []model.Message {
	out := make([]model.Message, len(contents))
	for i, c := range contents {
		out[i] = model.Message{Content: c}
	}
	return out
}

func TestDetectBuyingSignals(t *testing.T) {
	tests := []struct {
		name     string
		messages []model.Message
		want     []string
	}{
		{"no messages", nil, nil},
		{"no signals", msgs("hello there"), nil},
		{
			"pricing inquiry",
			msgs("What is the price of the Daytona?"),
			[]string{"pricing_inquiry"},
		},
		{
			"multiple signals ordered by table",
			msgs("How much would it cost?", "I need to discuss with my team before we decide"),
			[]string{"pricing_inquiry", "decision_process", "team_involvement"},
		},
		{
			"signal spans messages",
			msgs("can we set up a", "demo next week"),
			[]string{"trial_request"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectBuyingSignals(tt.messages))
		})
	}
}

func TestCountKeywords(t *testing.T) {
	messages := msgs(
		"What is your budget for this?",
		"The price seems fair, within budget",
		"no keywords here",
	)
	// "budget" hits twice (once per message), "price" once.
	assert.Equal(t, 3, CountKeywords(messages, []string{"budget", "price"}))
	assert.Equal(t, 0, CountKeywords(nil, []string{"budget"}))
	assert.Equal(t, 0, CountKeywords(messages, nil))
}
