// Package sentiment implements keyword-based sentiment and buying-signal
// extraction over free-text message history.
package sentiment

import (
	"strings"

	"github.com/luxe-atelier/crm-insight/internal/model"
)

// Analysis is the result of analyzing one piece of text.
type Analysis struct {
	Sentiment  model.Sentiment `json:"sentiment"`
	Score      float64         `json:"score"`      // -1 to 1
	Confidence float64         `json:"confidence"` // 0 to 1
}

var positiveWords = map[string]bool{
	"great": true, "excellent": true, "amazing": true, "perfect": true,
	"love": true, "thank": true, "thanks": true, "awesome": true,
	"wonderful": true, "fantastic": true,
}

var negativeWords = map[string]bool{
	"terrible": true, "awful": true, "hate": true, "horrible": true,
	"worst": true, "angry": true, "frustrated": true, "disappointed": true,
	"upset": true, "annoyed": true,
}

// Analyze scores a text's polarity from fixed positive and negative word
// lists. The net keyword rate decides the label; score and confidence are
// scaled and clamped.
func Analyze(text string) Analysis {
	words := strings.Fields(strings.ToLower(text))

	var positive, negative int
	for _, w := range words {
		w = strings.Trim(w, ".,!?;:\"'")
		if positiveWords[w] {
			positive++
		} else if negativeWords[w] {
			negative++
		}
	}

	total := len(words)
	if total < 1 {
		total = 1
	}
	net := float64(positive-negative) / float64(total)

	label := model.SentimentNeutral
	if net > 0.1 {
		label = model.SentimentPositive
	} else if net < -0.1 {
		label = model.SentimentNegative
	}

	return Analysis{
		Sentiment:  label,
		Score:      model.Clamp(net*5, -1, 1),
		Confidence: model.Clamp01(float64(positive+negative) / float64(total) * 10),
	}
}

// signalPattern names one buying-signal category and the keywords that
// trigger it.
type signalPattern struct {
	name     string
	keywords []string
}

// buyingSignalPatterns is the fixed signal table. Declaration order is the
// output order, so results are deterministic.
var buyingSignalPatterns = []signalPattern{
	{"pricing_inquiry", []string{"price", "cost", "pricing", "how much", "quote"}},
	{"timeline_urgency", []string{"when", "timeline", "soon", "quickly", "deadline"}},
	{"decision_process", []string{"decide", "decision", "choose", "select", "approve"}},
	{"comparison_shopping", []string{"compare", "vs", "alternative", "competitor"}},
	{"implementation_questions", []string{"how to", "implement", "setup", "install"}},
	{"team_involvement", []string{"team", "colleagues", "discuss", "meeting"}},
	{"budget_allocation", []string{"budget", "invest", "purchase", "buy"}},
	{"trial_request", []string{"trial", "demo", "test", "try"}},
	{"specific_features", []string{"features", "capabilities", "functionality"}},
	{"support_questions", []string{"support", "training", "help", "assistance"}},
}

// DetectBuyingSignals returns the names of all signal patterns whose
// keywords appear in the concatenated message text.
func DetectBuyingSignals(messages []model.Message) []string {
	if len(messages) == 0 {
		return nil
	}

	var b strings.Builder
	for i, m := range messages {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(m.Content)
	}
	text := strings.ToLower(b.String())

	var signals []string
	for _, p := range buyingSignalPatterns {
		for _, kw := range p.keywords {
			if strings.Contains(text, kw) {
				signals = append(signals, p.name)
				break
			}
		}
	}
	return signals
}

// CountKeywords returns how many times any of the given keywords occur as a
// substring across the messages. Shared by the scoring factor functions.
func CountKeywords(messages []model.Message, keywords []string) int {
	var count int
	for _, m := range messages {
		text := strings.ToLower(m.Content)
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				count++
			}
		}
	}
	return count
}
