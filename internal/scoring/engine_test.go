package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxe-atelier/crm-insight/internal/config"
	"github.com/luxe-atelier/crm-insight/internal/model"
)

var fixedNow = time.Date(2026, time.May, 12, 10, 0, 0, 0, time.UTC)

func testConfig() config.ScoringConfig {
	return config.ScoringConfig{
		EngagementWeight:   0.25,
		BehaviorWeight:     0.20,
		DemographicsWeight: 0.15,
		InteractionWeight:  0.15,
		TimelineWeight:     0.10,
		BudgetWeight:       0.10,
		AuthorityWeight:    0.05,
		NeedWeight:         0.10,
		LuxuryMarkets:      []string{"dubai", "geneva", "hong kong", "singapore", "monaco", "zurich"},
		BulkConcurrency:    5,
	}
}

func testEngine() *Engine {
	e := NewEngine(testConfig())
	e.Now = func() time.Time { return fixedNow }
	return e
}

func daysAgo(d int) time.Time {
	return fixedNow.Add(-time.Duration(d) * 24 * time.Hour)
}

func msgAt(content string, ts time.Time) model.Message {
	return model.Message{Content: content, Timestamp: ts}
}

func TestScoreEmptyHistory(t *testing.T) {
	e := testEngine()

	result := e.Score(model.Client{ID: "c1"}, nil, nil, nil)

	assert.GreaterOrEqual(t, result.Score, 0)
	assert.LessOrEqual(t, result.Score, 100)
	assert.Zero(t, result.Factors.EngagementScore)
	assert.Zero(t, result.Factors.InteractionQuality)
	assert.Zero(t, result.Factors.NeedScore)
	// Baseline factors still contribute from their neutral starting points.
	assert.Equal(t, 50.0, result.Factors.DemographicScore)
	assert.Equal(t, 50.0, result.Factors.TimelineScore)
	assert.Equal(t, 50.0, result.Factors.AuthorityScore)
}

func TestScoreDeterministic(t *testing.T) {
	e := testEngine()
	client := model.Client{ID: "c1", Budget: 60_000, ConversionStage: model.StageInterest}
	messages := []model.Message{
		msgAt("What is the price of the GMT?", daysAgo(2)),
		msgAt("I need to decide soon", daysAgo(1)),
	}

	first := e.Score(client, messages, nil, nil)
	second := e.Score(client, messages, nil, nil)
	assert.Equal(t, first, second)
}

func TestScoreAllFactorsInRange(t *testing.T) {
	e := testEngine()
	last := daysAgo(1)
	client := model.Client{
		ID:                "c1",
		Location:          "Dubai Marina",
		Priority:          model.PriorityVIP,
		Budget:            900_000,
		Timeframe:         model.TimeframeImmediate,
		DecisionMaker:     true,
		FollowUpRequired:  true,
		SentimentScore:    0.9,
		ConversionStage:   model.StagePurchase,
		TotalInteractions: 40,
		LastInteraction:   &last,
	}
	content := "I love it, the price is absolutely worth it for a piece of this quality. " +
		"My team and I decide this week, budget approved, need the demo urgently. " +
		"How does the warranty compare to competitor options, and can you hold one for me at the boutique?"
	var messages []model.Message
	for i := 0; i < 20; i++ {
		m := msgAt(content, daysAgo(i))
		m.Sentiment = model.SentimentPositive
		messages = append(messages, m)
	}
	interactions := []model.Interaction{
		{Outcome: model.OutcomePositive},
		{Outcome: model.OutcomePositive},
		{Outcome: model.OutcomePositive},
	}

	result := e.Score(client, messages, interactions, nil)

	assert.Equal(t, 100, result.Score)
	for _, f := range []float64{
		result.Factors.EngagementScore,
		result.Factors.BehaviorScore,
		result.Factors.DemographicScore,
		result.Factors.InteractionQuality,
		result.Factors.TimelineScore,
		result.Factors.BudgetScore,
		result.Factors.AuthorityScore,
		result.Factors.NeedScore,
	} {
		assert.GreaterOrEqual(t, f, 0.0)
		assert.LessOrEqual(t, f, 100.0)
	}
}

func TestEngagementMonotonicInInteractions(t *testing.T) {
	e := testEngine()
	last := daysAgo(3)

	prev := -1.0
	for _, n := range []int{0, 2, 5, 10} {
		client := model.Client{TotalInteractions: n, LastInteraction: &last}
		got := e.engagementScore(fixedNow, client, nil)
		assert.GreaterOrEqual(t, got, prev, "interactions=%d", n)
		prev = got
	}
}

func TestEngagementRecencyPenalty(t *testing.T) {
	e := testEngine()

	fresh := daysAgo(0)
	stale := daysAgo(45)

	active := e.engagementScore(fixedNow, model.Client{TotalInteractions: 5, LastInteraction: &fresh}, nil)
	dormant := e.engagementScore(fixedNow, model.Client{TotalInteractions: 5, LastInteraction: &stale}, nil)
	assert.Greater(t, active, dormant)
}

func TestBehaviorSignalMonotonic(t *testing.T) {
	client := model.Client{ConversionStage: model.StageInterest}
	base := msgs2("hello there", "checking in")

	without := behaviorScore(client, base)
	with := behaviorScore(client, append(base, msgAt("what is the price?", daysAgo(1))))
	assert.GreaterOrEqual(t, with, without)
}

func msgs2(contents ...string) []model.Message {
	out := make([]model.Message, len(contents))
	for i, c := range contents {
		out[i] = msgAt(c, daysAgo(i+1))
	}
	return out
}

func TestBehaviorStageLadder(t *testing.T) {
	prev := -1.0
	for _, stage := range []model.ConversionStage{
		model.StageAwareness, model.StageInterest, model.StageConsideration,
		model.StageIntent, model.StagePurchase,
	} {
		got := behaviorScore(model.Client{ConversionStage: stage}, nil)
		assert.GreaterOrEqual(t, got, prev, "stage %s", stage)
		prev = got
	}
}

func TestBehaviorCadenceBonus(t *testing.T) {
	client := model.Client{}

	// Perfectly regular daily cadence: variance 0 < mean/2.
	var regular []model.Message
	for i := 0; i < 6; i++ {
		regular = append(regular, msgAt("hi", daysAgo(i)))
	}
	// Erratic: bursts then silence.
	erratic := []model.Message{
		msgAt("hi", daysAgo(0)),
		msgAt("hi", daysAgo(0).Add(-time.Minute)),
		msgAt("hi", daysAgo(0).Add(-2*time.Minute)),
		msgAt("hi", daysAgo(25)),
		msgAt("hi", daysAgo(60)),
	}

	assert.Greater(t, behaviorScore(client, regular), behaviorScore(client, erratic))
}

func TestDemographicScore(t *testing.T) {
	e := testEngine()

	tests := []struct {
		name   string
		client model.Client
		want   float64
	}{
		{"baseline", model.Client{}, 50},
		{"luxury market substring", model.Client{Location: "Dubai Marina, UAE"}, 70},
		{"case insensitive market", model.Client{Location: "GENEVA"}, 70},
		{"non-luxury location", model.Client{Location: "Springfield"}, 50},
		{"vip priority", model.Client{Priority: model.PriorityVIP}, 80},
		{"medium priority", model.Client{Priority: model.PriorityMedium}, 60},
		{"big budget", model.Client{Budget: 150_000}, 70},
		{"stacked to clamp", model.Client{Location: "Monaco", Priority: model.PriorityVIP, Budget: 200_000}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.demographicScore(tt.client))
		})
	}
}

func TestInteractionQuality(t *testing.T) {
	interactions := []model.Interaction{
		{Outcome: model.OutcomePositive},
		{Outcome: model.OutcomePositive},
		{Outcome: model.OutcomeNegative},
		{Outcome: model.OutcomeNeutral},
	}
	messages := []model.Message{
		{Content: "short", Sentiment: model.SentimentPositive},
		{Content: "short", Sentiment: model.SentimentNeutral},
	}

	// 2/4 positive outcomes -> 20, 1/2 positive sentiment -> 15, no deep messages.
	got := interactionQuality(interactions, messages)
	assert.InDelta(t, 35.0, got, 0.01)

	assert.Zero(t, interactionQuality(nil, nil))
}

func TestTimelineScore(t *testing.T) {
	tests := []struct {
		name     string
		client   model.Client
		messages []model.Message
		want     float64
	}{
		{"baseline", model.Client{}, nil, 50},
		{"one urgency mention", model.Client{}, msgs2("I need it soon"), 65},
		{"three urgency mentions", model.Client{}, msgs2("urgent", "asap please", "need it now"), 80},
		{"immediate timeframe", model.Client{Timeframe: model.TimeframeImmediate}, nil, 90},
		{"follow-up flag", model.Client{FollowUpRequired: true}, nil, 60},
		{"stacked to clamp", model.Client{Timeframe: model.TimeframeImmediate, FollowUpRequired: true}, msgs2("urgent", "asap", "immediately"), 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, timelineScore(tt.client, tt.messages))
		})
	}
}

func TestTimelineOnlyLastTenMessagesCount(t *testing.T) {
	var messages []model.Message
	messages = append(messages, msgAt("this is urgent!", daysAgo(20)))
	for i := 0; i < 10; i++ {
		messages = append(messages, msgAt("no rush at all", daysAgo(i)))
	}

	// The urgent message is the 11th from the end and must be ignored.
	assert.Equal(t, 50.0, timelineScore(model.Client{}, messages))
}

func TestBudgetScoreTiers(t *testing.T) {
	tests := []struct {
		budget float64
		want   float64
	}{
		{600_000, 40},
		{100_000, 30},
		{50_000, 20},
		{10_000, 10},
		{5_000, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, budgetScore(model.Client{Budget: tt.budget}, nil), "budget %.0f", tt.budget)
	}
}

func TestBudgetScorePriceSentiment(t *testing.T) {
	positive := msgs2("the quality is worth it")
	negative := msgs2("too expensive, any discount?")

	assert.Greater(t, budgetScore(model.Client{}, positive), budgetScore(model.Client{}, negative))
	// Negative price talk alone cannot push the factor below zero.
	assert.GreaterOrEqual(t, budgetScore(model.Client{}, negative), 0.0)
}

func TestAuthorityScore(t *testing.T) {
	assert.Equal(t, 50.0, authorityScore(model.Client{}, nil))
	assert.Equal(t, 80.0, authorityScore(model.Client{DecisionMaker: true}, nil))

	withKeywords := authorityScore(model.Client{}, msgs2("I will decide after board approval", "as the ceo I sign off"))
	assert.Greater(t, withKeywords, 50.0)
	assert.LessOrEqual(t, withKeywords, 100.0)
}

func TestNeedScore(t *testing.T) {
	assert.Zero(t, needScore(nil))

	got := needScore(msgs2(
		"we have a problem that needs a solution",
		"how does it compare to other options?",
		"can you help us improve?",
	))
	assert.Greater(t, got, 0.0)
	assert.LessOrEqual(t, got, 100.0)
}

func TestScoreWeightsRespectConfig(t *testing.T) {
	// All weight on demographics: empty-history client scores exactly the
	// demographic baseline.
	cfg := testConfig()
	cfg.EngagementWeight = 0
	cfg.BehaviorWeight = 0
	cfg.DemographicsWeight = 1
	cfg.InteractionWeight = 0
	cfg.TimelineWeight = 0
	cfg.BudgetWeight = 0
	cfg.AuthorityWeight = 0
	cfg.NeedWeight = 0

	e := NewEngine(cfg)
	e.Now = func() time.Time { return fixedNow }

	result := e.Score(model.Client{Priority: model.PriorityHigh}, nil, nil, nil)
	require.Equal(t, 70, result.Score)
}
