// Package scoring implements the deterministic lead scoring engine: eight
// weighted sub-scores combined into a 0-100 composite with explainable
// insights and a next-best-action recommendation.
package scoring

import (
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/luxe-atelier/crm-insight/internal/config"
	"github.com/luxe-atelier/crm-insight/internal/model"
	"github.com/luxe-atelier/crm-insight/internal/sentiment"
)

// Result holds the outcome of one scoring run.
type Result struct {
	Score    int                  `json:"score"`
	Factors  model.ScoringFactors `json:"factors"`
	Insights []string             `json:"insights"`
}

// Engine computes lead scores. It is stateless; Now is injectable so
// recency windows are deterministic in tests.
type Engine struct {
	cfg config.ScoringConfig
	Now func() time.Time
}

// NewEngine creates a scoring engine with the given weights.
func NewEngine(cfg config.ScoringConfig) *Engine {
	return &Engine{cfg: cfg, Now: time.Now}
}

// Score computes the weighted lead score for a client from their message,
// interaction and deal history. It never fails: empty histories produce the
// documented floor values.
func (e *Engine) Score(client model.Client, messages []model.Message, interactions []model.Interaction, deals []model.Deal) Result {
	now := e.Now()

	factors := model.ScoringFactors{
		EngagementScore:    e.engagementScore(now, client, messages),
		BehaviorScore:      behaviorScore(client, messages),
		DemographicScore:   e.demographicScore(client),
		InteractionQuality: interactionQuality(interactions, messages),
		TimelineScore:      timelineScore(client, messages),
		BudgetScore:        budgetScore(client, messages),
		AuthorityScore:     authorityScore(client, messages),
		NeedScore:          needScore(messages),
	}

	weighted := factors.EngagementScore*e.cfg.EngagementWeight +
		factors.BehaviorScore*e.cfg.BehaviorWeight +
		factors.DemographicScore*e.cfg.DemographicsWeight +
		factors.InteractionQuality*e.cfg.InteractionWeight +
		factors.TimelineScore*e.cfg.TimelineWeight +
		factors.BudgetScore*e.cfg.BudgetWeight +
		factors.AuthorityScore*e.cfg.AuthorityWeight +
		factors.NeedScore*e.cfg.NeedWeight

	score := int(model.Clamp(math.Round(weighted), 0, 100))

	zap.L().Debug("scoring: client scored",
		zap.String("client_id", client.ID),
		zap.Int("score", score),
		zap.Float64("engagement", factors.EngagementScore),
		zap.Float64("behavior", factors.BehaviorScore),
	)

	return Result{
		Score:    score,
		Factors:  factors,
		Insights: generateInsights(factors, client),
	}
}

// engagementScore rewards message frequency, message depth, total
// interaction count and recency of contact.
func (e *Engine) engagementScore(now time.Time, client model.Client, messages []model.Message) float64 {
	var score float64

	var recent int
	for _, m := range messages {
		if now.Sub(m.Timestamp) <= 30*24*time.Hour {
			recent++
		}
	}

	perWeek := float64(recent) / 4
	switch {
	case perWeek >= 5:
		score += 30
	case perWeek >= 2:
		score += 20
	case perWeek >= 0.5:
		score += 10
	}

	var totalLen int
	for _, m := range messages {
		totalLen += len(m.Content)
	}
	avgLen := float64(totalLen) / math.Max(float64(len(messages)), 1)
	if avgLen > 100 {
		score += 20
	} else if avgLen > 50 {
		score += 10
	}

	switch {
	case client.TotalInteractions >= 10:
		score += 30
	case client.TotalInteractions >= 5:
		score += 20
	case client.TotalInteractions >= 2:
		score += 10
	}

	daysSince := 999.0
	if client.LastInteraction != nil {
		daysSince = now.Sub(*client.LastInteraction).Hours() / 24
	}
	switch {
	case daysSince <= 1:
		score += 20
	case daysSince <= 7:
		score += 10
	case daysSince > 30:
		score -= 20
	}

	return model.Clamp(score, 0, 100)
}

// stageScores maps the client-level funnel position to a behavior bonus.
var stageScores = map[model.ConversionStage]float64{
	model.StageAwareness:     10,
	model.StageInterest:      25,
	model.StageConsideration: 50,
	model.StageIntent:        75,
	model.StagePurchase:      100,
}

// behaviorScore combines sentiment, detected buying signals, funnel
// progression and cadence consistency.
func behaviorScore(client model.Client, messages []model.Message) float64 {
	var score float64

	switch {
	case client.SentimentScore > 0.3:
		score += 25
	case client.SentimentScore > 0:
		score += 15
	case client.SentimentScore < -0.3:
		score -= 15
	}

	signals := sentiment.DetectBuyingSignals(messages)
	score += math.Min(30, float64(len(signals))*10)

	score += stageScores[client.ConversionStage]

	// Consistent cadence (low interval variance) gets a boost.
	if len(messages) >= 5 {
		ts := make([]float64, 0, len(messages))
		for _, m := range messages {
			ts = append(ts, float64(m.Timestamp.UnixMilli()))
		}
		sort.Float64s(ts)

		intervals := make([]float64, 0, len(ts)-1)
		for i := 1; i < len(ts); i++ {
			intervals = append(intervals, ts[i]-ts[i-1])
		}
		var mean float64
		for _, iv := range intervals {
			mean += iv
		}
		mean /= float64(len(intervals))
		var variance float64
		for _, iv := range intervals {
			variance += (iv - mean) * (iv - mean)
		}
		variance /= float64(len(intervals))
		if variance < mean*0.5 {
			score += 15
		}
	}

	return model.Clamp(score, 0, 100)
}

// priorityScores maps priority tiers to demographic bonuses.
var priorityScores = map[model.Priority]float64{
	model.PriorityVIP:      30,
	model.PriorityCritical: 25,
	model.PriorityHigh:     20,
	model.PriorityMedium:   10,
	model.PriorityLow:      0,
}

// demographicScore rates fit with the ideal customer profile: luxury-market
// location, priority tier and explicit budget.
func (e *Engine) demographicScore(client model.Client) float64 {
	score := 50.0

	if client.Location != "" && matchesLocation(client.Location, e.cfg.LuxuryMarkets) {
		score += 20
	}

	score += priorityScores[client.Priority]

	switch {
	case client.Budget > 100_000:
		score += 20
	case client.Budget > 50_000:
		score += 15
	case client.Budget > 10_000:
		score += 10
	}

	return model.Clamp(score, 0, 100)
}

func matchesLocation(location string, markets []string) bool {
	loc := strings.ToLower(location)
	for _, m := range markets {
		if m != "" && strings.Contains(loc, strings.ToLower(m)) {
			return true
		}
	}
	return false
}

// interactionQuality rates the positive-outcome ratio, positive-sentiment
// message ratio, and count of deep (long) messages.
func interactionQuality(interactions []model.Interaction, messages []model.Message) float64 {
	var score float64

	if len(interactions) > 0 {
		var positive int
		for _, i := range interactions {
			if i.Outcome == model.OutcomePositive {
				positive++
			}
		}
		score += float64(positive) / float64(len(interactions)) * 40
	}

	if len(messages) > 0 {
		var positive int
		for _, m := range messages {
			if m.Sentiment == model.SentimentPositive {
				positive++
			}
		}
		score += float64(positive) / float64(len(messages)) * 30
	}

	var deep int
	for _, m := range messages {
		if len(m.Content) > 200 {
			deep++
		}
	}
	score += math.Min(30, float64(deep)*5)

	return model.Clamp(score, 0, 100)
}

var urgencyKeywords = []string{"urgent", "soon", "quickly", "immediately", "asap", "now", "this week", "this month"}

var timeframeScores = map[model.Timeframe]float64{
	model.TimeframeImmediate:  40,
	model.TimeframeShortTerm:  30,
	model.TimeframeMediumTerm: 15,
	model.TimeframeLongTerm:   5,
}

// timelineScore rates urgency keywords in the last ten messages, the stated
// timeframe and pending follow-up.
func timelineScore(client model.Client, messages []model.Message) float64 {
	score := 50.0

	recent := messages
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}
	mentions := sentiment.CountKeywords(recent, urgencyKeywords)
	if mentions >= 3 {
		score += 30
	} else if mentions >= 1 {
		score += 15
	}

	score += timeframeScores[client.Timeframe]

	if client.FollowUpRequired {
		score += 10
	}

	return model.Clamp(score, 0, 100)
}

var (
	budgetKeywords        = []string{"budget", "investment", "price", "cost", "afford", "spend", "value"}
	pricePositiveKeywords = []string{"worth it", "investment", "quality", "value"}
	priceNegativeKeywords = []string{"expensive", "too much", "cheaper", "discount"}
)

// budgetScore rates explicit budget tiers plus budget and price-sentiment
// keyword mentions.
func budgetScore(client model.Client, messages []model.Message) float64 {
	var score float64

	switch {
	case client.Budget >= 500_000:
		score += 40
	case client.Budget >= 100_000:
		score += 30
	case client.Budget >= 50_000:
		score += 20
	case client.Budget >= 10_000:
		score += 10
	}

	score += math.Min(20, float64(sentiment.CountKeywords(messages, budgetKeywords))*5)

	positive := sentiment.CountKeywords(messages, pricePositiveKeywords)
	negative := sentiment.CountKeywords(messages, priceNegativeKeywords)
	score += float64(positive)*10 - float64(negative)*5

	return model.Clamp(score, 0, 100)
}

var (
	authorityKeywords = []string{"decide", "decision", "approve", "authorize", "my team", "we need", "board approval"}
	influenceKeywords = []string{"ceo", "director", "manager", "owner", "founder", "head of"}
)

// authorityScore rates decision-making authority from the decision-maker
// flag and authority/influence keyword mentions.
func authorityScore(client model.Client, messages []model.Message) float64 {
	score := 50.0

	if client.DecisionMaker {
		score += 30
	}

	score += math.Min(20, float64(sentiment.CountKeywords(messages, authorityKeywords))*10)
	score += math.Min(20, float64(sentiment.CountKeywords(messages, influenceKeywords))*10)

	return model.Clamp(score, 0, 100)
}

var (
	needKeywords        = []string{"problem", "issue", "challenge", "need", "solution", "help", "improve", "better"}
	solutionKeywords    = []string{"how does", "can you", "do you offer", "what about", "features", "capabilities"}
	competitionKeywords = []string{"competitor", "alternative", "compare", "vs", "versus", "other options"}
)

// needScore rates expressed pain points, solution inquiries and competition
// mentions.
func needScore(messages []model.Message) float64 {
	var score float64

	score += math.Min(40, float64(sentiment.CountKeywords(messages, needKeywords))*5)
	score += math.Min(30, float64(sentiment.CountKeywords(messages, solutionKeywords))*10)
	score += math.Min(30, float64(sentiment.CountKeywords(messages, competitionKeywords))*15)

	return model.Clamp(score, 0, 100)
}
