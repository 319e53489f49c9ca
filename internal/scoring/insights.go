package scoring

import "github.com/luxe-atelier/crm-insight/internal/model"

// insightRule maps a factor condition to a human-readable insight. Rules are
// independent; every matching rule contributes.
type insightRule struct {
	when func(model.ScoringFactors, model.Client) bool
	text string
}

var insightRules = []insightRule{
	{
		when: func(f model.ScoringFactors, _ model.Client) bool { return f.EngagementScore > 70 },
		text: "High engagement level - actively communicating and responding",
	},
	{
		when: func(f model.ScoringFactors, _ model.Client) bool { return f.EngagementScore < 30 },
		text: "Low engagement - may need re-engagement strategy",
	},
	{
		when: func(f model.ScoringFactors, _ model.Client) bool { return f.BehaviorScore > 70 },
		text: "Strong buying signals detected in behavior patterns",
	},
	{
		when: func(f model.ScoringFactors, _ model.Client) bool { return f.BudgetScore > 60 },
		text: "Budget qualification looks positive",
	},
	{
		when: func(f model.ScoringFactors, _ model.Client) bool { return f.BudgetScore < 30 },
		text: "Budget concerns may need to be addressed",
	},
	{
		when: func(f model.ScoringFactors, _ model.Client) bool { return f.TimelineScore > 70 },
		text: "Urgent timeline - high priority for immediate follow-up",
	},
	{
		when: func(f model.ScoringFactors, _ model.Client) bool { return f.AuthorityScore < 40 },
		text: "May need to identify decision makers",
	},
	{
		when: func(f model.ScoringFactors, _ model.Client) bool { return f.NeedScore > 60 },
		text: "Clear pain points identified - good fit for solution",
	},
	{
		when: func(_ model.ScoringFactors, c model.Client) bool {
			return c.ConversionStage == model.StageIntent || c.ConversionStage == model.StageConsideration
		},
		text: "Client in active evaluation phase",
	},
}

// generateInsights never fails; no matching rule yields an empty list.
func generateInsights(factors model.ScoringFactors, client model.Client) []string {
	var insights []string
	for _, r := range insightRules {
		if r.when(factors, client) {
			insights = append(insights, r.text)
		}
	}
	return insights
}

// actionRule is one step in the next-best-action chain.
type actionRule struct {
	when   func(model.ScoringFactors, model.Client) bool
	action string
}

// actionRules is evaluated in order; the first match wins.
var actionRules = []actionRule{
	{
		when:   func(f model.ScoringFactors, _ model.Client) bool { return f.EngagementScore < 30 },
		action: "Re-engagement campaign - send value-added content",
	},
	{
		when:   func(f model.ScoringFactors, _ model.Client) bool { return f.BudgetScore < 40 && f.NeedScore > 60 },
		action: "Address budget concerns with ROI presentation",
	},
	{
		when:   func(f model.ScoringFactors, _ model.Client) bool { return f.TimelineScore > 70 },
		action: "Schedule immediate demo or proposal meeting",
	},
	{
		when:   func(f model.ScoringFactors, _ model.Client) bool { return f.AuthorityScore < 40 },
		action: "Identify and connect with decision makers",
	},
	{
		when: func(f model.ScoringFactors, c model.Client) bool {
			return c.ConversionStage == model.StageConsideration && f.InteractionQuality > 60
		},
		action: "Send detailed proposal with case studies",
	},
	{
		when:   func(_ model.ScoringFactors, c model.Client) bool { return c.ConversionStage == model.StageIntent },
		action: "Schedule closing conversation and address final concerns",
	},
	{
		when:   func(f model.ScoringFactors, _ model.Client) bool { return f.NeedScore > 70 && f.BehaviorScore > 60 },
		action: "Book product demonstration or pilot program",
	},
}

const nurtureFallback = "Continue nurturing with relevant content and regular check-ins"

// NextBestAction returns the highest-priority applicable action for a
// client, falling back to generic nurturing.
func NextBestAction(client model.Client, factors model.ScoringFactors) string {
	for _, r := range actionRules {
		if r.when(factors, client) {
			return r.action
		}
	}
	return nurtureFallback
}
