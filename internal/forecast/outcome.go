package forecast

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/luxe-atelier/crm-insight/internal/model"
)

// Outcome is a per-deal prediction.
type Outcome struct {
	Probability   float64  `json:"probability"`
	ExpectedValue float64  `json:"expected_value"`
	TimeToClose   int      `json:"time_to_close_days"`
	RiskFactors   []string `json:"risk_factors"`
}

// stageDurations holds average days a deal spends in each funnel stage.
var stageDurations = map[model.DealStage]int{
	model.DealProspecting:   14,
	model.DealQualification: 21,
	model.DealProposal:      28,
	model.DealNegotiation:   14,
}

var stageMultipliers = map[model.DealStage]float64{
	model.DealProspecting:   0.8,
	model.DealQualification: 0.9,
	model.DealProposal:      1.0,
	model.DealNegotiation:   1.1,
}

// PredictDealOutcome estimates close probability, expected value, days to
// close and risk factors for a single deal. similar should hold closed deals
// of comparable value, see SimilarDeals.
func (e *Engine) PredictDealOutcome(deal model.Deal, client model.Client, similar []model.Deal) Outcome {
	probability := deal.Probability

	// Unscored clients count as average rather than dragging the estimate
	// to the floor.
	leadScore := client.LeadScore
	if leadScore == 0 {
		leadScore = 50
	}
	probability *= 0.5 + leadScore/100

	if mult, ok := stageMultipliers[deal.Stage]; ok {
		probability *= mult
	}
	probability = model.Clamp01(probability)

	timeToClose := remainingStageDays(deal.Stage)
	if avg, ok := averageCloseDays(similar); ok {
		timeToClose = (timeToClose + avg) / 2
	}

	risks := riskFactors(deal, client, timeToClose, e.Now())

	outcome := Outcome{
		Probability:   probability,
		ExpectedValue: math.Round(deal.Value * probability),
		TimeToClose:   int(math.Round(timeToClose)),
		RiskFactors:   risks,
	}

	zap.L().Debug("forecast: deal outcome predicted",
		zap.String("deal_id", deal.ID),
		zap.Float64("probability", outcome.Probability),
		zap.Int("time_to_close", outcome.TimeToClose),
		zap.Int("risk_factors", len(risks)),
	)

	return outcome
}

// remainingStageDays sums the expected duration of every funnel stage after
// the deal's current one. Closed deals have nothing remaining.
func remainingStageDays(stage model.DealStage) float64 {
	idx := stage.FunnelIndex()
	if idx < 0 {
		return 0
	}
	var days int
	for i := idx + 1; i < len(model.FunnelOrder); i++ {
		days += stageDurations[model.FunnelOrder[i]]
	}
	return float64(days)
}

// averageCloseDays is the mean creation-to-close duration over deals that
// actually closed. The second return is false when none did.
func averageCloseDays(deals []model.Deal) (float64, bool) {
	var sum float64
	var n int
	for _, d := range deals {
		if d.ActualCloseDate == nil {
			continue
		}
		sum += d.ActualCloseDate.Sub(d.CreatedAt).Hours() / 24
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func riskFactors(deal model.Deal, client model.Client, timeToClose float64, now time.Time) []string {
	var risks []string
	if client.EngagementLevel == model.EngagementLow {
		risks = append(risks, "Low client engagement")
	}
	if client.SentimentScore < -0.2 {
		risks = append(risks, "Negative sentiment trend")
	}
	if !client.DecisionMaker {
		risks = append(risks, "Decision maker not identified")
	}
	if deal.CompetitorInfo != "" {
		risks = append(risks, "Competitive situation")
	}
	if timeToClose > 90 {
		risks = append(risks, "Extended sales cycle")
	}
	if !deal.UpdatedAt.IsZero() && now.Sub(deal.UpdatedAt).Hours()/24 > 14 {
		risks = append(risks, "Stalled deal - no recent activity")
	}
	return risks
}

// SimilarDeals filters candidates to closed deals whose value is within 30%
// of the reference deal.
func SimilarDeals(deal model.Deal, candidates []model.Deal) []model.Deal {
	var similar []model.Deal
	for _, c := range candidates {
		if c.ID == deal.ID || c.Stage.Active() {
			continue
		}
		if deal.Value > 0 && math.Abs(c.Value-deal.Value)/deal.Value <= 0.3 {
			similar = append(similar, c)
		}
	}
	return similar
}
