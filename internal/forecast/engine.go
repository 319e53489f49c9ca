// Package forecast implements the sales forecasting engine: period revenue
// and deal-count prediction from pipeline state, lead quality, seasonality,
// sales velocity and historical forecast accuracy.
package forecast

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/luxe-atelier/crm-insight/internal/config"
	"github.com/luxe-atelier/crm-insight/internal/model"
	"github.com/luxe-atelier/crm-insight/internal/pipeline"
)

// Data is the full result of one forecast run.
type Data struct {
	Period           model.ForecastPeriod  `json:"period"`
	StartDate        time.Time             `json:"start_date"`
	EndDate          time.Time             `json:"end_date"`
	PredictedRevenue float64               `json:"predicted_revenue"`
	PredictedDeals   int                   `json:"predicted_deals"`
	Confidence       float64               `json:"confidence"`
	Factors          model.ForecastFactors `json:"factors"`
	Recommendations  []string              `json:"recommendations"`
	Pipeline         pipeline.Analysis     `json:"pipeline"`
}

// Methodology tags forecast records produced by this engine.
const Methodology = "pipeline_weighted_v1"

// Engine generates forecasts. Now is injectable so seasonal lookups and
// recency windows are deterministic in tests.
type Engine struct {
	cfg config.ForecastConfig
	Now func() time.Time
}

// NewEngine creates a forecasting engine.
func NewEngine(cfg config.ForecastConfig) *Engine {
	return &Engine{cfg: cfg, Now: time.Now}
}

// Generate produces a forecast for the requested period. Empty inputs are
// never an error: every aggregate falls back to its documented default.
func (e *Engine) Generate(
	period model.ForecastPeriod,
	clients []model.Client,
	deals []model.Deal,
	messages []model.Message,
	interactions []model.Interaction,
	historical []model.SalesForecast,
) Data {
	now := e.Now()
	analysis := pipeline.Analyze(deals)

	factors := model.ForecastFactors{
		PipelineValue:      analysis.TotalValue,
		ConversionRate:     overallConversionRate(deals),
		AverageDealSize:    analysis.AverageDealSize,
		SalesVelocity:      salesVelocity(deals),
		SeasonalTrend:      e.seasonalTrend(now, period, historical),
		LeadQuality:        e.leadQuality(now, clients),
		HistoricalAccuracy: historicalAccuracy(historical),
	}

	revenue, dealCount, confidence := e.predict(period, factors, analysis)

	data := Data{
		Period:           period,
		StartDate:        now,
		EndDate:          now.AddDate(0, 0, period.Days()),
		PredictedRevenue: revenue,
		PredictedDeals:   dealCount,
		Confidence:       confidence,
		Factors:          factors,
		Recommendations:  recommendations(factors, analysis, deals),
		Pipeline:         analysis,
	}

	zap.L().Info("forecast: generated",
		zap.String("period", string(period)),
		zap.Float64("predicted_revenue", revenue),
		zap.Int("predicted_deals", dealCount),
		zap.Float64("confidence", confidence),
		zap.Float64("lead_quality", factors.LeadQuality),
	)

	return data
}

// Record converts forecast data into a persistable record.
func (e *Engine) Record(d Data) model.SalesForecast {
	return model.SalesForecast{
		Period:           d.Period,
		StartDate:        d.StartDate,
		EndDate:          d.EndDate,
		PredictedRevenue: d.PredictedRevenue,
		PredictedDeals:   d.PredictedDeals,
		Confidence:       d.Confidence,
		Factors:          d.Factors,
		Methodology:      Methodology,
		CreatedAt:        e.Now(),
	}
}

// leadQuality blends average lead score with engagement and recent-activity
// ratios. Defaults to 50 with no clients.
func (e *Engine) leadQuality(now time.Time, clients []model.Client) float64 {
	if len(clients) == 0 {
		return 50
	}

	var scoreSum float64
	var engaged, recentlyActive int
	for _, c := range clients {
		scoreSum += c.LeadScore
		if c.EngagementLevel == model.EngagementHigh || c.EngagementLevel == model.EngagementVeryHigh {
			engaged++
		}
		if c.LastInteraction != nil && now.Sub(*c.LastInteraction) <= 7*24*time.Hour {
			recentlyActive++
		}
	}

	n := float64(len(clients))
	avgScore := scoreSum / n
	engagementRatio := float64(engaged) / n
	activityRatio := float64(recentlyActive) / n

	return math.Round(avgScore*0.5 + engagementRatio*25 + activityRatio*25)
}

// seasonalTrend looks up the cyclical multiplier for the current month or
// quarter. Weekly forecasts and thin history (<4 records) stay neutral.
func (e *Engine) seasonalTrend(now time.Time, period model.ForecastPeriod, historical []model.SalesForecast) float64 {
	if len(historical) < 4 {
		return 1.0
	}

	switch period {
	case model.PeriodMonthly:
		if len(e.cfg.MonthlyTrend) == 12 {
			return e.cfg.MonthlyTrend[int(now.Month())-1]
		}
	case model.PeriodQuarterly:
		if len(e.cfg.QuarterlyTrend) == 4 {
			return e.cfg.QuarterlyTrend[(int(now.Month())-1)/3]
		}
	}
	return 1.0
}

// salesVelocity is the mean days from creation to close over closed deals
// with both dates. Defaults to 30 with no closed deals.
func salesVelocity(deals []model.Deal) float64 {
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
		return 30
	}
	return sum / float64(n)
}

// overallConversionRate is closed_won over all closed deals, defaulting to
// 0.2 when nothing has closed yet.
func overallConversionRate(deals []model.Deal) float64 {
	var won, closed int
	for _, d := range deals {
		switch d.Stage {
		case model.DealClosedWon:
			won++
			closed++
		case model.DealClosedLost:
			closed++
		}
	}
	if closed == 0 {
		return 0.2
	}
	return float64(won) / float64(closed)
}

// historicalAccuracy is the share of past forecasts that landed within 20%
// of actual revenue. Defaults to 0.7 with no history.
func historicalAccuracy(historical []model.SalesForecast) float64 {
	if len(historical) == 0 {
		return 0.7
	}

	var accurate int
	for _, f := range historical {
		if f.ActualRevenue == nil || *f.ActualRevenue == 0 {
			continue
		}
		variance := math.Abs(f.PredictedRevenue-*f.ActualRevenue) / *f.ActualRevenue
		if variance <= 0.2 {
			accurate++
		}
	}
	return float64(accurate) / float64(len(historical))
}

var periodMultipliers = map[model.ForecastPeriod]float64{
	model.PeriodWeekly:    0.25,
	model.PeriodMonthly:   1,
	model.PeriodQuarterly: 3,
}

// predict turns factors and pipeline state into revenue, deal count and a
// clamped confidence.
func (e *Engine) predict(period model.ForecastPeriod, factors model.ForecastFactors, analysis pipeline.Analysis) (revenue float64, dealCount int, confidence float64) {
	revenue = analysis.WeightedValue
	revenue *= factors.ConversionRate
	revenue *= factors.SeasonalTrend

	// Lead quality scales revenue within a 0.7-1.3 band.
	revenue *= 0.7 + factors.LeadQuality/100*0.6

	newDealsRevenue := factors.AverageDealSize * factors.ConversionRate *
		(factors.LeadQuality / 100) * periodMultipliers[period] * e.cfg.NewLeadsPerPeriod
	revenue += newDealsRevenue
	revenue = math.Round(revenue)

	dealCount = int(math.Round(revenue / math.Max(factors.AverageDealSize, 1000)))

	confidence = 0.5
	confidence += factors.HistoricalAccuracy * 0.3
	confidence += math.Min(0.2, factors.LeadQuality/500)
	confidence += math.Min(0.2, float64(analysis.DealsByStage[model.DealProposal])/10)
	confidence += math.Min(0.1, float64(analysis.DealsByStage[model.DealNegotiation])/5)

	switch period {
	case model.PeriodQuarterly:
		confidence *= 0.8
	case model.PeriodWeekly:
		confidence *= 1.1
	}

	confidence = model.Clamp(confidence, 0.3, 0.95)
	confidence = math.Round(confidence*100) / 100

	return revenue, dealCount, confidence
}
