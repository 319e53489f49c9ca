package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/luxe-atelier/crm-insight/internal/config"
	"github.com/luxe-atelier/crm-insight/internal/model"
	"github.com/luxe-atelier/crm-insight/internal/pipeline"
)

// Mid-November: month index 10, fourth quarter.
var fixedNow = time.Date(2026, time.November, 15, 9, 0, 0, 0, time.UTC)

func testConfig() config.ForecastConfig {
	return config.ForecastConfig{
		MonthlyTrend:      []float64{0.9, 0.9, 1.0, 1.1, 1.1, 1.0, 0.8, 0.8, 1.1, 1.2, 1.3, 1.2},
		QuarterlyTrend:    []float64{1.0, 1.1, 0.9, 1.2},
		NewLeadsPerPeriod: 2,
	}
}

func testEngine() *Engine {
	e := NewEngine(testConfig())
	e.Now = func() time.Time { return fixedNow }
	return e
}

func analysisWith(proposals, negotiations int) pipeline.Analysis {
	return pipeline.Analysis{
		DealsByStage: map[model.DealStage]int{
			model.DealProposal:    proposals,
			model.DealNegotiation: negotiations,
		},
	}
}

func history(n int) []model.SalesForecast {
	out := make([]model.SalesForecast, n)
	for i := range out {
		out[i] = model.SalesForecast{Period: model.PeriodMonthly, PredictedRevenue: 100_000}
	}
	return out
}

func TestGenerateEmptyInputs(t *testing.T) {
	e := testEngine()

	got := e.Generate(model.PeriodMonthly, nil, nil, nil, nil, nil)

	assert.Equal(t, model.PeriodMonthly, got.Period)
	assert.Equal(t, fixedNow, got.StartDate)
	assert.Equal(t, fixedNow.AddDate(0, 0, 30), got.EndDate)
	assert.Zero(t, got.PredictedRevenue)
	assert.Zero(t, got.PredictedDeals)

	assert.Equal(t, 0.2, got.Factors.ConversionRate)
	assert.Equal(t, 30.0, got.Factors.SalesVelocity)
	assert.Equal(t, 1.0, got.Factors.SeasonalTrend)
	assert.Equal(t, 50.0, got.Factors.LeadQuality)
	assert.Equal(t, 0.7, got.Factors.HistoricalAccuracy)

	// 0.5 + 0.7*0.3 + 50/500 = 0.81.
	assert.InDelta(t, 0.81, got.Confidence, 0.0001)
}

func TestGenerateDeterministicScenario(t *testing.T) {
	e := testEngine()

	last := fixedNow.AddDate(0, 0, -2)
	clients := []model.Client{
		{LeadScore: 80, EngagementLevel: model.EngagementHigh, LastInteraction: &last},
		{LeadScore: 80, EngagementLevel: model.EngagementVeryHigh, LastInteraction: &last},
	}
	deals := make([]model.Deal, 10)
	for i := range deals {
		deals[i] = model.Deal{Stage: model.DealProposal, Value: 100_000, Probability: 0.5}
	}

	got := e.Generate(model.PeriodMonthly, clients, deals, nil, nil, nil)

	// avg score 80*0.5 + full engagement 25 + full activity 25 = 90.
	assert.Equal(t, 90.0, got.Factors.LeadQuality)
	assert.Equal(t, 1_000_000.0, got.Factors.PipelineValue)
	assert.Equal(t, 100_000.0, got.Factors.AverageDealSize)

	// weighted 250k * conv 0.2 * seasonal 1.0 * (0.7 + 0.9*0.6)
	// + 100k * 0.2 * 0.9 * 1 * 2 new-lead revenue.
	assert.Equal(t, 98_000.0, got.PredictedRevenue)
	assert.Equal(t, 1, got.PredictedDeals)

	// 0.5 + 0.21 + 0.18 + 0.2 (ten proposals) = 1.09, clamped.
	assert.Equal(t, 0.95, got.Confidence)
}

func TestSeasonalTrend(t *testing.T) {
	e := testEngine()

	tests := []struct {
		name    string
		period  model.ForecastPeriod
		history []model.SalesForecast
		want    float64
	}{
		{"thin history stays neutral", model.PeriodMonthly, history(3), 1.0},
		{"weekly always neutral", model.PeriodWeekly, history(8), 1.0},
		{"monthly november", model.PeriodMonthly, history(4), 1.3},
		{"quarterly q4", model.PeriodQuarterly, history(4), 1.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.seasonalTrend(fixedNow, tt.period, tt.history))
		})
	}
}

func TestSalesVelocity(t *testing.T) {
	assert.Equal(t, 30.0, salesVelocity(nil))

	created := fixedNow.AddDate(0, 0, -60)
	closedAt20 := created.AddDate(0, 0, 20)
	closedAt40 := created.AddDate(0, 0, 40)
	deals := []model.Deal{
		{Stage: model.DealClosedWon, CreatedAt: created, ActualCloseDate: &closedAt20},
		{Stage: model.DealClosedLost, CreatedAt: created, ActualCloseDate: &closedAt40},
		{Stage: model.DealProposal, CreatedAt: created}, // open, ignored
	}
	assert.InDelta(t, 30.0, salesVelocity(deals), 0.0001)
}

func TestOverallConversionRate(t *testing.T) {
	assert.Equal(t, 0.2, overallConversionRate(nil))
	assert.Equal(t, 0.2, overallConversionRate([]model.Deal{{Stage: model.DealProposal}}))

	deals := []model.Deal{
		{Stage: model.DealClosedWon},
		{Stage: model.DealClosedWon},
		{Stage: model.DealClosedLost},
		{Stage: model.DealNegotiation},
	}
	assert.InDelta(t, 2.0/3.0, overallConversionRate(deals), 0.0001)
}

func TestHistoricalAccuracy(t *testing.T) {
	assert.Equal(t, 0.7, historicalAccuracy(nil))

	actual := func(v float64) *float64 { return &v }
	forecasts := []model.SalesForecast{
		{PredictedRevenue: 110_000, ActualRevenue: actual(100_000)}, // within 20%
		{PredictedRevenue: 200_000, ActualRevenue: actual(100_000)}, // way off
		{PredictedRevenue: 100_000, ActualRevenue: actual(0)},       // zero actual ignored
		{PredictedRevenue: 100_000},                                 // unresolved ignored
	}
	// One accurate forecast over four records.
	assert.InDelta(t, 0.25, historicalAccuracy(forecasts), 0.0001)
}

func TestLeadQuality(t *testing.T) {
	e := testEngine()

	assert.Equal(t, 50.0, e.leadQuality(fixedNow, nil))

	recent := fixedNow.AddDate(0, 0, -3)
	stale := fixedNow.AddDate(0, 0, -20)
	clients := []model.Client{
		{LeadScore: 90, EngagementLevel: model.EngagementVeryHigh, LastInteraction: &recent},
		{LeadScore: 30, EngagementLevel: model.EngagementLow, LastInteraction: &stale},
	}
	// avg 60*0.5 + engagement 0.5*25 + activity 0.5*25 = 55.
	assert.Equal(t, 55.0, e.leadQuality(fixedNow, clients))
}

func TestPredictPeriodConfidence(t *testing.T) {
	e := testEngine()

	factors := model.ForecastFactors{
		ConversionRate:     0.2,
		AverageDealSize:    20_000,
		SeasonalTrend:      1.0,
		LeadQuality:        50,
		HistoricalAccuracy: 0.5,
	}

	// Base confidence 0.5 + 0.15 + 0.1 = 0.75 before period scaling.
	_, _, monthly := e.predict(model.PeriodMonthly, factors, analysisWith(0, 0))
	_, _, quarterly := e.predict(model.PeriodQuarterly, factors, analysisWith(0, 0))
	_, _, weekly := e.predict(model.PeriodWeekly, factors, analysisWith(0, 0))

	assert.InDelta(t, 0.75, monthly, 0.0001)
	assert.InDelta(t, 0.6, quarterly, 0.0001)
	assert.InDelta(t, 0.83, weekly, 0.0001)
}

func TestPredictConfidenceClamped(t *testing.T) {
	e := testEngine()

	hot := model.ForecastFactors{
		ConversionRate:     0.5,
		AverageDealSize:    100_000,
		SeasonalTrend:      1.2,
		LeadQuality:        100,
		HistoricalAccuracy: 1,
	}
	_, _, confidence := e.predict(model.PeriodWeekly, hot, analysisWith(10, 10))
	assert.Equal(t, 0.95, confidence)
}

func TestRecord(t *testing.T) {
	e := testEngine()
	d := Data{
		Period:           model.PeriodQuarterly,
		StartDate:        fixedNow,
		EndDate:          fixedNow.AddDate(0, 0, 91),
		PredictedRevenue: 500_000,
		PredictedDeals:   4,
		Confidence:       0.7,
	}

	rec := e.Record(d)
	assert.Equal(t, model.PeriodQuarterly, rec.Period)
	assert.Equal(t, 500_000.0, rec.PredictedRevenue)
	assert.Equal(t, 4, rec.PredictedDeals)
	assert.Equal(t, Methodology, rec.Methodology)
	assert.Equal(t, fixedNow, rec.CreatedAt)
	assert.Nil(t, rec.ActualRevenue)
}
