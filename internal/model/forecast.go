package model

import (
	"time"

	"github.com/rotisserie/eris"
)

// ForecastPeriod is the horizon of a revenue forecast.
type ForecastPeriod string

const (
	PeriodWeekly    ForecastPeriod = "weekly"
	PeriodMonthly   ForecastPeriod = "monthly"
	PeriodQuarterly ForecastPeriod = "quarterly"
)

// ParsePeriod validates a raw period string. Malformed periods are rejected
// rather than defaulted.
func ParsePeriod(s string) (ForecastPeriod, error) {
	switch ForecastPeriod(s) {
	case PeriodWeekly, PeriodMonthly, PeriodQuarterly:
		return ForecastPeriod(s), nil
	}
	return "", eris.Errorf("model: invalid forecast period %q (want weekly, monthly or quarterly)", s)
}

// Days returns the nominal length of the period.
func (p ForecastPeriod) Days() int {
	switch p {
	case PeriodWeekly:
		return 7
	case PeriodQuarterly:
		return 91
	default:
		return 30
	}
}

// ForecastFactors is the structured breakdown behind a forecast.
type ForecastFactors struct {
	PipelineValue      float64 `json:"pipeline_value"`
	ConversionRate     float64 `json:"conversion_rate"`
	AverageDealSize    float64 `json:"average_deal_size"`
	SalesVelocity      float64 `json:"sales_velocity"`
	SeasonalTrend      float64 `json:"seasonal_trend"`
	LeadQuality        float64 `json:"lead_quality"`
	HistoricalAccuracy float64 `json:"historical_accuracy"`
}

// SalesForecast is a persisted prediction record. ActualRevenue is filled in
// later by an external reconciliation process and feeds the historical
// accuracy of future forecasts.
type SalesForecast struct {
	ID               string          `json:"id"`
	Period           ForecastPeriod  `json:"period"`
	StartDate        time.Time       `json:"start_date"`
	EndDate          time.Time       `json:"end_date"`
	PredictedRevenue float64         `json:"predicted_revenue"`
	PredictedDeals   int             `json:"predicted_deals"`
	Confidence       float64         `json:"confidence"`
	Factors          ForecastFactors `json:"factors"`
	Methodology      string          `json:"methodology"`
	ActualRevenue    *float64        `json:"actual_revenue,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}
