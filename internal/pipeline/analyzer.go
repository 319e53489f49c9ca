// Package pipeline aggregates a deal list into stage-weighted value,
// funnel conversion rates and average deal size.
package pipeline

import (
	"fmt"

	"github.com/luxe-atelier/crm-insight/internal/model"
)

// StageWeights discounts raw deal value by funnel position.
var StageWeights = map[model.DealStage]float64{
	model.DealProspecting:   0.1,
	model.DealQualification: 0.2,
	model.DealProposal:      0.5,
	model.DealNegotiation:   0.8,
	model.DealClosedWon:     1.0,
	model.DealClosedLost:    0.0,
}

// Analysis is the aggregate view of an open pipeline.
type Analysis struct {
	TotalValue      float64                   `json:"total_value"`
	WeightedValue   float64                   `json:"weighted_value"`
	DealsByStage    map[model.DealStage]int   `json:"deals_by_stage"`
	AverageDealSize float64                   `json:"average_deal_size"`
	ConversionRates map[string]float64        `json:"conversion_rates"`
}

// Analyze computes pipeline aggregates over the given deals. Closed deals
// are excluded from value totals but still inform conversion rates. An
// empty deal list yields a zero-valued analysis, never an error.
func Analyze(deals []model.Deal) Analysis {
	dealsByStage := make(map[model.DealStage]int)

	var totalValue, weightedValue float64
	var active int
	for _, d := range deals {
		if !d.Stage.Active() {
			continue
		}
		active++
		totalValue += d.Value
		weightedValue += d.Value * StageWeights[d.Stage] * d.Probability
		dealsByStage[d.Stage]++
	}

	var avgDealSize float64
	if active > 0 {
		avgDealSize = totalValue / float64(active)
	}

	return Analysis{
		TotalValue:      totalValue,
		WeightedValue:   weightedValue,
		DealsByStage:    dealsByStage,
		AverageDealSize: avgDealSize,
		ConversionRates: stageConversionRates(deals),
	}
}

// stageConversionRates estimates, for each adjacent funnel pair, the share
// of deals that progressed past the earlier stage. A stage with no deals
// defaults to 0.5 rather than dividing by zero.
func stageConversionRates(deals []model.Deal) map[string]float64 {
	rates := make(map[string]float64, len(model.FunnelOrder)-1)

	for i := 0; i < len(model.FunnelOrder)-1; i++ {
		current := model.FunnelOrder[i]
		next := model.FunnelOrder[i+1]

		var inStage, advanced int
		for _, d := range deals {
			if d.Stage == current {
				inStage++
			}
			if d.Stage.FunnelIndex() > i || d.Stage == model.DealClosedWon {
				advanced++
			}
		}

		key := fmt.Sprintf("%s_to_%s", current, next)
		if inStage > 0 {
			rates[key] = float64(advanced) / float64(inStage)
		} else {
			rates[key] = 0.5
		}
	}

	return rates
}
