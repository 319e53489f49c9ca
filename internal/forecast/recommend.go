package forecast

import (
	"github.com/luxe-atelier/crm-insight/internal/model"
	"github.com/luxe-atelier/crm-insight/internal/pipeline"
)

// recommendationRule flags one pipeline weakness. Rules are independent and
// every matching rule contributes its advisory.
type recommendationRule struct {
	when func(model.ForecastFactors, pipeline.Analysis, []model.Deal) bool
	text string
}

var recommendationRules = []recommendationRule{
	{
		when: func(f model.ForecastFactors, _ pipeline.Analysis, _ []model.Deal) bool {
			return f.ConversionRate < 0.15
		},
		text: "Focus on improving qualification process - conversion rate is below industry average",
	},
	{
		when: func(_ model.ForecastFactors, a pipeline.Analysis, _ []model.Deal) bool {
			return a.DealsByStage[model.DealProspecting] > a.DealsByStage[model.DealQualification]*3
		},
		text: "Accelerate lead qualification - high number of prospects stuck in early stage",
	},
	{
		when: func(f model.ForecastFactors, _ pipeline.Analysis, _ []model.Deal) bool {
			return f.SalesVelocity > 60
		},
		text: "Sales cycle is lengthy - consider process optimization and automation",
	},
	{
		when: func(f model.ForecastFactors, _ pipeline.Analysis, _ []model.Deal) bool {
			return f.LeadQuality < 60
		},
		text: "Improve lead generation quality - current leads showing weak buying signals",
	},
	{
		when: func(_ model.ForecastFactors, a pipeline.Analysis, deals []model.Deal) bool {
			negotiating := a.DealsByStage[model.DealNegotiation]
			if negotiating == 0 {
				return false
			}
			var won int
			for _, d := range deals {
				if d.Stage == model.DealClosedWon {
					won++
				}
			}
			return float64(won)/float64(negotiating) < 0.7
		},
		text: "Focus on closing skills - deals stalling in negotiation stage",
	},
	{
		when: func(f model.ForecastFactors, _ pipeline.Analysis, _ []model.Deal) bool {
			return f.AverageDealSize < 50000
		},
		text: "Consider upselling strategies or targeting higher-value prospects",
	},
	{
		when: func(f model.ForecastFactors, _ pipeline.Analysis, _ []model.Deal) bool {
			return f.HistoricalAccuracy < 0.6
		},
		text: "Improve forecast accuracy by better tracking deal progression and probability updates",
	},
}

const healthyPipeline = "Pipeline health looks good - maintain current sales activities and monitor key metrics"

func recommendations(factors model.ForecastFactors, analysis pipeline.Analysis, deals []model.Deal) []string {
	var recs []string
	for _, r := range recommendationRules {
		if r.when(factors, analysis, deals) {
			recs = append(recs, r.text)
		}
	}
	if len(recs) == 0 {
		recs = append(recs, healthyPipeline)
	}
	return recs
}
