package scoring

import (
	"github.com/luxe-atelier/crm-insight/internal/model"
)

var engagementAdjustment = map[model.EngagementLevel]float64{
	model.EngagementVeryHigh: 0.25,
	model.EngagementHigh:     0.15,
	model.EngagementMedium:   0.05,
	model.EngagementLow:      -0.1,
}

var stageAdjustment = map[model.ConversionStage]float64{
	model.StageAwareness:     -0.2,
	model.StageInterest:      0,
	model.StageConsideration: 0.15,
	model.StageIntent:        0.25,
	model.StagePurchase:      0.4,
}

// ConversionProbability estimates how likely the client is to convert. The
// raw adjustment model can exceed 1 before the final clamp; that is
// intentional (a very hot lead saturates at certainty).
func (e *Engine) ConversionProbability(client model.Client) float64 {
	p := 0.5

	p += (client.LeadScore - 50) / 100 * 0.3
	p += engagementAdjustment[client.EngagementLevel]
	p += stageAdjustment[client.ConversionStage]

	age := e.Now().Sub(client.CreatedAt).Hours() / 24
	switch {
	case age <= 7:
		p += 0.1
	case age <= 30:
		p += 0.05
	case age > 90:
		p -= 0.1
	}

	return model.Clamp01(p)
}
