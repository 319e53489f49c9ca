package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/luxe-atelier/crm-insight/internal/model"
)

func TestConversionProbability(t *testing.T) {
	e := testEngine()

	tests := []struct {
		name   string
		client model.Client
		want   float64
	}{
		{
			// 0.5 + 0.105 + 0.25 + 0.25 + 0.1 = 1.205 before the clamp.
			"hot lead saturates at certainty",
			model.Client{
				LeadScore:       85,
				EngagementLevel: model.EngagementVeryHigh,
				ConversionStage: model.StageIntent,
				CreatedAt:       fixedNow.AddDate(0, 0, -3),
			},
			1.0,
		},
		{
			// 0.5 + 0 + 0.05 + 0 + 0.05 = 0.6.
			"average lead",
			model.Client{
				LeadScore:       50,
				EngagementLevel: model.EngagementMedium,
				ConversionStage: model.StageInterest,
				CreatedAt:       fixedNow.AddDate(0, 0, -14),
			},
			0.6,
		},
		{
			// 0.5 - 0.12 - 0.1 - 0.2 - 0.1 = -0.02 before the clamp.
			"cold stale lead floors at zero",
			model.Client{
				LeadScore:       10,
				EngagementLevel: model.EngagementLow,
				ConversionStage: model.StageAwareness,
				CreatedAt:       fixedNow.AddDate(0, 0, -120),
			},
			0.0,
		},
		{
			// Unknown level and stage contribute nothing: 0.5 + 0.06 + 0.1.
			"unknown enums fall through",
			model.Client{
				LeadScore: 70,
				CreatedAt: fixedNow.AddDate(0, 0, -2),
			},
			0.66,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.ConversionProbability(tt.client)
			assert.InDelta(t, tt.want, got, 0.0001)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestConversionProbabilityAgeBands(t *testing.T) {
	e := testEngine()
	base := model.Client{LeadScore: 50, EngagementLevel: model.EngagementMedium, ConversionStage: model.StageInterest}

	at := func(days int) float64 {
		c := base
		c.CreatedAt = fixedNow.Add(-time.Duration(days) * 24 * time.Hour)
		return e.ConversionProbability(c)
	}

	fresh := at(5)
	recent := at(20)
	middle := at(60)
	stale := at(120)

	assert.Greater(t, fresh, recent)
	assert.Greater(t, recent, middle)
	assert.Greater(t, middle, stale)
}
