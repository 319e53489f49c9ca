package scoring

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/luxe-atelier/crm-insight/internal/model"
)

// ScoreWriter persists the result of a scoring run. The store applies the
// update and its history row as a single read-modify-write, so at most one
// in-flight update per client must be guaranteed by the caller.
type ScoreWriter interface {
	UpdateClientLeadScore(ctx context.Context, update model.LeadScoreUpdate) error
}

// Update scores the client and persists the new score, factors, conversion
// probability, engagement level and next best action, together with a
// history entry recording the change. The engine itself never mutates its
// inputs; all persistence is delegated to the writer.
func (e *Engine) Update(ctx context.Context, w ScoreWriter, client model.Client, messages []model.Message, interactions []model.Interaction, deals []model.Deal, trigger string) (Result, error) {
	result := e.Score(client, messages, interactions, deals)

	// Probability is derived from the freshly computed score, not the stale
	// one on the record.
	rescored := client
	rescored.LeadScore = float64(result.Score)
	rescored.EngagementLevel = model.EngagementLevelForScore(float64(result.Score))
	probability := e.ConversionProbability(rescored)

	update := model.LeadScoreUpdate{
		ClientID:        client.ID,
		Score:           float64(result.Score),
		Factors:         result.Factors,
		Probability:     probability,
		EngagementLevel: rescored.EngagementLevel,
		NextBestAction:  NextBestAction(rescored, result.Factors),
		TriggerEvent:    trigger,
	}

	if err := w.UpdateClientLeadScore(ctx, update); err != nil {
		return Result{}, eris.Wrapf(err, "scoring: persist score for client %s", client.ID)
	}

	zap.L().Info("scoring: client score updated",
		zap.String("client_id", client.ID),
		zap.Float64("previous_score", client.LeadScore),
		zap.Int("new_score", result.Score),
		zap.Float64("probability", probability),
		zap.String("trigger", trigger),
	)

	return result, nil
}
