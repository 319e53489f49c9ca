package followup

import (
	"time"

	"github.com/luxe-atelier/crm-insight/internal/model"
)

// ScheduleOptimal moves a recommendation's suggested date onto the client's
// best contact window: same week where possible, never in the past, and
// weekend dates pushed to the following Monday.
func (e *Engine) ScheduleOptimal(metrics EngagementMetrics, rec Recommendation) time.Time {
	now := e.Now()
	window := metrics.BestTimeToContact

	suggested := rec.SuggestedDate
	// Snap to the preferred weekday within the suggested date's week, then
	// to the preferred hour.
	dayShift := int(window.DayOfWeek) - int(suggested.Weekday())
	optimal := suggested.AddDate(0, 0, dayShift)
	optimal = time.Date(optimal.Year(), optimal.Month(), optimal.Day(), window.Hour, 0, 0, 0, optimal.Location())

	if optimal.Before(now) {
		next := now.AddDate(0, 0, 1)
		optimal = time.Date(next.Year(), next.Month(), next.Day(), window.Hour, 0, 0, 0, next.Location())
	}

	switch optimal.Weekday() {
	case time.Sunday:
		optimal = optimal.AddDate(0, 0, 1)
	case time.Saturday:
		optimal = optimal.AddDate(0, 0, 2)
	}

	return optimal
}

// BuildFollowUps generates scheduled follow-up records for a set of clients,
// one per recommendation, with dates adjusted to each client's engagement
// pattern. IDs are left for the store to assign.
func (e *Engine) BuildFollowUps(clients []model.Client, interactions []model.Interaction, messages []model.Message, deals []model.Deal) []model.FollowUp {
	var followUps []model.FollowUp
	now := e.Now()

	for _, client := range clients {
		var clientInteractions []model.Interaction
		for _, i := range interactions {
			if i.ClientID == client.ID {
				clientInteractions = append(clientInteractions, i)
			}
		}
		var clientMessages []model.Message
		for _, m := range messages {
			if m.ClientID == client.ID {
				clientMessages = append(clientMessages, m)
			}
		}
		var clientDeals []model.Deal
		for _, d := range deals {
			if d.ClientID == client.ID {
				clientDeals = append(clientDeals, d)
			}
		}

		metrics := e.Metrics(client, clientInteractions, clientMessages)
		for _, rec := range e.Recommendations(client, clientInteractions, clientDeals) {
			title := rec.AutomatedMessage
			if title == "" {
				title = "Follow up with " + client.Name
			}
			followUps = append(followUps, model.FollowUp{
				ClientID:     client.ID,
				Type:         rec.Type,
				Title:        title,
				Description:  rec.Reason,
				Priority:     rec.Priority,
				ScheduledFor: e.ScheduleOptimal(metrics, rec),
				CreatedAt:    now,
			})
		}
	}

	return followUps
}
