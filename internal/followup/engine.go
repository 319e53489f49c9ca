// Package followup derives prioritized follow-up actions and optimal
// contact timing from client engagement history.
package followup

import (
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/luxe-atelier/crm-insight/internal/model"
)

// Recommendation is one suggested follow-up action for a client.
type Recommendation struct {
	Type             model.FollowUpType     `json:"type"`
	Priority         model.FollowUpPriority `json:"priority"`
	SuggestedDate    time.Time              `json:"suggested_date"`
	Reason           string                 `json:"reason"`
	AutomatedMessage string                 `json:"automated_message,omitempty"`
	ClientID         string                 `json:"client_id"`
}

// Engine generates follow-up recommendations. Now is injectable for
// deterministic scheduling in tests.
type Engine struct {
	Now func() time.Time
}

// NewEngine creates a follow-up engine.
func NewEngine() *Engine {
	return &Engine{Now: time.Now}
}

// noInteractionDays stands in for days-since-last-interaction when a client
// has never been contacted, so every staleness rule fires.
const noInteractionDays = 999

var localePrinter = message.NewPrinter(language.English)

// Recommendations applies the follow-up rule set to a client. Rules are
// independent; every applicable rule fires. The result is sorted by priority
// (high first), stable within equal priorities.
func (e *Engine) Recommendations(client model.Client, interactions []model.Interaction, deals []model.Deal) []Recommendation {
	now := e.Now()

	daysSince := noInteractionDays
	if client.LastInteraction != nil {
		daysSince = int(math.Floor(now.Sub(*client.LastInteraction).Hours() / 24))
	}

	var recs []Recommendation
	add := func(t model.FollowUpType, p model.FollowUpPriority, in time.Duration, reason, msg string) {
		recs = append(recs, Recommendation{
			Type:             t,
			Priority:         p,
			SuggestedDate:    now.Add(in),
			Reason:           reason,
			AutomatedMessage: msg,
			ClientID:         client.ID,
		})
	}

	if client.LifetimeValue > 100000 && daysSince > 7 {
		add(model.FollowUpCall, model.FollowUpHigh, 24*time.Hour,
			"High-value client requires regular touchpoints",
			localePrinter.Sprintf("Follow up with %s - high-value client ($%.0f)", client.Name, client.LifetimeValue))
	}

	if client.LeadScore > 80 && daysSince > 3 {
		add(model.FollowUpCall, model.FollowUpHigh, 12*time.Hour,
			"High lead score indicates strong interest - strike while hot",
			fmt.Sprintf("Urgent: High-score lead %s ready for conversion", client.Name))
	}

	for _, deal := range deals {
		if !deal.Stage.Active() {
			continue
		}
		if deal.Stage == model.DealNegotiation && daysSince > 2 {
			add(model.FollowUpCall, model.FollowUpHigh, 6*time.Hour,
				"Deal in negotiation stage requires immediate attention",
				fmt.Sprintf("Critical: %s negotiation requires follow-up", deal.Title))
		}
		if deal.Stage == model.DealProposal && daysSince > 5 {
			add(model.FollowUpEmail, model.FollowUpMedium, 24*time.Hour,
				"Proposal submitted - check for questions or concerns",
				fmt.Sprintf("Follow up on proposal: %s", deal.Title))
		}
	}

	if client.ConversionProbability > 0.7 && daysSince > 4 {
		add(model.FollowUpMeeting, model.FollowUpHigh, 48*time.Hour,
			"High conversion probability - schedule close meeting",
			fmt.Sprintf("Schedule closing meeting with %s (%d%% conversion probability)",
				client.Name, int(math.Round(client.ConversionProbability*100))))
	}

	if len(client.RiskFactors) > 0 {
		add(model.FollowUpTask, model.FollowUpMedium, 24*time.Hour,
			"Address identified risk factors",
			fmt.Sprintf("Address risks for %s", client.Name))
	}

	if client.Status == model.StatusProspect && daysSince > 14 {
		add(model.FollowUpEmail, model.FollowUpLow, 72*time.Hour,
			"Long-term prospect nurturing",
			fmt.Sprintf("Nurture prospect %s - provide value-added content", client.Name))
	}

	if client.Status == model.StatusVIP && daysSince > 10 {
		add(model.FollowUpCall, model.FollowUpMedium, 24*time.Hour,
			"VIP client relationship maintenance",
			fmt.Sprintf("VIP client check-in: %s", client.Name))
	}

	if daysSince > 7 {
		add(model.FollowUpReminder, model.FollowUpMedium, 24*time.Hour,
			"Regular check-in follow-up",
			fmt.Sprintf("Check in with %s - over a week since last contact", client.Name))
	}

	if client.Priority == model.PriorityVIP || client.Priority == model.PriorityCritical {
		add(model.FollowUpCall, model.FollowUpHigh, 4*time.Hour,
			"VIP client priority follow-up",
			fmt.Sprintf("Priority follow-up for %s", client.Name))
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority.Rank() > recs[j].Priority.Rank()
	})

	zap.L().Debug("followup: recommendations generated",
		zap.String("client_id", client.ID),
		zap.Int("count", len(recs)),
		zap.Int("days_since_interaction", daysSince),
	)

	return recs
}
