package followup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxe-atelier/crm-insight/internal/model"
)

// A Wednesday morning, so weekend handling is exercised deliberately.
var fixedNow = time.Date(2026, time.March, 11, 9, 0, 0, 0, time.UTC)

func testEngine() *Engine {
	e := NewEngine()
	e.Now = func() time.Time { return fixedNow }
	return e
}

func daysAgo(d int) time.Time {
	return fixedNow.Add(-time.Duration(d) * 24 * time.Hour)
}

func TestRecommendationsNeverContacted(t *testing.T) {
	e := testEngine()

	// No interaction history means every staleness rule sees 999 days, but
	// only the generic check-in applies to an otherwise cold record.
	recs := e.Recommendations(model.Client{ID: "c1", Name: "Ana"}, nil, nil)

	require.Len(t, recs, 1)
	assert.Equal(t, model.FollowUpReminder, recs[0].Type)
	assert.Equal(t, model.FollowUpMedium, recs[0].Priority)
	assert.Equal(t, "Regular check-in follow-up", recs[0].Reason)
	assert.Equal(t, "c1", recs[0].ClientID)
	assert.Equal(t, fixedNow.Add(24*time.Hour), recs[0].SuggestedDate)
}

func TestRecommendationsHighValueClient(t *testing.T) {
	e := testEngine()
	last := daysAgo(9)
	client := model.Client{
		ID:              "c2",
		Name:            "Marcus Webb",
		LifetimeValue:   250_000,
		LastInteraction: &last,
	}

	recs := e.Recommendations(client, nil, nil)
	require.Len(t, recs, 2)

	// High-value call outranks the generic reminder.
	assert.Equal(t, model.FollowUpCall, recs[0].Type)
	assert.Equal(t, model.FollowUpHigh, recs[0].Priority)
	assert.Equal(t, "High-value client requires regular touchpoints", recs[0].Reason)
	assert.Equal(t, "Follow up with Marcus Webb - high-value client ($250,000)", recs[0].AutomatedMessage)
	assert.Equal(t, model.FollowUpReminder, recs[1].Type)
}

func TestRecommendationsLeadScoreThreshold(t *testing.T) {
	e := testEngine()

	at := func(days int) []Recommendation {
		last := daysAgo(days)
		return e.Recommendations(model.Client{ID: "c3", LeadScore: 85, LastInteraction: &last}, nil, nil)
	}

	// Exactly three days since contact does not trip the hot-lead rule.
	assert.Empty(t, at(3))

	recs := at(4)
	require.Len(t, recs, 1)
	assert.Equal(t, model.FollowUpCall, recs[0].Type)
	assert.Equal(t, "High lead score indicates strong interest - strike while hot", recs[0].Reason)
	assert.Equal(t, fixedNow.Add(12*time.Hour), recs[0].SuggestedDate)
}

func TestRecommendationsDealStages(t *testing.T) {
	e := testEngine()
	last := daysAgo(6)
	client := model.Client{ID: "c4", Name: "Lena", LastInteraction: &last}

	deals := []model.Deal{
		{ID: "d1", ClientID: "c4", Title: "Daytona allocation", Stage: model.DealNegotiation},
		{ID: "d2", ClientID: "c4", Title: "Nautilus proposal", Stage: model.DealProposal},
		{ID: "d3", ClientID: "c4", Title: "Closed last year", Stage: model.DealClosedWon},
	}

	recs := e.Recommendations(client, nil, deals)
	require.Len(t, recs, 2)

	assert.Equal(t, model.FollowUpCall, recs[0].Type)
	assert.Equal(t, "Critical: Daytona allocation negotiation requires follow-up", recs[0].AutomatedMessage)
	assert.Equal(t, fixedNow.Add(6*time.Hour), recs[0].SuggestedDate)

	assert.Equal(t, model.FollowUpEmail, recs[1].Type)
	assert.Equal(t, model.FollowUpMedium, recs[1].Priority)
	assert.Equal(t, "Follow up on proposal: Nautilus proposal", recs[1].AutomatedMessage)
}

func TestRecommendationsConversionAndRisk(t *testing.T) {
	e := testEngine()
	last := daysAgo(5)
	client := model.Client{
		ID:                    "c5",
		Name:                  "Iris Chen",
		ConversionProbability: 0.82,
		RiskFactors:           []string{"Competitive situation"},
		LastInteraction:       &last,
	}

	recs := e.Recommendations(client, nil, nil)
	require.Len(t, recs, 2)

	assert.Equal(t, model.FollowUpMeeting, recs[0].Type)
	assert.Equal(t, "Schedule closing meeting with Iris Chen (82% conversion probability)", recs[0].AutomatedMessage)
	assert.Equal(t, model.FollowUpTask, recs[1].Type)
	assert.Equal(t, "Address identified risk factors", recs[1].Reason)
}

func TestRecommendationsStatusRules(t *testing.T) {
	e := testEngine()

	last := daysAgo(16)
	prospect := model.Client{ID: "c6", Name: "Theo", Status: model.StatusProspect, LastInteraction: &last}
	recs := e.Recommendations(prospect, nil, nil)
	require.Len(t, recs, 2)
	// Medium reminder sorts above the low-priority nurture email.
	assert.Equal(t, model.FollowUpReminder, recs[0].Type)
	assert.Equal(t, model.FollowUpEmail, recs[1].Type)
	assert.Equal(t, model.FollowUpLow, recs[1].Priority)

	vipLast := daysAgo(11)
	vip := model.Client{ID: "c7", Name: "Greta", Status: model.StatusVIP, LastInteraction: &vipLast}
	vipRecs := e.Recommendations(vip, nil, nil)
	require.Len(t, vipRecs, 2)
	assert.Equal(t, "VIP client relationship maintenance", vipRecs[0].Reason)
	assert.Equal(t, "Regular check-in follow-up", vipRecs[1].Reason)
}

func TestRecommendationsPriorityEscalation(t *testing.T) {
	e := testEngine()
	last := daysAgo(1)

	for _, p := range []model.Priority{model.PriorityVIP, model.PriorityCritical} {
		recs := e.Recommendations(model.Client{ID: "c8", Name: "Noor", Priority: p, LastInteraction: &last}, nil, nil)
		require.Len(t, recs, 1, string(p))
		assert.Equal(t, "VIP client priority follow-up", recs[0].Reason)
		assert.Equal(t, model.FollowUpHigh, recs[0].Priority)
		assert.Equal(t, fixedNow.Add(4*time.Hour), recs[0].SuggestedDate)
	}
}

func TestRecommendationsSortedStableByPriority(t *testing.T) {
	e := testEngine()
	last := daysAgo(9)
	client := model.Client{
		ID:              "c9",
		Name:            "Omar",
		LifetimeValue:   300_000,
		LeadScore:       90,
		Status:          model.StatusProspect,
		RiskFactors:     []string{"Stalled deal - no recent activity"},
		LastInteraction: &last,
	}

	recs := e.Recommendations(client, nil, nil)
	require.Len(t, recs, 4)

	// High block keeps rule order: lifetime value first, then lead score.
	assert.Equal(t, "High-value client requires regular touchpoints", recs[0].Reason)
	assert.Equal(t, "High lead score indicates strong interest - strike while hot", recs[1].Reason)
	// Medium block keeps rule order too.
	assert.Equal(t, "Address identified risk factors", recs[2].Reason)
	assert.Equal(t, "Regular check-in follow-up", recs[3].Reason)

	for i := 1; i < len(recs); i++ {
		assert.GreaterOrEqual(t, recs[i-1].Priority.Rank(), recs[i].Priority.Rank())
	}
}
