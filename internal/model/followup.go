package model

import "time"

// FollowUpType is the kind of follow-up action to take.
type FollowUpType string

const (
	FollowUpReminder FollowUpType = "reminder"
	FollowUpCall     FollowUpType = "call"
	FollowUpEmail    FollowUpType = "email"
	FollowUpMeeting  FollowUpType = "meeting"
	FollowUpTask     FollowUpType = "task"
)

// FollowUpPriority orders follow-up recommendations.
type FollowUpPriority string

const (
	FollowUpLow    FollowUpPriority = "low"
	FollowUpMedium FollowUpPriority = "medium"
	FollowUpHigh   FollowUpPriority = "high"
)

// Rank returns a sortable weight for the priority (higher is more urgent).
func (p FollowUpPriority) Rank() int {
	switch p {
	case FollowUpHigh:
		return 3
	case FollowUpMedium:
		return 2
	default:
		return 1
	}
}

// FollowUp is a persisted follow-up task created from a recommendation.
type FollowUp struct {
	ID           string           `json:"id"`
	ClientID     string           `json:"client_id"`
	Type         FollowUpType     `json:"type"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Priority     FollowUpPriority `json:"priority"`
	ScheduledFor time.Time        `json:"scheduled_for"`
	Completed    bool             `json:"completed"`
	CreatedAt    time.Time        `json:"created_at"`
}

// LeadScoreHistory captures one scoring run's effect on a client.
type LeadScoreHistory struct {
	ID            string    `json:"id"`
	ClientID      string    `json:"client_id"`
	PreviousScore float64   `json:"previous_score"`
	NewScore      float64   `json:"new_score"`
	ScoreChange   float64   `json:"score_change"`
	TriggerEvent  string    `json:"trigger_event"`
	CreatedAt     time.Time `json:"created_at"`
}
