package model

import "time"

// ClientStatus represents the relationship state of a client.
type ClientStatus string

const (
	StatusProspect           ClientStatus = "prospect"
	StatusActive             ClientStatus = "active"
	StatusInactive           ClientStatus = "inactive"
	StatusVIP                ClientStatus = "vip"
	StatusRequestedCallback  ClientStatus = "requested_callback"
	StatusChangedMind        ClientStatus = "changed_mind"
	StatusConfirmed          ClientStatus = "confirmed"
	StatusSold               ClientStatus = "sold"
	StatusHesitant           ClientStatus = "hesitant"
	StatusSharedWithBoutique ClientStatus = "shared_with_boutique"
)

// Priority represents how urgently a client should be worked.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
	PriorityVIP      Priority = "vip"
)

// ConversionStage is the client-level funnel position, distinct from DealStage.
type ConversionStage string

const (
	StageAwareness     ConversionStage = "awareness"
	StageInterest      ConversionStage = "interest"
	StageConsideration ConversionStage = "consideration"
	StageIntent        ConversionStage = "intent"
	StagePurchase      ConversionStage = "purchase"
)

// EngagementLevel buckets a client's lead score into a coarse activity tier.
type EngagementLevel string

const (
	EngagementLow      EngagementLevel = "low"
	EngagementMedium   EngagementLevel = "medium"
	EngagementHigh     EngagementLevel = "high"
	EngagementVeryHigh EngagementLevel = "very_high"
)

// Timeframe is the client's stated purchase horizon.
type Timeframe string

const (
	TimeframeImmediate  Timeframe = "immediate"
	TimeframeShortTerm  Timeframe = "short_term"
	TimeframeMediumTerm Timeframe = "medium_term"
	TimeframeLongTerm   Timeframe = "long_term"
)

// Client represents a tracked client and their relationship state.
// LeadScore, ConversionProbability, EngagementLevel and NextBestAction are
// written exclusively through the scoring update path.
type Client struct {
	ID                    string          `json:"id"`
	Name                  string          `json:"name"`
	Status                ClientStatus    `json:"status"`
	Priority              Priority        `json:"priority"`
	ConversionStage       ConversionStage `json:"conversion_stage"`
	LeadScore             float64         `json:"lead_score"`
	ConversionProbability float64         `json:"conversion_probability"`
	SentimentScore        float64         `json:"sentiment_score"`
	EngagementLevel       EngagementLevel `json:"engagement_level"`
	TotalInteractions     int             `json:"total_interactions"`
	LastInteraction       *time.Time      `json:"last_interaction,omitempty"`
	Budget                float64         `json:"budget,omitempty"`
	Timeframe             Timeframe       `json:"timeframe,omitempty"`
	DecisionMaker         bool            `json:"decision_maker"`
	FollowUpRequired      bool            `json:"follow_up_required"`
	Location              string          `json:"location,omitempty"`
	LifetimeValue         float64         `json:"lifetime_value"`
	RiskFactors           []string        `json:"risk_factors,omitempty"`
	BuyingSignals         []string        `json:"buying_signals,omitempty"`
	ScoringFactors        *ScoringFactors `json:"scoring_factors,omitempty"`
	NextBestAction        string          `json:"next_best_action,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
}

// EngagementLevelForScore derives the engagement bucket from a lead score.
func EngagementLevelForScore(score float64) EngagementLevel {
	switch {
	case score > 80:
		return EngagementVeryHigh
	case score > 60:
		return EngagementHigh
	case score > 40:
		return EngagementMedium
	default:
		return EngagementLow
	}
}

// Clamp bounds v into [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 bounds v into [0, 1].
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}
