package model

// ScoringFactors holds the eight named 0-100 sub-scores produced per
// scoring run. Transient: persisted only as part of a LeadScoreUpdate.
type ScoringFactors struct {
	EngagementScore    float64 `json:"engagement_score"`
	BehaviorScore      float64 `json:"behavior_score"`
	DemographicScore   float64 `json:"demographic_score"`
	InteractionQuality float64 `json:"interaction_quality"`
	TimelineScore      float64 `json:"timeline_score"`
	BudgetScore        float64 `json:"budget_score"`
	AuthorityScore     float64 `json:"authority_score"`
	NeedScore          float64 `json:"need_score"`
}

// LeadScoreUpdate is the write applied to a client after a scoring run.
// The store applies it atomically and appends the matching history row.
type LeadScoreUpdate struct {
	ClientID        string          `json:"client_id"`
	Score           float64         `json:"score"`
	Factors         ScoringFactors  `json:"factors"`
	Probability     float64         `json:"probability"`
	EngagementLevel EngagementLevel `json:"engagement_level"`
	NextBestAction  string          `json:"next_best_action"`
	TriggerEvent    string          `json:"trigger_event"`
}
