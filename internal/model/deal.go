package model

import "time"

// DealStage is the funnel position of an opportunity.
type DealStage string

const (
	DealProspecting   DealStage = "prospecting"
	DealQualification DealStage = "qualification"
	DealProposal      DealStage = "proposal"
	DealNegotiation   DealStage = "negotiation"
	DealClosedWon     DealStage = "closed_won"
	DealClosedLost    DealStage = "closed_lost"
)

// FunnelOrder is the fixed stage progression used for conversion rates and
// remaining-duration estimates.
var FunnelOrder = []DealStage{
	DealProspecting,
	DealQualification,
	DealProposal,
	DealNegotiation,
	DealClosedWon,
}

// Active reports whether the deal is still open.
func (s DealStage) Active() bool {
	return s != DealClosedWon && s != DealClosedLost
}

// FunnelIndex returns the position of s in FunnelOrder, or -1 for
// closed_lost and unknown stages.
func (s DealStage) FunnelIndex() int {
	for i, stage := range FunnelOrder {
		if stage == s {
			return i
		}
	}
	return -1
}

// Deal is an opportunity tied to a client. The analytics engines only read
// deals; stage transitions are driven externally.
type Deal struct {
	ID              string     `json:"id"`
	ClientID        string     `json:"client_id"`
	Title           string     `json:"title"`
	Value           float64    `json:"value"`
	Stage           DealStage  `json:"stage"`
	Probability     float64    `json:"probability"`
	CompetitorInfo  string     `json:"competitor_info,omitempty"`
	ActualCloseDate *time.Time `json:"actual_close_date,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
