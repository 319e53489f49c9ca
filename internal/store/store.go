// Package store persists clients, conversations, deals, forecasts and
// follow-ups behind a backend-agnostic interface with SQLite and Postgres
// implementations.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/luxe-atelier/crm-insight/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist. Callers
// check it with eris.Is.
var ErrNotFound = eris.New("store: not found")

// ClientFilter specifies criteria for listing clients.
type ClientFilter struct {
	Status   model.ClientStatus `json:"status,omitempty"`
	Priority model.Priority     `json:"priority,omitempty"`
	Limit    int                `json:"limit,omitempty"`
	Offset   int                `json:"offset,omitempty"`
}

// Store defines the persistence interface for the CRM analytics engines.
// Engines read entities through it and write back scores, forecasts and
// follow-ups; they never hold backend-specific state.
type Store interface {
	// Clients
	CreateClient(ctx context.Context, client model.Client) (*model.Client, error)
	GetClient(ctx context.Context, id string) (*model.Client, error)
	ListClients(ctx context.Context, filter ClientFilter) ([]model.Client, error)

	// Messages
	CreateMessage(ctx context.Context, msg model.Message) (*model.Message, error)
	GetMessagesByConversation(ctx context.Context, conversationID string) ([]model.Message, error)
	GetMessagesByClient(ctx context.Context, clientID string) ([]model.Message, error)

	// Interactions
	CreateInteraction(ctx context.Context, interaction model.Interaction) (*model.Interaction, error)
	GetInteractionsByClient(ctx context.Context, clientID string) ([]model.Interaction, error)

	// Deals
	CreateDeal(ctx context.Context, deal model.Deal) (*model.Deal, error)
	GetDeal(ctx context.Context, id string) (*model.Deal, error)
	GetDealsByClient(ctx context.Context, clientID string) ([]model.Deal, error)
	ListDeals(ctx context.Context) ([]model.Deal, error)

	// Forecasts
	CreateForecast(ctx context.Context, forecast model.SalesForecast) (*model.SalesForecast, error)
	ListForecasts(ctx context.Context) ([]model.SalesForecast, error)

	// Follow-ups
	CreateFollowUp(ctx context.Context, followUp model.FollowUp) (*model.FollowUp, error)

	// Scoring. The score update and its history row are applied in a single
	// transaction so concurrent runs for different clients cannot interleave
	// a client's score with a mismatched history entry.
	UpdateClientLeadScore(ctx context.Context, update model.LeadScoreUpdate) error
	ListLeadScoreHistory(ctx context.Context, clientID string) ([]model.LeadScoreHistory, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
