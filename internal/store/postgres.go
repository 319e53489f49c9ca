package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/luxe-atelier/crm-insight/internal/db"
	"github.com/luxe-atelier/crm-insight/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for the
// hottest store operations on the scoring path.
var preparedStatements = map[string]string{
	"get_client":        `SELECT ` + clientColumnsPg + ` FROM clients WHERE id = $1`,
	"messages_by_client": `SELECT ` + messageColumnsPg + ` FROM messages WHERE client_id = $1 ORDER BY timestamp ASC`,
	"deals_by_client":   `SELECT ` + dealColumnsPg + ` FROM deals WHERE client_id = $1 ORDER BY created_at ASC`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresFromPool wraps an existing pool. Used by tests with pgxmock and
// by the seeder for bulk COPY access.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Pool returns the underlying pool for subsystems needing direct query
// access (bulk fixture loading).
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS clients (
	id                     TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	name                   TEXT NOT NULL,
	status                 TEXT NOT NULL DEFAULT 'prospect',
	priority               TEXT NOT NULL DEFAULT 'medium',
	conversion_stage       TEXT NOT NULL DEFAULT 'awareness',
	lead_score             DOUBLE PRECISION NOT NULL DEFAULT 0,
	conversion_probability DOUBLE PRECISION NOT NULL DEFAULT 0,
	sentiment_score        DOUBLE PRECISION NOT NULL DEFAULT 0,
	engagement_level       TEXT NOT NULL DEFAULT 'low',
	total_interactions     INTEGER NOT NULL DEFAULT 0,
	last_interaction       TIMESTAMPTZ,
	budget                 DOUBLE PRECISION NOT NULL DEFAULT 0,
	timeframe              TEXT NOT NULL DEFAULT '',
	decision_maker         BOOLEAN NOT NULL DEFAULT false,
	follow_up_required     BOOLEAN NOT NULL DEFAULT false,
	location               TEXT NOT NULL DEFAULT '',
	lifetime_value         DOUBLE PRECISION NOT NULL DEFAULT 0,
	risk_factors           JSONB,
	buying_signals         JSONB,
	scoring_factors        JSONB,
	next_best_action       TEXT NOT NULL DEFAULT '',
	created_at             TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS messages (
	id              TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	conversation_id TEXT NOT NULL,
	client_id       TEXT NOT NULL REFERENCES clients(id),
	content         TEXT NOT NULL,
	direction       TEXT NOT NULL,
	platform        TEXT NOT NULL DEFAULT 'whatsapp',
	sentiment       TEXT NOT NULL DEFAULT '',
	sentiment_score DOUBLE PRECISION,
	timestamp       TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS interactions (
	id        TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	client_id TEXT NOT NULL REFERENCES clients(id),
	type      TEXT NOT NULL,
	outcome   TEXT NOT NULL DEFAULT '',
	sentiment TEXT NOT NULL DEFAULT '',
	timestamp TIMESTAMPTZ NOT NULL,
	value     DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS deals (
	id                TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	client_id         TEXT NOT NULL REFERENCES clients(id),
	title             TEXT NOT NULL,
	value             DOUBLE PRECISION NOT NULL,
	stage             TEXT NOT NULL DEFAULT 'prospecting',
	probability       DOUBLE PRECISION NOT NULL DEFAULT 0,
	competitor_info   TEXT NOT NULL DEFAULT '',
	actual_close_date TIMESTAMPTZ,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS sales_forecasts (
	id                TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	period            TEXT NOT NULL,
	start_date        TIMESTAMPTZ NOT NULL,
	end_date          TIMESTAMPTZ NOT NULL,
	predicted_revenue DOUBLE PRECISION NOT NULL,
	predicted_deals   INTEGER NOT NULL,
	confidence        DOUBLE PRECISION NOT NULL,
	factors           JSONB NOT NULL,
	methodology       TEXT NOT NULL DEFAULT '',
	actual_revenue    DOUBLE PRECISION,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS follow_ups (
	id            TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	client_id     TEXT NOT NULL REFERENCES clients(id),
	type          TEXT NOT NULL,
	title         TEXT NOT NULL,
	description   TEXT NOT NULL DEFAULT '',
	priority      TEXT NOT NULL DEFAULT 'medium',
	scheduled_for TIMESTAMPTZ NOT NULL,
	completed     BOOLEAN NOT NULL DEFAULT false,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS lead_score_history (
	id             TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	client_id      TEXT NOT NULL REFERENCES clients(id),
	previous_score DOUBLE PRECISION NOT NULL,
	new_score      DOUBLE PRECISION NOT NULL,
	score_change   DOUBLE PRECISION NOT NULL,
	trigger_event  TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_clients_status ON clients(status);
CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id);
CREATE INDEX IF NOT EXISTS idx_messages_client ON messages(client_id);
CREATE INDEX IF NOT EXISTS idx_interactions_client ON interactions(client_id);
CREATE INDEX IF NOT EXISTS idx_deals_client ON deals(client_id);
CREATE INDEX IF NOT EXISTS idx_deals_stage ON deals(stage);
CREATE INDEX IF NOT EXISTS idx_follow_ups_client ON follow_ups(client_id);
CREATE INDEX IF NOT EXISTS idx_history_client ON lead_score_history(client_id);
`

const clientColumnsPg = `id, name, status, priority, conversion_stage, lead_score,
	conversion_probability, sentiment_score, engagement_level, total_interactions,
	last_interaction, budget, timeframe, decision_maker, follow_up_required,
	location, lifetime_value, risk_factors, buying_signals, scoring_factors,
	next_best_action, created_at`

const messageColumnsPg = `id, conversation_id, client_id, content, direction, platform, sentiment, sentiment_score, timestamp`

const dealColumnsPg = `id, client_id, title, value, stage, probability, competitor_info, actual_close_date, created_at, updated_at`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateClient(ctx context.Context, client model.Client) (*model.Client, error) {
	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	if client.CreatedAt.IsZero() {
		client.CreatedAt = time.Now().UTC()
	}
	if client.EngagementLevel == "" {
		client.EngagementLevel = model.EngagementLow
	}

	riskJSON, err := marshalNullable(client.RiskFactors)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal risk factors")
	}
	signalsJSON, err := marshalNullable(client.BuyingSignals)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal buying signals")
	}
	var factorsJSON []byte
	if client.ScoringFactors != nil {
		factorsJSON, err = json.Marshal(client.ScoringFactors)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: marshal scoring factors")
		}
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO clients (
			id, name, status, priority, conversion_stage, lead_score,
			conversion_probability, sentiment_score, engagement_level,
			total_interactions, last_interaction, budget, timeframe,
			decision_maker, follow_up_required, location, lifetime_value,
			risk_factors, buying_signals, scoring_factors, next_best_action, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`,
		client.ID, client.Name, string(client.Status), string(client.Priority),
		string(client.ConversionStage), client.LeadScore, client.ConversionProbability,
		client.SentimentScore, string(client.EngagementLevel), client.TotalInteractions,
		client.LastInteraction, client.Budget, string(client.Timeframe),
		client.DecisionMaker, client.FollowUpRequired, client.Location,
		client.LifetimeValue, riskJSON, signalsJSON, factorsJSON,
		client.NextBestAction, client.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert client")
	}
	return &client, nil
}

func (s *PostgresStore) GetClient(ctx context.Context, id string) (*model.Client, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+clientColumnsPg+` FROM clients WHERE id = $1`, id)
	return scanClientPg(row)
}

func (s *PostgresStore) ListClients(ctx context.Context, filter ClientFilter) ([]model.Client, error) {
	query := `SELECT ` + clientColumnsPg + ` FROM clients WHERE 1=1`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return placeholder(len(args))
	}

	if filter.Status != "" {
		query += ` AND status = ` + arg(string(filter.Status))
	}
	if filter.Priority != "" {
		query += ` AND priority = ` + arg(string(filter.Priority))
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 500
	}
	query += ` LIMIT ` + arg(limit)
	if filter.Offset > 0 {
		query += ` OFFSET ` + arg(filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list clients")
	}
	defer rows.Close()

	var clients []model.Client
	for rows.Next() {
		c, err := scanClientPg(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, *c)
	}
	return clients, eris.Wrap(rows.Err(), "postgres: list clients iterate")
}

func (s *PostgresStore) CreateMessage(ctx context.Context, msg model.Message) (*model.Message, error) {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	if msg.Platform == "" {
		msg.Platform = model.PlatformWhatsApp
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO messages (id, conversation_id, client_id, content, direction, platform, sentiment, sentiment_score, timestamp)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		msg.ID, msg.ConversationID, msg.ClientID, msg.Content, string(msg.Direction),
		string(msg.Platform), string(msg.Sentiment), msg.SentimentScore, msg.Timestamp,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert message")
	}
	return &msg, nil
}

func (s *PostgresStore) GetMessagesByConversation(ctx context.Context, conversationID string) ([]model.Message, error) {
	return s.queryMessages(ctx,
		`SELECT `+messageColumnsPg+` FROM messages WHERE conversation_id = $1 ORDER BY timestamp ASC`,
		conversationID)
}

func (s *PostgresStore) GetMessagesByClient(ctx context.Context, clientID string) ([]model.Message, error) {
	return s.queryMessages(ctx,
		`SELECT `+messageColumnsPg+` FROM messages WHERE client_id = $1 ORDER BY timestamp ASC`,
		clientID)
}

func (s *PostgresStore) queryMessages(ctx context.Context, query string, arg any) ([]model.Message, error) {
	rows, err := s.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query messages")
	}
	defer rows.Close()

	var msgs []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.ClientID, &m.Content,
			&m.Direction, &m.Platform, &m.Sentiment, &m.SentimentScore, &m.Timestamp); err != nil {
			return nil, eris.Wrap(err, "postgres: scan message")
		}
		msgs = append(msgs, m)
	}
	return msgs, eris.Wrap(rows.Err(), "postgres: iterate messages")
}

func (s *PostgresStore) CreateInteraction(ctx context.Context, interaction model.Interaction) (*model.Interaction, error) {
	if interaction.ID == "" {
		interaction.ID = uuid.New().String()
	}
	if interaction.Timestamp.IsZero() {
		interaction.Timestamp = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO interactions (id, client_id, type, outcome, sentiment, timestamp, value)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		interaction.ID, interaction.ClientID, string(interaction.Type),
		string(interaction.Outcome), string(interaction.Sentiment),
		interaction.Timestamp, interaction.Value,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert interaction")
	}
	return &interaction, nil
}

func (s *PostgresStore) GetInteractionsByClient(ctx context.Context, clientID string) ([]model.Interaction, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, client_id, type, outcome, sentiment, timestamp, value
		 FROM interactions WHERE client_id = $1 ORDER BY timestamp ASC`,
		clientID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query interactions")
	}
	defer rows.Close()

	var interactions []model.Interaction
	for rows.Next() {
		var i model.Interaction
		if err := rows.Scan(&i.ID, &i.ClientID, &i.Type, &i.Outcome, &i.Sentiment,
			&i.Timestamp, &i.Value); err != nil {
			return nil, eris.Wrap(err, "postgres: scan interaction")
		}
		interactions = append(interactions, i)
	}
	return interactions, eris.Wrap(rows.Err(), "postgres: iterate interactions")
}

func (s *PostgresStore) CreateDeal(ctx context.Context, deal model.Deal) (*model.Deal, error) {
	if deal.ID == "" {
		deal.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if deal.CreatedAt.IsZero() {
		deal.CreatedAt = now
	}
	if deal.UpdatedAt.IsZero() {
		deal.UpdatedAt = now
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO deals (id, client_id, title, value, stage, probability, competitor_info, actual_close_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		deal.ID, deal.ClientID, deal.Title, deal.Value, string(deal.Stage),
		deal.Probability, deal.CompetitorInfo, deal.ActualCloseDate,
		deal.CreatedAt, deal.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert deal")
	}
	return &deal, nil
}

func (s *PostgresStore) GetDeal(ctx context.Context, id string) (*model.Deal, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+dealColumnsPg+` FROM deals WHERE id = $1`, id)

	var d model.Deal
	err := row.Scan(&d.ID, &d.ClientID, &d.Title, &d.Value, &d.Stage, &d.Probability,
		&d.CompetitorInfo, &d.ActualCloseDate, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "deal %s", id)
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan deal")
	}
	return &d, nil
}

func (s *PostgresStore) GetDealsByClient(ctx context.Context, clientID string) ([]model.Deal, error) {
	return s.queryDeals(ctx,
		`SELECT `+dealColumnsPg+` FROM deals WHERE client_id = $1 ORDER BY created_at ASC`,
		clientID)
}

func (s *PostgresStore) ListDeals(ctx context.Context) ([]model.Deal, error) {
	return s.queryDeals(ctx,
		`SELECT `+dealColumnsPg+` FROM deals ORDER BY created_at ASC`)
}

func (s *PostgresStore) queryDeals(ctx context.Context, query string, args ...any) ([]model.Deal, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query deals")
	}
	defer rows.Close()

	var deals []model.Deal
	for rows.Next() {
		var d model.Deal
		if err := rows.Scan(&d.ID, &d.ClientID, &d.Title, &d.Value, &d.Stage,
			&d.Probability, &d.CompetitorInfo, &d.ActualCloseDate,
			&d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan deal")
		}
		deals = append(deals, d)
	}
	return deals, eris.Wrap(rows.Err(), "postgres: iterate deals")
}

func (s *PostgresStore) CreateForecast(ctx context.Context, forecast model.SalesForecast) (*model.SalesForecast, error) {
	if forecast.ID == "" {
		forecast.ID = uuid.New().String()
	}
	if forecast.CreatedAt.IsZero() {
		forecast.CreatedAt = time.Now().UTC()
	}

	factorsJSON, err := json.Marshal(forecast.Factors)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal forecast factors")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO sales_forecasts (id, period, start_date, end_date, predicted_revenue, predicted_deals, confidence, factors, methodology, actual_revenue, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		forecast.ID, string(forecast.Period), forecast.StartDate, forecast.EndDate,
		forecast.PredictedRevenue, forecast.PredictedDeals, forecast.Confidence,
		factorsJSON, forecast.Methodology, forecast.ActualRevenue, forecast.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert forecast")
	}
	return &forecast, nil
}

func (s *PostgresStore) ListForecasts(ctx context.Context) ([]model.SalesForecast, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, period, start_date, end_date, predicted_revenue, predicted_deals, confidence, factors, methodology, actual_revenue, created_at
		 FROM sales_forecasts ORDER BY created_at ASC`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list forecasts")
	}
	defer rows.Close()

	var forecasts []model.SalesForecast
	for rows.Next() {
		var f model.SalesForecast
		var factorsJSON []byte
		if err := rows.Scan(&f.ID, &f.Period, &f.StartDate, &f.EndDate,
			&f.PredictedRevenue, &f.PredictedDeals, &f.Confidence, &factorsJSON,
			&f.Methodology, &f.ActualRevenue, &f.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan forecast")
		}
		if err := json.Unmarshal(factorsJSON, &f.Factors); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal forecast factors")
		}
		forecasts = append(forecasts, f)
	}
	return forecasts, eris.Wrap(rows.Err(), "postgres: iterate forecasts")
}

func (s *PostgresStore) CreateFollowUp(ctx context.Context, followUp model.FollowUp) (*model.FollowUp, error) {
	if followUp.ID == "" {
		followUp.ID = uuid.New().String()
	}
	if followUp.CreatedAt.IsZero() {
		followUp.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO follow_ups (id, client_id, type, title, description, priority, scheduled_for, completed, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		followUp.ID, followUp.ClientID, string(followUp.Type), followUp.Title,
		followUp.Description, string(followUp.Priority), followUp.ScheduledFor,
		followUp.Completed, followUp.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert follow-up")
	}
	return &followUp, nil
}

// UpdateClientLeadScore applies the score update and its history row in one
// transaction, reading the previous score first.
func (s *PostgresStore) UpdateClientLeadScore(ctx context.Context, update model.LeadScoreUpdate) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin score update")
	}
	defer tx.Rollback(ctx)

	var previous float64
	err = tx.QueryRow(ctx,
		`SELECT lead_score FROM clients WHERE id = $1 FOR UPDATE`, update.ClientID,
	).Scan(&previous)
	if errors.Is(err, pgx.ErrNoRows) {
		return eris.Wrapf(ErrNotFound, "client %s", update.ClientID)
	}
	if err != nil {
		return eris.Wrap(err, "postgres: read previous score")
	}

	factorsJSON, err := json.Marshal(update.Factors)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal scoring factors")
	}

	_, err = tx.Exec(ctx,
		`UPDATE clients SET lead_score = $1, conversion_probability = $2, engagement_level = $3,
		 scoring_factors = $4, next_best_action = $5 WHERE id = $6`,
		update.Score, update.Probability, string(update.EngagementLevel),
		factorsJSON, update.NextBestAction, update.ClientID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update score for client %s", update.ClientID)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO lead_score_history (id, client_id, previous_score, new_score, score_change, trigger_event, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.New().String(), update.ClientID, previous, update.Score,
		update.Score-previous, update.TriggerEvent, time.Now().UTC(),
	)
	if err != nil {
		return eris.Wrap(err, "postgres: insert score history")
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit score update")
}

func (s *PostgresStore) ListLeadScoreHistory(ctx context.Context, clientID string) ([]model.LeadScoreHistory, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, client_id, previous_score, new_score, score_change, trigger_event, created_at
		 FROM lead_score_history WHERE client_id = $1 ORDER BY created_at ASC`,
		clientID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list score history")
	}
	defer rows.Close()

	var history []model.LeadScoreHistory
	for rows.Next() {
		var h model.LeadScoreHistory
		if err := rows.Scan(&h.ID, &h.ClientID, &h.PreviousScore, &h.NewScore,
			&h.ScoreChange, &h.TriggerEvent, &h.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan score history")
		}
		history = append(history, h)
	}
	return history, eris.Wrap(rows.Err(), "postgres: iterate score history")
}

// helpers

func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

func marshalNullable(vals []string) ([]byte, error) {
	if len(vals) == 0 {
		return nil, nil
	}
	return json.Marshal(vals)
}

func scanClientPg(row scannable) (*model.Client, error) {
	var c model.Client
	var risk, signals, factors []byte

	err := row.Scan(&c.ID, &c.Name, &c.Status, &c.Priority, &c.ConversionStage,
		&c.LeadScore, &c.ConversionProbability, &c.SentimentScore,
		&c.EngagementLevel, &c.TotalInteractions, &c.LastInteraction,
		&c.Budget, &c.Timeframe, &c.DecisionMaker, &c.FollowUpRequired,
		&c.Location, &c.LifetimeValue, &risk, &signals, &factors,
		&c.NextBestAction, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrap(ErrNotFound, "client")
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan client")
	}

	if len(risk) > 0 {
		if err := json.Unmarshal(risk, &c.RiskFactors); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal risk factors")
		}
	}
	if len(signals) > 0 {
		if err := json.Unmarshal(signals, &c.BuyingSignals); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal buying signals")
		}
	}
	if len(factors) > 0 {
		c.ScoringFactors = &model.ScoringFactors{}
		if err := json.Unmarshal(factors, c.ScoringFactors); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal scoring factors")
		}
	}
	return &c, nil
}
