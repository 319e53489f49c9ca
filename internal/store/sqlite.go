package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/luxe-atelier/crm-insight/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS clients (
	id                     TEXT PRIMARY KEY,
	name                   TEXT NOT NULL,
	status                 TEXT NOT NULL DEFAULT 'prospect',
	priority               TEXT NOT NULL DEFAULT 'medium',
	conversion_stage       TEXT NOT NULL DEFAULT 'awareness',
	lead_score             REAL NOT NULL DEFAULT 0,
	conversion_probability REAL NOT NULL DEFAULT 0,
	sentiment_score        REAL NOT NULL DEFAULT 0,
	engagement_level       TEXT NOT NULL DEFAULT 'low',
	total_interactions     INTEGER NOT NULL DEFAULT 0,
	last_interaction       DATETIME,
	budget                 REAL NOT NULL DEFAULT 0,
	timeframe              TEXT NOT NULL DEFAULT '',
	decision_maker         INTEGER NOT NULL DEFAULT 0,
	follow_up_required     INTEGER NOT NULL DEFAULT 0,
	location               TEXT NOT NULL DEFAULT '',
	lifetime_value         REAL NOT NULL DEFAULT 0,
	risk_factors           TEXT,
	buying_signals         TEXT,
	scoring_factors        TEXT,
	next_best_action       TEXT NOT NULL DEFAULT '',
	created_at             DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS messages (
	id              TEXT PRIMARY KEY,
	conversation_id TEXT NOT NULL,
	client_id       TEXT NOT NULL REFERENCES clients(id),
	content         TEXT NOT NULL,
	direction       TEXT NOT NULL,
	platform        TEXT NOT NULL DEFAULT 'whatsapp',
	sentiment       TEXT NOT NULL DEFAULT '',
	sentiment_score REAL,
	timestamp       DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS interactions (
	id        TEXT PRIMARY KEY,
	client_id TEXT NOT NULL REFERENCES clients(id),
	type      TEXT NOT NULL,
	outcome   TEXT NOT NULL DEFAULT '',
	sentiment TEXT NOT NULL DEFAULT '',
	timestamp DATETIME NOT NULL,
	value     REAL
);

CREATE TABLE IF NOT EXISTS deals (
	id                TEXT PRIMARY KEY,
	client_id         TEXT NOT NULL REFERENCES clients(id),
	title             TEXT NOT NULL,
	value             REAL NOT NULL,
	stage             TEXT NOT NULL DEFAULT 'prospecting',
	probability       REAL NOT NULL DEFAULT 0,
	competitor_info   TEXT NOT NULL DEFAULT '',
	actual_close_date DATETIME,
	created_at        DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at        DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS sales_forecasts (
	id                TEXT PRIMARY KEY,
	period            TEXT NOT NULL,
	start_date        DATETIME NOT NULL,
	end_date          DATETIME NOT NULL,
	predicted_revenue REAL NOT NULL,
	predicted_deals   INTEGER NOT NULL,
	confidence        REAL NOT NULL,
	factors           TEXT NOT NULL,
	methodology       TEXT NOT NULL DEFAULT '',
	actual_revenue    REAL,
	created_at        DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS follow_ups (
	id            TEXT PRIMARY KEY,
	client_id     TEXT NOT NULL REFERENCES clients(id),
	type          TEXT NOT NULL,
	title         TEXT NOT NULL,
	description   TEXT NOT NULL DEFAULT '',
	priority      TEXT NOT NULL DEFAULT 'medium',
	scheduled_for DATETIME NOT NULL,
	completed     INTEGER NOT NULL DEFAULT 0,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS lead_score_history (
	id             TEXT PRIMARY KEY,
	client_id      TEXT NOT NULL REFERENCES clients(id),
	previous_score REAL NOT NULL,
	new_score      REAL NOT NULL,
	score_change   REAL NOT NULL,
	trigger_event  TEXT NOT NULL DEFAULT '',
	created_at     DATETIME NOT NULL DEFAULT (datetime('now'))
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

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateClient(ctx context.Context, client model.Client) (*model.Client, error) {
	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	if client.CreatedAt.IsZero() {
		client.CreatedAt = time.Now().UTC()
	}
	if client.EngagementLevel == "" {
		client.EngagementLevel = model.EngagementLow
	}

	riskJSON, signalsJSON, factorsJSON, err := marshalClientJSON(client)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO clients (
			id, name, status, priority, conversion_stage, lead_score,
			conversion_probability, sentiment_score, engagement_level,
			total_interactions, last_interaction, budget, timeframe,
			decision_maker, follow_up_required, location, lifetime_value,
			risk_factors, buying_signals, scoring_factors, next_best_action, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		client.ID, client.Name, string(client.Status), string(client.Priority),
		string(client.ConversionStage), client.LeadScore, client.ConversionProbability,
		client.SentimentScore, string(client.EngagementLevel), client.TotalInteractions,
		client.LastInteraction, client.Budget, string(client.Timeframe),
		client.DecisionMaker, client.FollowUpRequired, client.Location,
		client.LifetimeValue, riskJSON, signalsJSON, factorsJSON,
		client.NextBestAction, client.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert client")
	}
	return &client, nil
}

const clientColumns = `id, name, status, priority, conversion_stage, lead_score,
	conversion_probability, sentiment_score, engagement_level, total_interactions,
	last_interaction, budget, timeframe, decision_maker, follow_up_required,
	location, lifetime_value, risk_factors, buying_signals, scoring_factors,
	next_best_action, created_at`

func (s *SQLiteStore) GetClient(ctx context.Context, id string) (*model.Client, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = ?`, id)
	return scanClient(row)
}

func (s *SQLiteStore) ListClients(ctx context.Context, filter ClientFilter) ([]model.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.Priority != "" {
		query += ` AND priority = ?`
		args = append(args, string(filter.Priority))
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 500
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list clients")
	}
	defer rows.Close()

	var clients []model.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, *c)
	}
	return clients, eris.Wrap(rows.Err(), "sqlite: list clients iterate")
}

func (s *SQLiteStore) CreateMessage(ctx context.Context, msg model.Message) (*model.Message, error) {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	if msg.Platform == "" {
		msg.Platform = model.PlatformWhatsApp
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id, conversation_id, client_id, content, direction, platform, sentiment, sentiment_score, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.ConversationID, msg.ClientID, msg.Content, string(msg.Direction),
		string(msg.Platform), string(msg.Sentiment), msg.SentimentScore, msg.Timestamp,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert message")
	}
	return &msg, nil
}

const messageColumns = `id, conversation_id, client_id, content, direction, platform, sentiment, sentiment_score, timestamp`

func (s *SQLiteStore) GetMessagesByConversation(ctx context.Context, conversationID string) ([]model.Message, error) {
	return s.queryMessages(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE conversation_id = ? ORDER BY timestamp ASC`,
		conversationID)
}

func (s *SQLiteStore) GetMessagesByClient(ctx context.Context, clientID string) ([]model.Message, error) {
	return s.queryMessages(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE client_id = ? ORDER BY timestamp ASC`,
		clientID)
}

func (s *SQLiteStore) queryMessages(ctx context.Context, query string, arg any) ([]model.Message, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query messages")
	}
	defer rows.Close()

	var msgs []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.ClientID, &m.Content,
			&m.Direction, &m.Platform, &m.Sentiment, &m.SentimentScore, &m.Timestamp); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan message")
		}
		msgs = append(msgs, m)
	}
	return msgs, eris.Wrap(rows.Err(), "sqlite: iterate messages")
}

func (s *SQLiteStore) CreateInteraction(ctx context.Context, interaction model.Interaction) (*model.Interaction, error) {
	if interaction.ID == "" {
		interaction.ID = uuid.New().String()
	}
	if interaction.Timestamp.IsZero() {
		interaction.Timestamp = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO interactions (id, client_id, type, outcome, sentiment, timestamp, value)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		interaction.ID, interaction.ClientID, string(interaction.Type),
		string(interaction.Outcome), string(interaction.Sentiment),
		interaction.Timestamp, interaction.Value,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert interaction")
	}
	return &interaction, nil
}

func (s *SQLiteStore) GetInteractionsByClient(ctx context.Context, clientID string) ([]model.Interaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, client_id, type, outcome, sentiment, timestamp, value
		 FROM interactions WHERE client_id = ? ORDER BY timestamp ASC`,
		clientID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query interactions")
	}
	defer rows.Close()

	var interactions []model.Interaction
	for rows.Next() {
		var i model.Interaction
		if err := rows.Scan(&i.ID, &i.ClientID, &i.Type, &i.Outcome, &i.Sentiment,
			&i.Timestamp, &i.Value); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan interaction")
		}
		interactions = append(interactions, i)
	}
	return interactions, eris.Wrap(rows.Err(), "sqlite: iterate interactions")
}

func (s *SQLiteStore) CreateDeal(ctx context.Context, deal model.Deal) (*model.Deal, error) {
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

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO deals (id, client_id, title, value, stage, probability, competitor_info, actual_close_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		deal.ID, deal.ClientID, deal.Title, deal.Value, string(deal.Stage),
		deal.Probability, deal.CompetitorInfo, deal.ActualCloseDate,
		deal.CreatedAt, deal.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert deal")
	}
	return &deal, nil
}

const dealColumns = `id, client_id, title, value, stage, probability, competitor_info, actual_close_date, created_at, updated_at`

func (s *SQLiteStore) GetDeal(ctx context.Context, id string) (*model.Deal, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+dealColumns+` FROM deals WHERE id = ?`, id)

	var d model.Deal
	err := row.Scan(&d.ID, &d.ClientID, &d.Title, &d.Value, &d.Stage, &d.Probability,
		&d.CompetitorInfo, &d.ActualCloseDate, &d.CreatedAt, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "deal %s", id)
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan deal")
	}
	return &d, nil
}

func (s *SQLiteStore) GetDealsByClient(ctx context.Context, clientID string) ([]model.Deal, error) {
	return s.queryDeals(ctx,
		`SELECT `+dealColumns+` FROM deals WHERE client_id = ? ORDER BY created_at ASC`,
		clientID)
}

func (s *SQLiteStore) ListDeals(ctx context.Context) ([]model.Deal, error) {
	return s.queryDeals(ctx,
		`SELECT `+dealColumns+` FROM deals ORDER BY created_at ASC`)
}

func (s *SQLiteStore) queryDeals(ctx context.Context, query string, args ...any) ([]model.Deal, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query deals")
	}
	defer rows.Close()

	var deals []model.Deal
	for rows.Next() {
		var d model.Deal
		if err := rows.Scan(&d.ID, &d.ClientID, &d.Title, &d.Value, &d.Stage,
			&d.Probability, &d.CompetitorInfo, &d.ActualCloseDate,
			&d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan deal")
		}
		deals = append(deals, d)
	}
	return deals, eris.Wrap(rows.Err(), "sqlite: iterate deals")
}

func (s *SQLiteStore) CreateForecast(ctx context.Context, forecast model.SalesForecast) (*model.SalesForecast, error) {
	if forecast.ID == "" {
		forecast.ID = uuid.New().String()
	}
	if forecast.CreatedAt.IsZero() {
		forecast.CreatedAt = time.Now().UTC()
	}

	factorsJSON, err := json.Marshal(forecast.Factors)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal forecast factors")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sales_forecasts (id, period, start_date, end_date, predicted_revenue, predicted_deals, confidence, factors, methodology, actual_revenue, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		forecast.ID, string(forecast.Period), forecast.StartDate, forecast.EndDate,
		forecast.PredictedRevenue, forecast.PredictedDeals, forecast.Confidence,
		string(factorsJSON), forecast.Methodology, forecast.ActualRevenue, forecast.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert forecast")
	}
	return &forecast, nil
}

func (s *SQLiteStore) ListForecasts(ctx context.Context) ([]model.SalesForecast, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, period, start_date, end_date, predicted_revenue, predicted_deals, confidence, factors, methodology, actual_revenue, created_at
		 FROM sales_forecasts ORDER BY created_at ASC`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list forecasts")
	}
	defer rows.Close()

	var forecasts []model.SalesForecast
	for rows.Next() {
		var f model.SalesForecast
		var factorsJSON string
		if err := rows.Scan(&f.ID, &f.Period, &f.StartDate, &f.EndDate,
			&f.PredictedRevenue, &f.PredictedDeals, &f.Confidence, &factorsJSON,
			&f.Methodology, &f.ActualRevenue, &f.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan forecast")
		}
		if err := json.Unmarshal([]byte(factorsJSON), &f.Factors); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal forecast factors")
		}
		forecasts = append(forecasts, f)
	}
	return forecasts, eris.Wrap(rows.Err(), "sqlite: iterate forecasts")
}

func (s *SQLiteStore) CreateFollowUp(ctx context.Context, followUp model.FollowUp) (*model.FollowUp, error) {
	if followUp.ID == "" {
		followUp.ID = uuid.New().String()
	}
	if followUp.CreatedAt.IsZero() {
		followUp.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO follow_ups (id, client_id, type, title, description, priority, scheduled_for, completed, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		followUp.ID, followUp.ClientID, string(followUp.Type), followUp.Title,
		followUp.Description, string(followUp.Priority), followUp.ScheduledFor,
		followUp.Completed, followUp.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert follow-up")
	}
	return &followUp, nil
}

// UpdateClientLeadScore applies the score update and its history row in one
// transaction, reading the previous score first.
func (s *SQLiteStore) UpdateClientLeadScore(ctx context.Context, update model.LeadScoreUpdate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin score update")
	}
	defer tx.Rollback()

	var previous float64
	err = tx.QueryRowContext(ctx,
		`SELECT lead_score FROM clients WHERE id = ?`, update.ClientID,
	).Scan(&previous)
	if err == sql.ErrNoRows {
		return eris.Wrapf(ErrNotFound, "client %s", update.ClientID)
	}
	if err != nil {
		return eris.Wrap(err, "sqlite: read previous score")
	}

	factorsJSON, err := json.Marshal(update.Factors)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal scoring factors")
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE clients SET lead_score = ?, conversion_probability = ?, engagement_level = ?,
		 scoring_factors = ?, next_best_action = ? WHERE id = ?`,
		update.Score, update.Probability, string(update.EngagementLevel),
		string(factorsJSON), update.NextBestAction, update.ClientID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update score for client %s", update.ClientID)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO lead_score_history (id, client_id, previous_score, new_score, score_change, trigger_event, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), update.ClientID, previous, update.Score,
		update.Score-previous, update.TriggerEvent, time.Now().UTC(),
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert score history")
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit score update")
}

func (s *SQLiteStore) ListLeadScoreHistory(ctx context.Context, clientID string) ([]model.LeadScoreHistory, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, client_id, previous_score, new_score, score_change, trigger_event, created_at
		 FROM lead_score_history WHERE client_id = ? ORDER BY created_at ASC`,
		clientID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list score history")
	}
	defer rows.Close()

	var history []model.LeadScoreHistory
	for rows.Next() {
		var h model.LeadScoreHistory
		if err := rows.Scan(&h.ID, &h.ClientID, &h.PreviousScore, &h.NewScore,
			&h.ScoreChange, &h.TriggerEvent, &h.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan score history")
		}
		history = append(history, h)
	}
	return history, eris.Wrap(rows.Err(), "sqlite: iterate score history")
}

// helpers

type scannable interface {
	Scan(dest ...any) error
}

func marshalClientJSON(client model.Client) (risk, signals, factors sql.NullString, err error) {
	if len(client.RiskFactors) > 0 {
		b, merr := json.Marshal(client.RiskFactors)
		if merr != nil {
			return risk, signals, factors, eris.Wrap(merr, "sqlite: marshal risk factors")
		}
		risk = sql.NullString{String: string(b), Valid: true}
	}
	if len(client.BuyingSignals) > 0 {
		b, merr := json.Marshal(client.BuyingSignals)
		if merr != nil {
			return risk, signals, factors, eris.Wrap(merr, "sqlite: marshal buying signals")
		}
		signals = sql.NullString{String: string(b), Valid: true}
	}
	if client.ScoringFactors != nil {
		b, merr := json.Marshal(client.ScoringFactors)
		if merr != nil {
			return risk, signals, factors, eris.Wrap(merr, "sqlite: marshal scoring factors")
		}
		factors = sql.NullString{String: string(b), Valid: true}
	}
	return risk, signals, factors, nil
}

func scanClient(row scannable) (*model.Client, error) {
	var c model.Client
	var risk, signals, factors sql.NullString

	err := row.Scan(&c.ID, &c.Name, &c.Status, &c.Priority, &c.ConversionStage,
		&c.LeadScore, &c.ConversionProbability, &c.SentimentScore,
		&c.EngagementLevel, &c.TotalInteractions, &c.LastInteraction,
		&c.Budget, &c.Timeframe, &c.DecisionMaker, &c.FollowUpRequired,
		&c.Location, &c.LifetimeValue, &risk, &signals, &factors,
		&c.NextBestAction, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.Wrap(ErrNotFound, "client")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan client")
	}

	if risk.Valid {
		if err := json.Unmarshal([]byte(risk.String), &c.RiskFactors); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal risk factors")
		}
	}
	if signals.Valid {
		if err := json.Unmarshal([]byte(signals.String), &c.BuyingSignals); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal buying signals")
		}
	}
	if factors.Valid {
		c.ScoringFactors = &model.ScoringFactors{}
		if err := json.Unmarshal([]byte(factors.String), c.ScoringFactors); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal scoring factors")
		}
	}
	return &c, nil
}
