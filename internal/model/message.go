package model

import "time"

// Direction indicates who sent a message.
type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

// Sentiment is the coarse polarity label attached by the sentiment extractor.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Platform is the channel a message arrived on.
type Platform string

const (
	PlatformWhatsApp Platform = "whatsapp"
	PlatformEmail    Platform = "email"
	PlatformPhone    Platform = "phone"
	PlatformChat     Platform = "chat"
)

// Message is one communication turn with a client.
// Sentiment and SentimentScore are set together by the sentiment extractor
// or not at all.
type Message struct {
	ID             string     `json:"id"`
	ConversationID string     `json:"conversation_id"`
	ClientID       string     `json:"client_id"`
	Content        string     `json:"content"`
	Direction      Direction  `json:"direction"`
	Platform       Platform   `json:"platform,omitempty"`
	Sentiment      Sentiment  `json:"sentiment,omitempty"`
	SentimentScore *float64   `json:"sentiment_score,omitempty"`
	Timestamp      time.Time  `json:"timestamp"`
}

// InteractionType classifies a logged touchpoint.
type InteractionType string

const (
	InteractionMessage       InteractionType = "message"
	InteractionCall          InteractionType = "call"
	InteractionEmail         InteractionType = "email"
	InteractionMeeting       InteractionType = "meeting"
	InteractionDocumentShare InteractionType = "document_share"
	InteractionTripPlanning  InteractionType = "trip_planning"
)

// Outcome is the recorded result of an interaction.
type Outcome string

const (
	OutcomePositive       Outcome = "positive"
	OutcomeNeutral        Outcome = "neutral"
	OutcomeNegative       Outcome = "negative"
	OutcomeFollowUpNeeded Outcome = "follow_up_needed"
)

// Interaction is a logged touchpoint with a client.
type Interaction struct {
	ID        string          `json:"id"`
	ClientID  string          `json:"client_id"`
	Type      InteractionType `json:"type"`
	Outcome   Outcome         `json:"outcome,omitempty"`
	Sentiment Sentiment       `json:"sentiment,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Value     *float64        `json:"value,omitempty"`
}
