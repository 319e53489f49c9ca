package followup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/luxe-atelier/crm-insight/internal/model"
)

func msg(clientID string, platform model.Platform, direction model.Direction, ts time.Time) model.Message {
	return model.Message{ClientID: clientID, Platform: platform, Direction: direction, Timestamp: ts}
}

func TestMetricsDefaults(t *testing.T) {
	e := testEngine()

	got := e.Metrics(model.Client{ID: "c1"}, nil, nil)

	assert.Zero(t, got.TotalTouches)
	assert.Zero(t, got.EngagementFrequency)
	assert.Zero(t, got.ResponseRate)
	assert.Equal(t, model.PlatformWhatsApp, got.PreferredChannel)
	assert.Equal(t, defaultContactWindow, got.BestTimeToContact)
	// No history at all: last engagement falls back to now.
	assert.Equal(t, fixedNow, got.LastEngagement)
}

func TestMetricsThirtyDayWindow(t *testing.T) {
	e := testEngine()
	client := model.Client{ID: "c1"}

	interactions := []model.Interaction{
		{ClientID: "c1", Timestamp: daysAgo(5)},
		{ClientID: "c1", Timestamp: daysAgo(40)}, // too old
		{ClientID: "other", Timestamp: daysAgo(5)},
	}
	messages := []model.Message{
		msg("c1", model.PlatformEmail, model.DirectionOutgoing, daysAgo(3)),
		msg("c1", model.PlatformEmail, model.DirectionIncoming, daysAgo(2)),
		msg("c1", model.PlatformEmail, model.DirectionIncoming, daysAgo(35)), // too old
		msg("other", model.PlatformEmail, model.DirectionIncoming, daysAgo(2)),
	}

	got := e.Metrics(client, interactions, messages)

	assert.Equal(t, 3, got.TotalTouches)
	assert.InDelta(t, 3.0*7/30, got.EngagementFrequency, 0.0001)
	assert.Equal(t, daysAgo(2), got.LastEngagement)
	assert.Equal(t, 1.0, got.ResponseRate)
}

func TestMetricsResponseRate(t *testing.T) {
	e := testEngine()
	client := model.Client{ID: "c1"}

	messages := []model.Message{
		msg("c1", model.PlatformWhatsApp, model.DirectionOutgoing, daysAgo(1)),
		msg("c1", model.PlatformWhatsApp, model.DirectionOutgoing, daysAgo(2)),
		msg("c1", model.PlatformWhatsApp, model.DirectionOutgoing, daysAgo(3)),
		msg("c1", model.PlatformWhatsApp, model.DirectionIncoming, daysAgo(1)),
	}
	got := e.Metrics(client, nil, messages)
	assert.InDelta(t, 1.0/3.0, got.ResponseRate, 0.0001)

	// More replies than outreach still caps at 1.
	flood := append(messages,
		msg("c1", model.PlatformWhatsApp, model.DirectionIncoming, daysAgo(1)),
		msg("c1", model.PlatformWhatsApp, model.DirectionIncoming, daysAgo(2)),
		msg("c1", model.PlatformWhatsApp, model.DirectionIncoming, daysAgo(2)),
	)
	assert.Equal(t, 1.0, e.Metrics(client, nil, flood).ResponseRate)
}

func TestPreferredChannel(t *testing.T) {
	assert.Equal(t, model.PlatformWhatsApp, preferredChannel(nil))

	dominant := []model.Message{
		{Platform: model.PlatformEmail},
		{Platform: model.PlatformEmail},
		{Platform: model.PlatformPhone},
	}
	assert.Equal(t, model.PlatformEmail, preferredChannel(dominant))

	// Ties resolve to the platform seen first.
	tied := []model.Message{
		{Platform: model.PlatformPhone},
		{Platform: model.PlatformEmail},
	}
	assert.Equal(t, model.PlatformPhone, preferredChannel(tied))
}

func TestBestContactWindow(t *testing.T) {
	assert.Equal(t, defaultContactWindow, bestContactWindow(nil))

	messages := []model.Message{
		{Timestamp: time.Date(2026, time.March, 2, 9, 15, 0, 0, time.UTC)},  // Monday 09
		{Timestamp: time.Date(2026, time.March, 9, 9, 40, 0, 0, time.UTC)},  // Monday 09
		{Timestamp: time.Date(2026, time.March, 6, 16, 5, 0, 0, time.UTC)},  // Friday 16
	}

	got := bestContactWindow(messages)
	assert.Equal(t, time.Monday, got.DayOfWeek)
	assert.Equal(t, 9, got.Hour)
}

func TestBestContactWindowTiesPickEarlier(t *testing.T) {
	messages := []model.Message{
		{Timestamp: time.Date(2026, time.March, 6, 16, 0, 0, 0, time.UTC)}, // Friday 16
		{Timestamp: time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)},  // Monday 09
	}

	got := bestContactWindow(messages)
	assert.Equal(t, time.Monday, got.DayOfWeek)
	assert.Equal(t, 9, got.Hour)
}
