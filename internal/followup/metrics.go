package followup

import (
	"time"

	"github.com/luxe-atelier/crm-insight/internal/model"
)

// ContactWindow is the modal day-of-week and hour at which a client tends
// to message.
type ContactWindow struct {
	DayOfWeek time.Weekday `json:"day_of_week"`
	Hour      int          `json:"hour"`
}

// defaultContactWindow applies when a client has no recent messages.
var defaultContactWindow = ContactWindow{DayOfWeek: time.Tuesday, Hour: 10}

// EngagementMetrics summarizes a client's last 30 days of contact.
type EngagementMetrics struct {
	TotalTouches        int            `json:"total_touches"`
	LastEngagement      time.Time      `json:"last_engagement"`
	EngagementFrequency float64        `json:"engagement_frequency"`
	ResponseRate        float64        `json:"response_rate"`
	PreferredChannel    model.Platform `json:"preferred_channel"`
	BestTimeToContact   ContactWindow  `json:"best_time_to_contact"`
}

// Metrics aggregates the client's interactions and messages from the last
// 30 days. Frequency is touches per week; response rate is incoming over
// outgoing messages capped at 1.
func (e *Engine) Metrics(client model.Client, interactions []model.Interaction, messages []model.Message) EngagementMetrics {
	now := e.Now()
	cutoff := now.AddDate(0, 0, -30)

	var recentInteractions []model.Interaction
	for _, i := range interactions {
		if i.ClientID == client.ID && i.Timestamp.After(cutoff) {
			recentInteractions = append(recentInteractions, i)
		}
	}
	var recentMessages []model.Message
	for _, m := range messages {
		if m.ClientID == client.ID && m.Timestamp.After(cutoff) {
			recentMessages = append(recentMessages, m)
		}
	}

	totalTouches := len(recentInteractions) + len(recentMessages)

	lastEngagement := now
	if client.LastInteraction != nil {
		lastEngagement = *client.LastInteraction
	}
	var latest time.Time
	for _, i := range recentInteractions {
		if i.Timestamp.After(latest) {
			latest = i.Timestamp
		}
	}
	for _, m := range recentMessages {
		if m.Timestamp.After(latest) {
			latest = m.Timestamp
		}
	}
	if !latest.IsZero() {
		lastEngagement = latest
	}

	var incoming, outgoing int
	for _, m := range recentMessages {
		switch m.Direction {
		case model.DirectionIncoming:
			incoming++
		case model.DirectionOutgoing:
			outgoing++
		}
	}
	var responseRate float64
	if outgoing > 0 {
		responseRate = model.Clamp01(float64(incoming) / float64(outgoing))
	}

	return EngagementMetrics{
		TotalTouches:        totalTouches,
		LastEngagement:      lastEngagement,
		EngagementFrequency: float64(totalTouches) * 7 / 30,
		ResponseRate:        responseRate,
		PreferredChannel:    preferredChannel(recentMessages),
		BestTimeToContact:   bestContactWindow(recentMessages),
	}
}

// preferredChannel is the modal message platform, defaulting to whatsapp.
// Ties resolve to the platform seen first.
func preferredChannel(messages []model.Message) model.Platform {
	counts := make(map[model.Platform]int)
	best := model.PlatformWhatsApp
	bestCount := 0
	for _, m := range messages {
		counts[m.Platform]++
		if counts[m.Platform] > bestCount {
			best = m.Platform
			bestCount = counts[m.Platform]
		}
	}
	return best
}

// bestContactWindow picks the modal weekday and modal hour independently.
// Ties resolve to the earlier value.
func bestContactWindow(messages []model.Message) ContactWindow {
	if len(messages) == 0 {
		return defaultContactWindow
	}

	var dayCounts [7]int
	var hourCounts [24]int
	for _, m := range messages {
		dayCounts[int(m.Timestamp.Weekday())]++
		hourCounts[m.Timestamp.Hour()]++
	}

	bestDay := 0
	for d := 1; d < len(dayCounts); d++ {
		if dayCounts[d] > dayCounts[bestDay] {
			bestDay = d
		}
	}
	bestHour := 0
	for h := 1; h < len(hourCounts); h++ {
		if hourCounts[h] > hourCounts[bestHour] {
			bestHour = h
		}
	}

	return ContactWindow{DayOfWeek: time.Weekday(bestDay), Hour: bestHour}
}
