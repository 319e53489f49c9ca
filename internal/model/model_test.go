package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ForecastPeriod
		wantErr bool
	}{
		{"weekly", "weekly", PeriodWeekly, false},
		{"monthly", "monthly", PeriodMonthly, false},
		{"quarterly", "quarterly", PeriodQuarterly, false},
		{"empty", "", "", true},
		{"garbage", "fortnightly", "", true},
		{"case sensitive", "Monthly", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePeriod(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPeriodDays(t *testing.T) {
	assert.Equal(t, 7, PeriodWeekly.Days())
	assert.Equal(t, 30, PeriodMonthly.Days())
	assert.Equal(t, 91, PeriodQuarterly.Days())
}

func TestEngagementLevelForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  EngagementLevel
	}{
		{0, EngagementLow},
		{40, EngagementLow},
		{41, EngagementMedium},
		{60, EngagementMedium},
		{61, EngagementHigh},
		{80, EngagementHigh},
		{81, EngagementVeryHigh},
		{100, EngagementVeryHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, EngagementLevelForScore(tt.score), "score %.0f", tt.score)
	}
}

func TestFunnelIndex(t *testing.T) {
	assert.Equal(t, 0, DealProspecting.FunnelIndex())
	assert.Equal(t, 3, DealNegotiation.FunnelIndex())
	assert.Equal(t, 4, DealClosedWon.FunnelIndex())
	assert.Equal(t, -1, DealClosedLost.FunnelIndex())
	assert.Equal(t, -1, DealStage("bogus").FunnelIndex())
}

func TestStageActive(t *testing.T) {
	assert.True(t, DealProspecting.Active())
	assert.True(t, DealNegotiation.Active())
	assert.False(t, DealClosedWon.Active())
	assert.False(t, DealClosedLost.Active())
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-5, 0, 100))
	assert.Equal(t, 100.0, Clamp(150, 0, 100))
	assert.Equal(t, 42.0, Clamp(42, 0, 100))
	assert.Equal(t, 1.0, Clamp01(1.3))
	assert.Equal(t, 0.0, Clamp01(-0.2))
}
