//go:build !integration

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxe-atelier/crm-insight/internal/model"
)

func TestBuildScoresWorkbook(t *testing.T) {
	clients := []model.Client{
		{
			ID:                    "c1",
			Name:                  "Amelia",
			Status:                model.StatusVIP,
			LeadScore:             82,
			ConversionProbability: 0.74,
			EngagementLevel:       model.EngagementVeryHigh,
			Budget:                150_000,
			NextBestAction:        "Schedule product demonstration or consultation",
		},
		{ID: "c2", Name: "Ben", Status: model.StatusProspect},
	}

	file, err := buildScoresWorkbook(clients)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	assert.Equal(t, "Scores", sheet.Name)
	require.Len(t, sheet.Rows, 3)

	assert.Equal(t, "ID", sheet.Rows[0].Cells[0].Value)
	assert.Equal(t, "Next Best Action", sheet.Rows[0].Cells[7].Value)

	amelia := sheet.Rows[1]
	assert.Equal(t, "c1", amelia.Cells[0].Value)
	assert.Equal(t, "Amelia", amelia.Cells[1].Value)
	assert.Equal(t, "vip", amelia.Cells[2].Value)
	score, err := amelia.Cells[3].Float()
	require.NoError(t, err)
	assert.InDelta(t, 82.0, score, 0.0001)
	assert.Equal(t, "very_high", amelia.Cells[5].Value)

	assert.Equal(t, "prospect", sheet.Rows[2].Cells[2].Value)
}

func TestBuildScoresWorkbookEmpty(t *testing.T) {
	file, err := buildScoresWorkbook(nil)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	assert.Len(t, file.Sheets[0].Rows, 1)
}
