package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	expected := []string{"score", "forecast", "predict", "followups", "serve", "seed", "export"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "crm-insight", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestScoreCommand_Flags(t *testing.T) {
	for _, name := range []string{"client", "all", "update", "format", "output"} {
		require.NotNil(t, scoreCmd.Flags().Lookup(name), "score command should have --%s flag", name)
	}
	assert.Equal(t, "table", scoreCmd.Flags().Lookup("format").DefValue)
}

func TestForecastCommand_Flags(t *testing.T) {
	flag := forecastCmd.Flags().Lookup("period")
	require.NotNil(t, flag, "forecast command should have --period flag")
	assert.Equal(t, "monthly", flag.DefValue)

	require.NotNil(t, forecastCmd.Flags().Lookup("save"))
}

func TestPredictCommand_Flags(t *testing.T) {
	require.NotNil(t, predictCmd.Flags().Lookup("deal"), "predict command should have --deal flag")
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestExportCommand_Flags(t *testing.T) {
	flag := exportCmd.Flags().Lookup("output")
	require.NotNil(t, flag, "export command should have --output flag")
	assert.Equal(t, "scores.xlsx", flag.DefValue)
}
