package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/luxe-atelier/crm-insight/internal/model"
	"github.com/luxe-atelier/crm-insight/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export client scores to an XLSX workbook",
	Long: `Write current client lead scores to a spreadsheet for sharing with
boutique teams.

Example:
  export --output scores.xlsx`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("output", "scores.xlsx", "output workbook path")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	outputPath, _ := cmd.Flags().GetString("output")

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	clients, err := st.ListClients(ctx, store.ClientFilter{})
	if err != nil {
		return err
	}

	file, err := buildScoresWorkbook(clients)
	if err != nil {
		return err
	}

	if err := file.Save(outputPath); err != nil {
		return eris.Wrapf(err, "export: save %s", outputPath)
	}

	zap.L().Info("export: workbook written",
		zap.String("path", outputPath),
		zap.Int("clients", len(clients)),
	)
	return nil
}

func buildScoresWorkbook(clients []model.Client) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Scores")
	if err != nil {
		return nil, eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"ID", "Name", "Status", "Lead Score", "Probability", "Engagement", "Budget", "Next Best Action"} {
		header.AddCell().SetString(h)
	}

	for _, c := range clients {
		row := sheet.AddRow()
		row.AddCell().SetString(c.ID)
		row.AddCell().SetString(c.Name)
		row.AddCell().SetString(string(c.Status))
		row.AddCell().SetFloat(c.LeadScore)
		row.AddCell().SetFloat(c.ConversionProbability)
		row.AddCell().SetString(string(c.EngagementLevel))
		row.AddCell().SetFloat(c.Budget)
		row.AddCell().SetString(c.NextBestAction)
	}

	return file, nil
}
