package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/luxe-atelier/crm-insight/internal/config"
	"github.com/luxe-atelier/crm-insight/internal/forecast"
	"github.com/luxe-atelier/crm-insight/internal/model"
	"github.com/luxe-atelier/crm-insight/internal/store"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Generate a revenue forecast from the current pipeline",
	Long: `Predict revenue, deal count and confidence for a period.

The prediction weights open pipeline value by stage and deal probability,
then adjusts for conversion rate, seasonality and lead quality. Past
forecasts with reconciled actuals feed the confidence estimate.

Examples:
  forecast --period monthly
  forecast --period quarterly --save`,
	RunE: runForecast,
}

func init() {
	f := forecastCmd.Flags()
	f.String("period", "monthly", "forecast period: weekly, monthly or quarterly")
	f.Bool("save", false, "persist the forecast record")

	rootCmd.AddCommand(forecastCmd)
}

func runForecast(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rawPeriod, _ := cmd.Flags().GetString("period")
	save, _ := cmd.Flags().GetBool("save")

	period, err := model.ParsePeriod(rawPeriod)
	if err != nil {
		return err
	}
	if err := config.ValidateForecast(cfg.Forecast); err != nil {
		return err
	}

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	clients, err := st.ListClients(ctx, store.ClientFilter{})
	if err != nil {
		return err
	}
	deals, err := st.ListDeals(ctx)
	if err != nil {
		return err
	}
	historical, err := st.ListForecasts(ctx)
	if err != nil {
		return err
	}

	engine := forecast.NewEngine(cfg.Forecast)
	data := engine.Generate(period, clients, deals, nil, nil, historical)

	if save {
		record := engine.Record(data)
		if _, err := st.CreateForecast(ctx, record); err != nil {
			return err
		}
		zap.L().Info("forecast: saved", zap.String("period", string(period)))
	}

	printForecast(cmd, data)
	return nil
}

func printForecast(cmd *cobra.Command, data forecast.Data) {
	p := message.NewPrinter(language.English)
	out := cmd.OutOrStdout()

	p.Fprintf(out, "Forecast (%s): %s to %s\n",
		data.Period, data.StartDate.Format("2006-01-02"), data.EndDate.Format("2006-01-02"))
	p.Fprintf(out, "  Predicted revenue:  $%.0f\n", data.PredictedRevenue)
	p.Fprintf(out, "  Predicted deals:    %d\n", data.PredictedDeals)
	p.Fprintf(out, "  Confidence:         %.0f%%\n", data.Confidence*100)
	p.Fprintf(out, "  Pipeline value:     $%.0f (weighted $%.0f)\n",
		data.Factors.PipelineValue, data.Pipeline.WeightedValue)
	p.Fprintf(out, "  Conversion rate:    %.0f%%\n", data.Factors.ConversionRate*100)
	p.Fprintf(out, "  Lead quality:       %.0f\n", data.Factors.LeadQuality)
	p.Fprintf(out, "  Sales velocity:     %.0f days\n", data.Factors.SalesVelocity)
	p.Fprintf(out, "  Seasonal trend:     %.2f\n", data.Factors.SeasonalTrend)

	fmt.Fprintln(out, "Recommendations:")
	for _, rec := range data.Recommendations {
		fmt.Fprintf(out, "  - %s\n", rec)
	}
}
