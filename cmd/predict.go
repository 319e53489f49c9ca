package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/luxe-atelier/crm-insight/internal/forecast"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict the outcome of a single deal",
	Long: `Estimate close probability, expected value, time to close and risk
factors for one deal, using the owning client's lead score and the close
times of historically similar deals (value within 30%).

Example:
  predict --deal 4c1a...`,
	RunE: runPredict,
}

func init() {
	predictCmd.Flags().String("deal", "", "deal id to predict")
	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dealID, _ := cmd.Flags().GetString("deal")
	if dealID == "" {
		return eris.New("predict: --deal is required")
	}

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	deal, err := st.GetDeal(ctx, dealID)
	if err != nil {
		return err
	}
	client, err := st.GetClient(ctx, deal.ClientID)
	if err != nil {
		return err
	}
	allDeals, err := st.ListDeals(ctx)
	if err != nil {
		return err
	}

	engine := forecast.NewEngine(cfg.Forecast)
	similar := forecast.SimilarDeals(*deal, allDeals)
	outcome := engine.PredictDealOutcome(*deal, *client, similar)

	p := message.NewPrinter(language.English)
	out := cmd.OutOrStdout()
	p.Fprintf(out, "Deal: %s ($%.0f, %s)\n", deal.Title, deal.Value, deal.Stage)
	p.Fprintf(out, "  Close probability: %.0f%%\n", outcome.Probability*100)
	p.Fprintf(out, "  Expected value:    $%.0f\n", outcome.ExpectedValue)
	p.Fprintf(out, "  Time to close:     %d days\n", outcome.TimeToClose)
	if len(outcome.RiskFactors) == 0 {
		fmt.Fprintln(out, "  No risk factors identified")
		return nil
	}
	fmt.Fprintln(out, "Risk factors:")
	for _, r := range outcome.RiskFactors {
		fmt.Fprintf(out, "  - %s\n", r)
	}
	return nil
}
