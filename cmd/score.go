package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/luxe-atelier/crm-insight/internal/config"
	"github.com/luxe-atelier/crm-insight/internal/model"
	"github.com/luxe-atelier/crm-insight/internal/scoring"
	"github.com/luxe-atelier/crm-insight/internal/store"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score leads from conversation and deal history",
	Long: `Compute 0-100 lead scores from message history, interactions and deals.

Each score combines eight weighted factors (engagement, behavior,
demographics, interaction quality, timeline, budget, authority, need)
plus derived conversion probability and a next-best-action.

Examples:
  # Score a single client
  score --client 7d9f...

  # Score everyone and persist the results
  score --all --update

  # Export scores to CSV
  score --all --format csv --output scores.csv`,
	RunE: runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.String("client", "", "score a single client by id")
	f.Bool("all", false, "score every client")
	f.Bool("update", false, "persist scores and history to the store")
	f.String("format", "table", "output format: table or csv")
	f.String("output", "", "output file path (default: stdout)")
	f.Float64("engagement-weight", 0, "override engagement weight")
	f.Float64("behavior-weight", 0, "override behavior weight")

	rootCmd.AddCommand(scoreCmd)
}

type scoredClient struct {
	Client model.Client
	Result scoring.Result
}

func runScore(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clientID, _ := cmd.Flags().GetString("client")
	all, _ := cmd.Flags().GetBool("all")
	update, _ := cmd.Flags().GetBool("update")
	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")

	if (clientID == "") == !all {
		return eris.New("score: exactly one of --client or --all is required")
	}

	scoringCfg := cfg.Scoring
	if w, _ := cmd.Flags().GetFloat64("engagement-weight"); w > 0 {
		scoringCfg.EngagementWeight = w
	}
	if w, _ := cmd.Flags().GetFloat64("behavior-weight"); w > 0 {
		scoringCfg.BehaviorWeight = w
	}
	if err := config.ValidateScoring(scoringCfg); err != nil {
		return err
	}

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	engine := scoring.NewEngine(scoringCfg)

	var clients []model.Client
	if clientID != "" {
		c, err := st.GetClient(ctx, clientID)
		if err != nil {
			return err
		}
		clients = []model.Client{*c}
	} else {
		clients, err = st.ListClients(ctx, store.ClientFilter{})
		if err != nil {
			return err
		}
	}

	results := make([]scoredClient, len(clients))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(scoringCfg.BulkConcurrency)
	for i, client := range clients {
		g.Go(func() error {
			res, err := scoreOne(gctx, st, engine, client, update)
			if err != nil {
				return err
			}
			results[i] = scoredClient{Client: client, Result: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Result.Score > results[j].Result.Score
	})

	zap.L().Info("score: run complete",
		zap.Int("clients", len(results)),
		zap.Bool("updated", update),
	)

	return writeScores(results, format, outputPath)
}

func scoreOne(ctx context.Context, st store.Store, engine *scoring.Engine, client model.Client, update bool) (scoring.Result, error) {
	messages, err := st.GetMessagesByClient(ctx, client.ID)
	if err != nil {
		return scoring.Result{}, err
	}
	interactions, err := st.GetInteractionsByClient(ctx, client.ID)
	if err != nil {
		return scoring.Result{}, err
	}
	deals, err := st.GetDealsByClient(ctx, client.ID)
	if err != nil {
		return scoring.Result{}, err
	}

	if update {
		return engine.Update(ctx, st, client, messages, interactions, deals, "manual_rescore")
	}
	return engine.Score(client, messages, interactions, deals), nil
}

func writeScores(results []scoredClient, format, outputPath string) error {
	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return eris.Wrapf(err, "score: create %s", outputPath)
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "csv":
		w := csv.NewWriter(out)
		if err := w.Write([]string{"id", "name", "score", "engagement", "behavior", "budget", "insights"}); err != nil {
			return eris.Wrap(err, "score: write csv header")
		}
		for _, r := range results {
			row := []string{
				r.Client.ID,
				r.Client.Name,
				strconv.Itoa(r.Result.Score),
				fmt.Sprintf("%.0f", r.Result.Factors.EngagementScore),
				fmt.Sprintf("%.0f", r.Result.Factors.BehaviorScore),
				fmt.Sprintf("%.0f", r.Result.Factors.BudgetScore),
				strconv.Itoa(len(r.Result.Insights)),
			}
			if err := w.Write(row); err != nil {
				return eris.Wrap(err, "score: write csv row")
			}
		}
		w.Flush()
		return eris.Wrap(w.Error(), "score: flush csv")
	case "table":
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tSCORE\tLEVEL\tNEXT ACTION")
		for _, r := range results {
			level := model.EngagementLevelForScore(float64(r.Result.Score))
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n",
				r.Client.Name, r.Result.Score, level,
				scoring.NextBestAction(r.Client, r.Result.Factors))
		}
		return eris.Wrap(tw.Flush(), "score: flush table")
	default:
		return eris.Errorf("score: unknown format %q (want table or csv)", format)
	}
}
