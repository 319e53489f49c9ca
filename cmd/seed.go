package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/luxe-atelier/crm-insight/internal/db"
	"github.com/luxe-atelier/crm-insight/internal/model"
	"github.com/luxe-atelier/crm-insight/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a YAML fixture file into the store",
	Long: `Load clients, messages, interactions and deals from a YAML document.

Example:
  seed --file fixtures.yaml`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().String("file", "", "fixture file path")
	rootCmd.AddCommand(seedCmd)
}

// fixtureDoc is the on-disk shape of a seed file.
type fixtureDoc struct {
	Clients      []model.Client      `yaml:"clients"`
	Messages     []model.Message     `yaml:"messages"`
	Interactions []model.Interaction `yaml:"interactions"`
	Deals        []model.Deal        `yaml:"deals"`
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	path, _ := cmd.Flags().GetString("file")
	if path == "" {
		return eris.New("seed: --file is required")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "seed: read %s", path)
	}
	var doc fixtureDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return eris.Wrapf(err, "seed: parse %s", path)
	}

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	for _, c := range doc.Clients {
		if _, err := st.CreateClient(ctx, c); err != nil {
			return err
		}
	}
	if err := seedMessages(ctx, st, doc.Messages); err != nil {
		return err
	}
	for _, i := range doc.Interactions {
		if _, err := st.CreateInteraction(ctx, i); err != nil {
			return err
		}
	}
	for _, d := range doc.Deals {
		if _, err := st.CreateDeal(ctx, d); err != nil {
			return err
		}
	}

	zap.L().Info("seed: fixtures loaded",
		zap.String("file", path),
		zap.Int("clients", len(doc.Clients)),
		zap.Int("messages", len(doc.Messages)),
		zap.Int("interactions", len(doc.Interactions)),
		zap.Int("deals", len(doc.Deals)),
	)
	return nil
}

// seedMessages bulk-loads via COPY on Postgres, where fixture conversations
// can run to thousands of rows, and falls back to per-row inserts elsewhere.
func seedMessages(ctx context.Context, st store.Store, messages []model.Message) error {
	pg, ok := st.(*store.PostgresStore)
	if !ok {
		for _, m := range messages {
			if _, err := st.CreateMessage(ctx, m); err != nil {
				return err
			}
		}
		return nil
	}

	rows := make([][]any, 0, len(messages))
	for _, m := range messages {
		rows = append(rows, []any{
			m.ID, m.ConversationID, m.ClientID, m.Content, string(m.Direction),
			string(m.Platform), string(m.Sentiment), m.SentimentScore, m.Timestamp,
		})
	}
	_, err := db.CopyFrom(ctx, pg.Pool(), "messages",
		[]string{"id", "conversation_id", "client_id", "content", "direction", "platform", "sentiment", "sentiment_score", "timestamp"},
		rows)
	return err
}
