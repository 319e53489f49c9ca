package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/luxe-atelier/crm-insight/internal/followup"
	"github.com/luxe-atelier/crm-insight/internal/model"
	"github.com/luxe-atelier/crm-insight/internal/store"
)

var followupsCmd = &cobra.Command{
	Use:   "followups",
	Short: "Generate prioritized follow-up recommendations",
	Long: `Derive follow-up actions from client value, lead score, deal stages
and time since last contact, scheduled at each client's best contact time.

Examples:
  followups --client 7d9f...
  followups --all --save`,
	RunE: runFollowups,
}

func init() {
	f := followupsCmd.Flags()
	f.String("client", "", "generate for a single client by id")
	f.Bool("all", false, "generate for every client")
	f.Bool("save", false, "persist generated follow-up tasks")

	rootCmd.AddCommand(followupsCmd)
}

func runFollowups(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clientID, _ := cmd.Flags().GetString("client")
	all, _ := cmd.Flags().GetBool("all")
	save, _ := cmd.Flags().GetBool("save")

	if (clientID == "") == !all {
		return eris.New("followups: exactly one of --client or --all is required")
	}

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

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

	engine := followup.NewEngine()

	var followUps []model.FollowUp
	for _, client := range clients {
		interactions, err := st.GetInteractionsByClient(ctx, client.ID)
		if err != nil {
			return err
		}
		messages, err := st.GetMessagesByClient(ctx, client.ID)
		if err != nil {
			return err
		}
		deals, err := st.GetDealsByClient(ctx, client.ID)
		if err != nil {
			return err
		}
		followUps = append(followUps,
			engine.BuildFollowUps([]model.Client{client}, interactions, messages, deals)...)
	}

	if save {
		for _, fu := range followUps {
			if _, err := st.CreateFollowUp(ctx, fu); err != nil {
				return err
			}
		}
		zap.L().Info("followups: saved", zap.Int("count", len(followUps)))
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRIORITY\tTYPE\tSCHEDULED\tREASON")
	for _, fu := range followUps {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			fu.Priority, fu.Type, fu.ScheduledFor.Format("Mon 2006-01-02 15:04"), fu.Description)
	}
	return eris.Wrap(tw.Flush(), "followups: flush table")
}
