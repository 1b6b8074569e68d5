package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewCampaignCmd создаёт группу команд для управления кампаниями.
func NewCampaignCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "campaign",
		Short: "Manage notification campaigns",
	}

	cmd.AddCommand(
		newCampaignListCmd(clientFn, outputFn),
		newCampaignSweepCmd(clientFn, outputFn),
		newCampaignReportCmd(clientFn, outputFn),
	)

	return cmd
}

func newCampaignListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List campaigns and their schedules",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			campaigns, err := client.ListCampaigns()
			if err != nil {
				return err
			}

			headers := []string{"CAMPAIGN", "CRON", "TZ", "NEXT_RUN", "RUNNING"}
			rows := make([][]string, len(campaigns))
			for i, c := range campaigns {
				rows[i] = []string{
					c.Kind, c.CronExpr, c.Timezone, c.NextRun,
					strconv.FormatBool(c.Running),
				}
			}

			out.Print(headers, rows, campaigns)
			return nil
		},
	}
}

func newCampaignSweepCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep KIND",
		Short: "Trigger an out-of-schedule sweep",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.TriggerSweep(args[0]); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Sweep started: %s", args[0]))
			return nil
		},
	}
}

func newCampaignReportCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "report KIND",
		Short: "Show the last sweep report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			report, err := client.GetReport(args[0])
			if err != nil {
				return err
			}

			headers := []string{"CAMPAIGN", "ELIGIBLE", "SENT", "SEND_FAILED", "COMMITTED", "COMMIT_FAILED", "STARTED", "DURATION"}
			rows := [][]string{{
				report.Campaign,
				strconv.Itoa(report.Eligible),
				strconv.Itoa(report.Sent),
				strconv.Itoa(report.SendFailed),
				strconv.Itoa(report.Committed),
				strconv.Itoa(report.CommitFailed),
				report.StartedAt,
				report.Duration,
			}}

			out.Print(headers, rows, report)
			return nil
		},
	}
}
