package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show the admin usage report",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		report, err := analyticsClient().Fetch(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Users:     %d total (%d admins, %d regular)\n",
			report.Users.Total, report.Users.Admins, report.Users.RegularUsers)
		fmt.Printf("Documents: %d total, %d chunks indexed\n",
			report.Documents.Total, report.Chunks.Total)
		fmt.Printf("Chat:      %d sessions, %d messages\n",
			report.Chat.TotalSessions, report.Chat.TotalMessages)

		if len(report.PerUserStats) > 0 {
			fmt.Println("\nPer user:")
			for _, row := range report.PerUserStats {
				fmt.Printf("  %-20s docs=%d sessions=%d messages=%d\n",
					row.Username, row.Documents, row.ChatSessions, row.ChatMessages)
			}
		}
		return nil
	},
}
