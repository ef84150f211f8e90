package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List chat sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		sessions, err := sessionDirectory().List(ctx)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Println("No chat sessions yet. Ask a question to start one.")
			return nil
		}
		for _, s := range sessions {
			fmt.Printf("%6d  %s  %s\n", s.ID, s.CreatedAt.Local().Format("2006-01-02 15:04"), s.DisplayName())
		}
		return nil
	},
}
