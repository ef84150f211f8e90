package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askSessionName string

// askCmd is the one-shot path: a single query against the document set. The
// backend records the exchange under a fresh session either way, so the id is
// printed for later pickup in the interactive view.
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a one-off question about your documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		ctx, stop := signalContext()
		defer stop()

		res, err := conversation().Search(ctx, query, askSessionName)
		if err != nil {
			return err
		}

		fmt.Println(res.Answer.Content)
		if p := res.Answer.Provenance; p != nil {
			fmt.Printf("\nsource: %s · page %d · score %.3f\n", p.FileName, p.PageNumber, p.Score)
		}
		if res.SessionID > 0 {
			fmt.Printf("recorded in session %d\n", res.SessionID)
		}
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askSessionName, "name", "", "name for the session this exchange opens")
}
