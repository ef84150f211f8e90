package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage uploaded documents",
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded documents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		docs, err := documentPanel().List(ctx)
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			fmt.Println("No documents uploaded yet.")
			return nil
		}
		for _, d := range docs {
			fmt.Printf("%6d  %s  %s\n", d.ID, d.FileName, d.URL)
		}
		return nil
	},
}

var docsUploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Upload a document (.pdf .doc .docx .txt)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		doc, err := documentPanel().Upload(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Uploaded %s (id %d)\n", doc.FileName, doc.ID)
		return nil
	},
}

var docsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a document by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid document id %q", args[0])
		}

		ctx, stop := signalContext()
		defer stop()

		if err := documentPanel().Delete(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Deleted document %d\n", id)
		return nil
	},
}

func init() {
	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsUploadCmd)
	docsCmd.AddCommand(docsDeleteCmd)
}
