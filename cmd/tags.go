package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Print the personality tags known to the catalog",
	Run: func(cmd *cobra.Command, _ []string) {
		app := newApplication(context.Background(), false)

		vocabulary := app.catalog.Vocabulary()
		for _, tag := range vocabulary {
			fmt.Fprintln(cmd.OutOrStdout(), tag)
		}

		app.logger.Debug("printed tag vocabulary", zap.Int("count", len(vocabulary)), zap.Int("dogs", app.catalog.Len()))
	},
}

func init() {
	rootCmd.AddCommand(tagsCmd)
}
