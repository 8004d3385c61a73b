package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show score statistics, overall or for one topic",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		topic, _ := cmd.Flags().GetString("topic")

		cfg, log, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		db, history, err := openHistory(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer db.Close()
		defer history.Close()

		st, err := history.Aggregate(ctx, strings.TrimSpace(topic))
		if err != nil {
			return err
		}
		renderStats(cmd.OutOrStdout(), st)
		return nil
	},
}

func init() {
	statsCmd.Flags().StringP("topic", "t", "", "Only include quizzes on this topic")
}
