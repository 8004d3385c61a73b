package cmd

import (
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show your recent quiz results",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		limit, _ := cmd.Flags().GetInt("limit")

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

		sessions, err := history.ListRecent(ctx, limit)
		if err != nil {
			return err
		}
		renderHistory(cmd.OutOrStdout(), sessions)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 10, "Number of results to show")
}
