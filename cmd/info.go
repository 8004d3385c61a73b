package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/studybuddy/internal/kb"
	"github.com/abhisek/studybuddy/internal/ui/theme"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show knowledge base details and data sources",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, log, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		client, err := kb.New(ctx, cfg.KB(), log)
		if err != nil {
			return err
		}
		info, err := client.Info(ctx)
		if err != nil {
			return err
		}
		sources, err := client.DataSources(ctx)
		if err != nil {
			return err
		}
		renderInfo(cmd.OutOrStdout(), info, sources)
		return nil
	},
}

func renderInfo(w io.Writer, info *kb.Info, sources []kb.DataSource) {
	printStyled(w, headingStyle.Render("===== KNOWLEDGE BASE INFORMATION ====="))
	printStyled(w, infoStyle.Render("ID: "+info.ID))
	printStyled(w, infoStyle.Render("Name: "+info.Name))
	printStyled(w, infoStyle.Render("Description: "+info.Description))
	printStyled(w, theme.Correct.Render("Status: "+info.Status))
	printStyled(w, infoStyle.Render("Created: "+formatTime(info.CreatedAt)))
	printStyled(w, infoStyle.Render("Last Modified: "+formatTime(info.UpdatedAt)))

	printStyled(w, "")
	printStyled(w, theme.Label.Render(fmt.Sprintf("Data Sources (%d):", len(sources))))
	for _, ds := range sources {
		printStyled(w, theme.Correct.Render(fmt.Sprintf("  - %s: %s (%s)", ds.Name, ds.ID, ds.Status)))
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
