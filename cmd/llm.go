package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/studybuddy/internal/llm"
	"github.com/abhisek/studybuddy/internal/store"
	"github.com/abhisek/studybuddy/internal/ui/theme"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the log of model calls made while generating quizzes",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent model calls",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		since, _ := cmd.Flags().GetDuration("since")

		db, err := openEventLog(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		opts := store.QueryOpts{Limit: limit, Purpose: purpose}
		if since > 0 {
			opts.From = time.Now().Add(-since)
		}
		events, err := db.EventRepo().QueryLLMEvents(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		renderEventList(cmd.OutOrStdout(), events)
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full request and response of one model call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		db, err := openEventLog(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		e, err := db.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}
		renderEvent(cmd.OutOrStdout(), e)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage and estimated cost",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openEventLog(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := cmd.Context()
		byPurpose, err := db.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		byModel, err := db.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		renderUsage(cmd.OutOrStdout(), byPurpose, byModel)
		return nil
	},
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. quiz-gen)")
	llmListCmd.Flags().Duration("since", 0, "Only show calls made within this duration (e.g. 24h)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}

// openEventLog opens the local database that records model calls.
func openEventLog(cmd *cobra.Command) (*store.DB, error) {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return openDB(cfg)
}

const rule = "─"

func renderEventList(w io.Writer, events []store.LLMRequestEvent) {
	if len(events) == 0 {
		printStyled(w, warnStyle.Render("No LLM events found."))
		return
	}

	printStyled(w, theme.Label.Render(fmt.Sprintf("%-5s  %-19s  %-10s  %-28s  %6s  %6s  %7s  %s",
		"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")))
	printStyled(w, ruleStyle.Render(strings.Repeat(rule, 100)))

	for _, e := range events {
		ok := theme.Correct.Render("✓")
		if !e.Success {
			ok = theme.Incorrect.Render("✗")
		}
		printStyled(w, fmt.Sprintf("%-5d  %-19s  %-10s  %-28s  %6d  %6d  %7d  %s",
			e.ID,
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			truncate(e.Purpose, 10),
			truncate(e.Model, 28),
			e.InputTokens,
			e.OutputTokens,
			e.LatencyMs,
			ok,
		))
	}
}

func renderEvent(w io.Writer, e *store.LLMRequestEvent) {
	fields := []struct{ k, v string }{
		{"ID", strconv.FormatInt(e.ID, 10)},
		{"Time", e.Timestamp.Local().Format("2006-01-02 15:04:05")},
		{"Provider", e.Provider},
		{"Model", e.Model},
		{"Purpose", e.Purpose},
		{"Tokens", fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens)},
		{"Latency", fmt.Sprintf("%dms", e.LatencyMs)},
		{"Success", strconv.FormatBool(e.Success)},
	}
	if e.ErrorMessage != "" {
		fields = append(fields, struct{ k, v string }{"Error", e.ErrorMessage})
	}
	for _, f := range fields {
		printStyled(w, theme.Label.Render(fmt.Sprintf("%-10s", f.k+":"))+" "+f.v)
	}

	section := func(title, body string) {
		sep := ruleStyle.Render(strings.Repeat(rule, 60))
		printStyled(w, sep)
		printStyled(w, theme.Label.Render(title))
		printStyled(w, sep)
		if body == "" {
			body = "(not captured)"
		}
		printStyled(w, body)
	}
	printStyled(w, "")
	section("REQUEST", e.RequestBody)
	section("RESPONSE", e.ResponseBody)
}

// renderUsage prints token totals per purpose and an estimated cost per
// model. Models without a known price are listed separately and leave the
// total marked partial.
func renderUsage(w io.Writer, byPurpose []store.PurposeUsage, byModel []store.ModelUsage) {
	if len(byPurpose) == 0 {
		printStyled(w, warnStyle.Render("No LLM usage recorded yet."))
		return
	}

	printStyled(w, headingStyle.Render("Usage by Purpose"))
	printStyled(w, theme.Label.Render(fmt.Sprintf("%-16s  %6s  %10s  %10s  %10s  %8s",
		"Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")))
	printStyled(w, ruleStyle.Render(strings.Repeat(rule, 72)))

	var calls, in, out int
	for _, u := range byPurpose {
		printStyled(w, fmt.Sprintf("%-16s  %6d  %10d  %10d  %10d  %8d",
			u.Purpose, u.Calls, u.InputTokens, u.OutputTokens, u.InputTokens+u.OutputTokens, u.AvgLatencyMs))
		calls += u.Calls
		in += u.InputTokens
		out += u.OutputTokens
	}
	printStyled(w, ruleStyle.Render(strings.Repeat(rule, 72)))
	printStyled(w, fmt.Sprintf("%-16s  %6d  %10d  %10d  %10d", "TOTAL", calls, in, out, in+out))

	if len(byModel) == 0 {
		return
	}

	printStyled(w, "")
	printStyled(w, headingStyle.Render("Estimated Cost (USD)"))
	printStyled(w, theme.Label.Render(fmt.Sprintf("%-32s  %6s  %10s  %10s  %10s",
		"Model", "Calls", "Input", "Output", "Cost")))
	printStyled(w, ruleStyle.Render(strings.Repeat(rule, 72)))

	var total float64
	var unpriced []string
	for _, m := range byModel {
		cost := "?"
		if price := llm.LookupCost(m.Model); price != nil {
			c := price.Cost(m.InputTokens, m.OutputTokens)
			total += c
			cost = formatCost(c)
		} else {
			unpriced = append(unpriced, m.Model)
		}
		printStyled(w, fmt.Sprintf("%-32s  %6d  %10d  %10d  %10s",
			truncate(m.Model, 32), m.Calls, m.InputTokens, m.OutputTokens, cost))
	}

	printStyled(w, ruleStyle.Render(strings.Repeat(rule, 72)))
	label := "TOTAL"
	if len(unpriced) > 0 {
		label = "TOTAL (partial)"
	}
	printStyled(w, fmt.Sprintf("%-32s  %6s  %10s  %10s  %10s", label, "", "", "", formatCost(total)))
	if len(unpriced) > 0 {
		printStyled(w, warnStyle.Render("Pricing unavailable for: "+strings.Join(unpriced, ", ")))
	}
}
