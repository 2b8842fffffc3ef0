package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/nhath/ferrumdb/internal/history"
	"github.com/nhath/ferrumdb/internal/ui"
	"github.com/nhath/ferrumdb/internal/ui/highlight"
)

var (
	flagHistoryLimit  int
	flagHistoryOffset int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently executed statements for the configured connection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ui.InitStyles(cfg.Theme)

		store, err := openHistory(cfg.History)
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		defer store.Close()

		label := cfg.Database.Label()
		entries, err := store.List(label, flagHistoryLimit, flagHistoryOffset)
		if err != nil {
			return err
		}
		total, err := store.Count(label)
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No history for %s\n", label)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderHistory(entries))
		fmt.Fprintln(cmd.OutOrStdout(), ui.MetaStyle.Render(fmt.Sprintf("%d of %d entries for %s", len(entries), total, label)))
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "number of entries to show")
	historyCmd.Flags().IntVar(&flagHistoryOffset, "offset", 0, "number of newest entries to skip")
}

func renderHistory(entries []history.Entry) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(ui.TableBaseStyle).
		Headers("When", "Status", "ms", "Rows", "Query")

	for _, e := range entries {
		status := ui.SuccessStyle.Render(e.Status)
		query := highlight.SQL(e.QueryPreview(60))
		if e.Status == history.StatusError {
			status = ui.ErrorStyle.Render(e.Status)
			query += "\n" + ui.MetaStyle.Render(e.ErrorMessage)
		}
		t.Row(
			e.ExecutedAt.Local().Format("2006-01-02 15:04:05"),
			status,
			strconv.FormatInt(e.DurationMs, 10),
			strconv.Itoa(e.RowCount),
			query,
		)
	}

	return t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return ui.TableHeaderStyle.Padding(0, 1)
		}
		return lipgloss.NewStyle().Padding(0, 1)
	}).Render()
}
