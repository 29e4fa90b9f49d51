package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/domain"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show emotion history",
}

var historyMessageCmd = &cobra.Command{
	Use:   "message <id>",
	Short: "Emotion history of one message",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := client.MessageHistory(cmd.Context(), domain.ID(args[0]))
		if err != nil {
			return err
		}
		return printHistory(entries)
	},
}

var historyUserCmd = &cobra.Command{
	Use:   "user <id>",
	Short: "Emotion history of one user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := client.UserHistory(cmd.Context(), domain.ID(args[0]))
		if err != nil {
			return err
		}
		return printHistory(entries)
	},
}

func printHistory(entries []domain.HistoryEntry) error {
	if jsonOutput {
		return printJSON(entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(stdout, "No history found.")
		return nil
	}

	w := newTable()
	fmt.Fprintln(w, "ID\tTIMESTAMP\tEMOTIONS")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.ID, e.Timestamp, formatPercentages(e.EmotionPercentage))
	}
	return w.Flush()
}

// formatPercentages renders labels in detection order, e.g. "happy=80 sad=20".
func formatPercentages(p map[string]float64) string {
	parts := make([]string, 0, len(p))
	for _, l := range domain.Emotions(p).Labels() {
		parts = append(parts, fmt.Sprintf("%s=%.0f", domain.EmotionLabel(l, lang), p[l]))
	}
	return strings.Join(parts, " ")
}

func init() {
	historyCmd.AddCommand(historyMessageCmd, historyUserCmd)
	rootCmd.AddCommand(historyCmd)
}
