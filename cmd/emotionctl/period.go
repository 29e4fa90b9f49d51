package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/domain"
)

var (
	periodFrom string
	periodTo   string
	periodLast time.Duration
)

var periodCmd = &cobra.Command{
	Use:   "period",
	Short: "Emotion analysis of the recent messages in a time range",
	Long: `Summarizes the newest page of messages whose timestamps fall in the range.
Use --from/--to with ISO-8601 timestamps, or --last for a trailing window.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start, end, err := periodRange(time.Now())
		if err != nil {
			return err
		}

		a, err := client.EmotionAnalysisForPeriod(cmd.Context(), start, end)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(a)
		}

		fmt.Fprintf(stdout, "%s to %s: %d messages\n", a.Start.Format(time.RFC3339), a.End.Format(time.RFC3339), a.TotalMessages)
		if a.MostCommon != "" {
			fmt.Fprintf(stdout, "Most common: %s\n", domain.EmotionLabel(a.MostCommon, lang))
		}
		printCounts("Dominant emotions:", a.DominantCounts)

		labels := make([]string, 0, len(a.AverageEmotions))
		for l := range a.AverageEmotions {
			labels = append(labels, l)
		}
		sort.Strings(labels)

		fmt.Fprintln(stdout, "Average emotions:")
		w := newTable()
		for _, l := range labels {
			fmt.Fprintf(w, "  %s\t%.1f\n", domain.EmotionLabel(l, lang), a.AverageEmotions[l])
		}
		return w.Flush()
	},
}

// periodRange resolves the flags into [start, end].
func periodRange(now time.Time) (time.Time, time.Time, error) {
	if periodLast > 0 {
		if periodFrom != "" || periodTo != "" {
			return time.Time{}, time.Time{}, fmt.Errorf("--last cannot be combined with --from/--to")
		}
		return now.Add(-periodLast), now, nil
	}
	if periodFrom == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("--from or --last is required")
	}

	start, err := domain.ParseTimestamp(periodFrom)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --from: %w", err)
	}
	end := now
	if periodTo != "" {
		if end, err = domain.ParseTimestamp(periodTo); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to: %w", err)
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to is before --from")
	}
	return start, end, nil
}

func init() {
	periodCmd.Flags().StringVar(&periodFrom, "from", "", "range start (ISO-8601)")
	periodCmd.Flags().StringVar(&periodTo, "to", "", "range end (ISO-8601, default: now)")
	periodCmd.Flags().DurationVar(&periodLast, "last", 0, "trailing window, e.g. 24h")
	rootCmd.AddCommand(periodCmd)
}
