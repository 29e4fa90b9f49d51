package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/domain"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Dashboard and statistics views",
}

var (
	logLevel       string
	overviewPeriod string
)

var dashboardStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Headline dashboard counters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := client.DashboardStats(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(s)
		}

		w := newTable()
		fmt.Fprintf(w, "Users\t%d\n", s.TotalUsers)
		fmt.Fprintf(w, "Active today\t%d\n", s.ActiveUsersToday)
		fmt.Fprintf(w, "Sessions\t%d\n", s.TotalSessions)
		fmt.Fprintf(w, "Snapshots\t%d\n", s.TotalSnapshots)
		if err := w.Flush(); err != nil {
			return err
		}
		printCounts("Emotions:", s.EmotionDistribution)
		return nil
	},
}

var dashboardSessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Currently active sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := client.ActiveSessions(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(sessions)
		}

		w := newTable()
		fmt.Fprintln(w, "ID\tUSER\tTYPE\tSTARTED\tDURATION\tSNAPSHOTS")
		for _, s := range sessions {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n", s.ID, s.UserName, s.UserType, s.StartTime, s.Duration, s.Snapshots)
		}
		return w.Flush()
	},
}

var dashboardLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "System logs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logs, err := client.SystemLogs(cmd.Context(), logLevel)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(logs)
		}

		w := newTable()
		fmt.Fprintln(w, "TIMESTAMP\tLEVEL\tEVENT\tMESSAGE")
		for _, l := range logs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", l.Timestamp, l.Level, l.EventType, l.Message)
		}
		return w.Flush()
	},
}

var dashboardOverviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Statistics overview for a period",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := client.StatisticsOverview(cmd.Context(), overviewPeriod)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(o)
		}

		w := newTable()
		fmt.Fprintf(w, "Period\t%s\n", o.Period)
		fmt.Fprintf(w, "Analyses\t%d\n", o.Overview.TotalEmotionAnalyses)
		fmt.Fprintf(w, "Unique users\t%d\n", o.Overview.UniqueUsers)
		fmt.Fprintf(w, "Avg session (s)\t%.1f\n", o.Overview.AvgSessionDuration)
		fmt.Fprintf(w, "Detection accuracy\t%.1f\n", o.Overview.FaceDetectionAccuracy)
		return w.Flush()
	},
}

var dashboardSystemCmd = &cobra.Command{
	Use:   "system",
	Short: "System-wide user and session counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := client.SystemStats(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(s)
		}

		w := newTable()
		fmt.Fprintf(w, "Users\t%d (%d registered, %d guests)\n", s.TotalUsers, s.RegisteredUsers, s.GuestUsers)
		fmt.Fprintf(w, "Active today\t%d\n", s.ActiveUsersToday)
		fmt.Fprintf(w, "Sessions\t%d\n", s.TotalSessions)
		fmt.Fprintf(w, "Snapshots\t%d\n", s.TotalSnapshots)
		if err := w.Flush(); err != nil {
			return err
		}
		printCounts("Emotions:", s.EmotionDistribution)
		return nil
	},
}

func init() {
	dashboardLogsCmd.Flags().StringVar(&logLevel, "level", domain.LogLevelAll, "all, info, warning or error")
	dashboardOverviewCmd.Flags().StringVar(&overviewPeriod, "period", domain.PeriodWeek, "today, week or month")

	dashboardCmd.AddCommand(dashboardStatsCmd, dashboardSessionsCmd, dashboardLogsCmd,
		dashboardOverviewCmd, dashboardSystemCmd)
	rootCmd.AddCommand(dashboardCmd)
}
