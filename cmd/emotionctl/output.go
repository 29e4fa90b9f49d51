package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/domain"
)

var stdout io.Writer = os.Stdout

func printJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(stdout, 0, 0, 3, ' ', 0)
}

// printCounts prints a label→count table, highest first.
func printCounts(title string, counts map[string]int) {
	labels := make([]string, 0, len(counts))
	for l := range counts {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})

	fmt.Fprintln(stdout, title)
	w := newTable()
	for _, l := range labels {
		fmt.Fprintf(w, "  %s\t%d\n", domain.EmotionLabel(l, lang), counts[l])
	}
	w.Flush()
}

func printMessages(msgs []domain.Message) error {
	if jsonOutput {
		return printJSON(msgs)
	}
	if len(msgs) == 0 {
		fmt.Fprintln(stdout, "No messages found.")
		return nil
	}

	w := newTable()
	fmt.Fprintln(w, "ID\tSENDER\tEMOTION\tTIMESTAMP\tCONTENT")
	fmt.Fprintln(w, "--\t------\t-------\t---------\t-------")
	for _, m := range msgs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			m.ID, m.SenderName, domain.EmotionLabel(m.DominantEmotion, lang), m.Timestamp, truncate(m.MessageContent, 40))
	}
	return w.Flush()
}

func printUser(u *domain.User) error {
	if jsonOutput {
		return printJSON(u)
	}

	w := newTable()
	fmt.Fprintf(w, "ID\t%s\n", u.ID)
	fmt.Fprintf(w, "Name\t%s\n", u.Name)
	if u.Email != "" {
		fmt.Fprintf(w, "Email\t%s\n", u.Email)
	}
	if u.HasGender() {
		fmt.Fprintf(w, "Gender\t%s\n", domain.GenderLabel(firstNonEmpty(u.DetectedGender, u.Gender), lang))
	}
	if u.HasAge() {
		age := u.ApproximateAge
		if u.DetectedAge != nil && *u.DetectedAge > 0 {
			age = *u.DetectedAge
		}
		fmt.Fprintf(w, "Age\t%d\n", age)
	}
	fmt.Fprintf(w, "Guest\t%t\n", u.IsGuest)
	fmt.Fprintf(w, "Active\t%t\n", u.IsActive)
	return w.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
