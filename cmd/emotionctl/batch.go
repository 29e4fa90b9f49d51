package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/domain"
)

var batchCmd = &cobra.Command{
	Use:   "batch <file.json>",
	Short: "Add every message of a JSON array, creating senders as needed",
	Long: `Reads a JSON array of messages and adds them one at a time, in order.
A failed item does not stop the batch; the command exits non-zero when any item failed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		msgs, err := readMessages(args[0])
		if err != nil {
			return err
		}

		results := client.ProcessBatchMessages(cmd.Context(), msgs)
		if jsonOutput {
			return printJSON(results)
		}

		failed := 0
		w := newTable()
		fmt.Fprintln(w, "#\tSTATUS\tUSER\tMESSAGE\tERROR")
		for _, r := range results {
			status, userID, messageID, errText := "ok", "", "", ""
			if r.Result != nil {
				userID = r.Result.UserID.String()
				if r.Result.Message != nil {
					messageID = r.Result.Message.MessageID.String()
				}
			}
			if !r.Success {
				status = "failed"
				failed++
				errText = r.Err.Error()
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.Index, status, userID, messageID, errText)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Fprintf(stdout, "%d of %d messages added\n", len(results)-failed, len(results))
		if failed > 0 {
			return fmt.Errorf("%d messages failed", failed)
		}
		return nil
	},
}

func readMessages(path string) ([]domain.Message, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}

	var msgs []domain.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("parse batch file: %w", err)
	}
	return msgs, nil
}

func init() {
	rootCmd.AddCommand(batchCmd)
}
