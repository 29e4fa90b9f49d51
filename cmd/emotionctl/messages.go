package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/domain"
)

var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "Add and query messages",
}

var (
	addUserID  string
	addSender  string
	addGender  string
	addAge     int
	addEmotion string
	recentN    int
)

var messagesAddCmd = &cobra.Command{
	Use:   "add <content>",
	Short: "Add a message, creating its sender when --user is not given",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m := domain.Message{
			UserID:          domain.ID(addUserID),
			SenderName:      addSender,
			Gender:          addGender,
			ApproximateAge:  addAge,
			DominantEmotion: domain.CanonicalEmotion(addEmotion),
			MessageContent:  args[0],
		}
		if m.UserID.IsZero() && m.SenderName == "" {
			return fmt.Errorf("one of --user or --sender is required")
		}

		res, err := client.ProcessFullMessage(cmd.Context(), m)
		if res != nil && res.UserCreated {
			fmt.Fprintf(stdout, "Created user %s\n", res.UserID)
		}
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(res)
		}
		fmt.Fprintf(stdout, "Added message %s\n", res.Message.MessageID)
		return nil
	},
}

var messagesGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one message",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := client.GetMessage(cmd.Context(), domain.ID(args[0]))
		if err != nil {
			return err
		}
		return printMessages([]domain.Message{*m})
	},
}

var messagesRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List the newest messages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		msgs, err := client.RecentMessages(cmd.Context(), recentN)
		if err != nil {
			return err
		}
		return printMessages(msgs)
	},
}

var messagesSearchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Full-text search over message content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		msgs, err := client.SearchMessages(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printMessages(msgs)
	},
}

var messagesByEmotionCmd = &cobra.Command{
	Use:   "by-emotion <emotion>",
	Short: "List messages with a dominant emotion",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		msgs, err := client.MessagesByEmotion(cmd.Context(), domain.CanonicalEmotion(args[0]))
		if err != nil {
			return err
		}
		return printMessages(msgs)
	},
}

var messagesCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of messages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := client.CountMessages(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, n)
		return nil
	},
}

var messagesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a message",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.DeleteMessage(cmd.Context(), domain.ID(args[0])); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Deleted message %s\n", args[0])
		return nil
	},
}

func init() {
	messagesAddCmd.Flags().StringVar(&addUserID, "user", "", "existing user id")
	messagesAddCmd.Flags().StringVar(&addSender, "sender", "", "sender name, used to create a user")
	messagesAddCmd.Flags().StringVar(&addGender, "gender", "", "sender gender")
	messagesAddCmd.Flags().IntVar(&addAge, "age", 0, "sender approximate age")
	messagesAddCmd.Flags().StringVar(&addEmotion, "emotion", "", "dominant emotion (English or Arabic label)")
	messagesRecentCmd.Flags().IntVar(&recentN, "limit", 10, "number of messages")

	messagesCmd.AddCommand(messagesAddCmd, messagesGetCmd, messagesRecentCmd, messagesSearchCmd,
		messagesByEmotionCmd, messagesCountCmd, messagesDeleteCmd)
	rootCmd.AddCommand(messagesCmd)
}
