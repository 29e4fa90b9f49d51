package main

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/domain"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage backend users",
}

var (
	newUserGender string
	newUserAge    int
	listPage      int
	listPerPage   int
	listSearch    string
)

var usersCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := client.CreateUser(cmd.Context(), domain.NewUser{
			Name:           args[0],
			Gender:         newUserGender,
			ApproximateAge: newUserAge,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(created)
		}
		fmt.Fprintf(stdout, "Created user %s\n", created.UserID)
		return nil
	},
}

var usersGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := client.GetUser(cmd.Context(), domain.ID(args[0]))
		if err != nil {
			return err
		}
		return printUser(u)
	},
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users page by page",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := url.Values{}
		params.Set("page", strconv.Itoa(listPage))
		params.Set("per_page", strconv.Itoa(listPerPage))
		if listSearch != "" {
			params.Set("search", listSearch)
		}

		list, err := client.ListUsers(cmd.Context(), params)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(list)
		}

		w := newTable()
		fmt.Fprintln(w, "ID\tNAME\tTYPE\tGENDER\tAGE\tSESSIONS\tSTATUS")
		fmt.Fprintln(w, "--\t----\t----\t------\t---\t--------\t------")
		for _, u := range list.Users {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
				u.ID, u.Name, u.Type, domain.GenderLabel(u.Gender, lang), u.Age, u.Sessions, u.Status)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		p := list.Pagination
		fmt.Fprintf(stdout, "page %d of %d (%d users)\n", p.Page, p.Pages, p.Total)
		return nil
	},
}

var usersSearchCmd = &cobra.Command{
	Use:   "search <name>",
	Short: "Search users by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := client.SearchUsers(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(users)
		}

		w := newTable()
		fmt.Fprintln(w, "ID\tNAME\tGUEST")
		for _, u := range users {
			fmt.Fprintf(w, "%s\t%s\t%t\n", u.ID, u.Name, u.IsGuest)
		}
		return w.Flush()
	},
}

var usersCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := client.CountUsers(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, n)
		return nil
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.DeleteUser(cmd.Context(), domain.ID(args[0])); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Deleted user %s\n", args[0])
		return nil
	},
}

var usersMeCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the authenticated user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := client.GetCurrentUser(cmd.Context())
		if err != nil {
			return err
		}
		return printUser(u)
	},
}

var usersGuestCmd = &cobra.Command{
	Use:   "guest",
	Short: "Log in as a guest and keep the token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := client.LoginAsGuest(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(res)
		}
		if res.Token == "" {
			return fmt.Errorf("guest login was not accepted")
		}
		if res.User != nil {
			fmt.Fprintf(stdout, "Logged in as guest %s\n", res.User.ID)
		} else {
			fmt.Fprintln(stdout, "Logged in as guest")
		}
		return nil
	},
}

var usersLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored token",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		client.Logout()
		fmt.Fprintln(stdout, "Logged out")
	},
}

func init() {
	usersCreateCmd.Flags().StringVar(&newUserGender, "gender", "", "male or female")
	usersCreateCmd.Flags().IntVar(&newUserAge, "age", 0, "approximate age")
	usersListCmd.Flags().IntVar(&listPage, "page", 1, "page number")
	usersListCmd.Flags().IntVar(&listPerPage, "per-page", 20, "users per page")
	usersListCmd.Flags().StringVar(&listSearch, "search", "", "name filter")

	usersCmd.AddCommand(usersCreateCmd, usersGetCmd, usersListCmd, usersSearchCmd,
		usersCountCmd, usersDeleteCmd, usersMeCmd, usersGuestCmd, usersLogoutCmd)
	rootCmd.AddCommand(usersCmd)
}
