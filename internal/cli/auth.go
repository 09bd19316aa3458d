package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/flowdo/internal/session"
)

func newLoginCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login [token]",
		Short: "Sign in with an ID token",
		Long: `Sign in with an ID token issued by the identity provider.

The token is taken from the argument, --token, or the first line of stdin,
in that order, and saved to the session file for later runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, _ := cmd.Flags().GetString("token")
			if len(args) == 1 {
				token = args[0]
			}
			if strings.TrimSpace(token) == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("no token given: pass it as an argument, with --token, or on stdin")
				}
				token = line
			}

			env, err := flags.bootstrap(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			user, err := env.SignIn(strings.TrimSpace(token))
			if err != nil {
				return fmt.Errorf("sign in: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Signed in as %s\n", displayUser(user))
			if !user.EmailVerified {
				fmt.Fprintln(out, "Your email is not verified yet; syncing stays paused until it is.")
			}
			return nil
		},
	}
	cmd.Flags().String("token", "", "ID token (JWT)")
	return cmd
}

func newLogoutCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := flags.bootstrap(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			if err := env.SignOut(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func newWhoamiCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := flags.bootstrap(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			out := cmd.OutOrStdout()
			status := env.Session.Status()
			if user, ok := env.Session.User(); ok {
				fmt.Fprintf(out, "%s (%s)\n", displayUser(user), status)
			} else {
				fmt.Fprintf(out, "Not signed in (%s)\n", status)
			}
			fmt.Fprintf(out, "Server: %s\n", env.Client.BaseURL())
			return nil
		},
	}
}

func displayUser(u session.User) string {
	switch {
	case u.Email != "":
		return u.Email
	case u.Name != "":
		return u.Name
	default:
		return u.UID
	}
}
