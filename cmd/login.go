package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pcharbon/chorus/internal/session"
)

var loginPassword string

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Log in to the backend and persist the session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		username := args[0]
		password := loginPassword
		if password == "" {
			fmt.Fprint(os.Stderr, "Password: ")
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			password = strings.TrimRight(line, "\r\n")
		}

		sess, err := a.client.Login(cmd.Context(), username, password)
		if err != nil {
			return err
		}

		err = a.store.Save(session.Session{
			ServerURL: a.cfg.ServerURL,
			Token:     sess.Token,
			Username:  sess.User.Username,
		})
		if err != nil {
			return fmt.Errorf("persist session: %w", err)
		}

		fmt.Printf("Logged in as %s on %s\n", sess.User.Username, a.cfg.ServerURL)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Invalidate the session and forget the stored token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.Close()

		// The local session is dropped even when the server call fails.
		logoutErr := a.client.Logout(cmd.Context())
		if err := a.store.Clear(a.cfg.ServerURL); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		if logoutErr != nil {
			fmt.Fprintln(os.Stderr, "Warning: server-side logout failed:", logoutErr)
		}
		fmt.Println("Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the account bound to the current session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.Close()

		user, err := a.client.Me(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("%s <%s> on %s\n", user.Username, user.Email, a.cfg.ServerURL)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
