package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "List streaming services and their connection state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.Close()

		infos, err := a.client.AvailableServices(cmd.Context())
		if err != nil {
			return err
		}
		statuses, err := a.client.ServiceStatuses(cmd.Context())
		if err != nil {
			return err
		}
		connected := make(map[string]string, len(statuses))
		for _, s := range statuses {
			if s.Connected {
				connected[s.Name] = s.AccountUsername
			}
		}

		for _, info := range infos {
			state := "not connected"
			if account, ok := connected[info.Name]; ok {
				state = "connected"
				if account != "" {
					state += " as " + account
				}
			}
			notes := ""
			if info.RequiresPremium {
				notes = " (premium required)"
			}
			fmt.Printf("%-16s %s%s\n", info.DisplayName, state, notes)
		}
		return nil
	},
}

var connectCmd = &cobra.Command{
	Use:   "connect <service> [credentials...]",
	Short: "Link a streaming service account on the backend",
	Long: `Link a streaming service account on the backend.

Qobuz takes credentials directly:
  chorus connect qobuz <username> <password>

Spotify uses OAuth: run without arguments to get the authorization
URL, open it in a browser, then finish with the tokens it yields:
  chorus connect spotify
  chorus connect spotify <access-token> [refresh-token]`,
	Args: cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := cmd.Context()

		switch args[0] {
		case "qobuz":
			if len(args) != 3 {
				return fmt.Errorf("usage: chorus connect qobuz <username> <password>")
			}
			if err := a.client.ConnectQobuz(ctx, args[1], args[2]); err != nil {
				return err
			}
			fmt.Println("Qobuz connected")
			return nil
		case "spotify":
			if len(args) == 1 {
				authURL, err := a.client.GetSpotifyAuthURL(ctx)
				if err != nil {
					return err
				}
				fmt.Println("Open this URL in a browser to authorize Spotify:")
				fmt.Println(authURL)
				fmt.Println("\nThen finish with: chorus connect spotify <access-token> [refresh-token]")
				return nil
			}
			refresh := ""
			if len(args) == 3 {
				refresh = args[2]
			}
			if err := a.client.ConnectSpotify(ctx, args[1], refresh); err != nil {
				return err
			}
			fmt.Println("Spotify connected")
			return nil
		default:
			return fmt.Errorf("service %q does not support credential linking", args[0])
		}
	},
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect <service>",
	Short: "Unlink a streaming service account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.client.DisconnectService(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("%s disconnected\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(servicesCmd)
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(disconnectCmd)
}
