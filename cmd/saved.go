package cmd

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pcharbon/chorus/internal/api"
	"github.com/pcharbon/chorus/internal/music"
	"github.com/pcharbon/chorus/internal/saved"
)

var savedAddService string

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "Manage your saved tracks and albums",
	RunE: func(cmd *cobra.Command, args []string) error {
		return savedTracksCmd.RunE(cmd, args)
	},
}

var savedTracksCmd = &cobra.Command{
	Use:   "tracks",
	Short: "List saved tracks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.Close()

		tracks := saved.NewTracks(a.client, log.Logger)
		if err := tracks.Load(cmd.Context()); err != nil {
			return err
		}
		list := tracks.Tracks()
		if len(list) == 0 {
			fmt.Println("No saved tracks")
			return nil
		}
		for _, st := range list {
			key := ""
			if st.Key != "" {
				key = fmt.Sprintf("  %s %.0f bpm", st.Key, st.BPM)
			}
			fmt.Printf("%-14s %-6s %-40s %-24s saved %s%s\n",
				st.ID, formatDuration(st.Duration),
				clip(st.Title, 40), clip(st.Artist, 24),
				humanize.Time(st.SavedAt), key)
		}
		return nil
	},
}

var savedAlbumsCmd = &cobra.Command{
	Use:   "albums",
	Short: "List saved albums",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.Close()

		albums := saved.NewAlbums(a.client, log.Logger)
		if err := albums.Load(cmd.Context()); err != nil {
			return err
		}
		list := albums.Albums()
		if len(list) == 0 {
			fmt.Println("No saved albums")
			return nil
		}
		for _, sa := range list {
			fmt.Printf("%-14s %-40s %-24s saved %s\n",
				sa.ID, clip(sa.Title, 40), clip(sa.Artist, 24), humanize.Time(sa.SavedAt))
		}
		return nil
	},
}

var savedAddCmd = &cobra.Command{
	Use:   "add <query>",
	Short: "Search for a track and save it",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := cmd.Context()

		params := api.SearchParams{
			Query:   strings.Join(args, " "),
			Type:    music.SearchTracks,
			Service: savedAddService,
			Limit:   1,
		}
		if params.Service == "" {
			params.Service = a.cfg.Search.Service
		}
		results, err := a.client.Search(ctx, params)
		if err != nil {
			return err
		}
		if len(results.Tracks) == 0 {
			return fmt.Errorf("no track found for %q", params.Query)
		}
		track := results.Tracks[0]

		tracks := saved.NewTracks(a.client, log.Logger)
		if !tracks.Save(ctx, track) {
			return fmt.Errorf("save failed: %s", tracks.LastError())
		}
		fmt.Printf("Saved %s - %s\n", track.Title, track.Artist)
		return nil
	},
}

var savedRemoveCmd = &cobra.Command{
	Use:   "remove <saved-id>",
	Short: "Remove a saved track by its id from \"saved tracks\"",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.Close()

		tracks := saved.NewTracks(a.client, log.Logger)
		if !tracks.Remove(cmd.Context(), args[0]) {
			return fmt.Errorf("remove failed: %s", tracks.LastError())
		}
		fmt.Println("Removed")
		return nil
	},
}

func init() {
	savedAddCmd.Flags().StringVarP(&savedAddService, "service", "s", "", "service to search")
	savedCmd.AddCommand(savedTracksCmd)
	savedCmd.AddCommand(savedAlbumsCmd)
	savedCmd.AddCommand(savedAddCmd)
	savedCmd.AddCommand(savedRemoveCmd)
	rootCmd.AddCommand(savedCmd)
}
