package cmd

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pcharbon/chorus/internal/mpris"
	"github.com/pcharbon/chorus/internal/music"
	"github.com/pcharbon/chorus/internal/playback"
	"github.com/pcharbon/chorus/internal/player"
	"github.com/pcharbon/chorus/internal/queue"
)

var playlistLoop string

var playlistsCmd = &cobra.Command{
	Use:   "playlists",
	Short: "List and play your playlists",
	RunE: func(cmd *cobra.Command, args []string) error {
		return playlistsListCmd.RunE(cmd, args)
	},
}

var playlistsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show your playlists",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.Close()

		playlists, err := a.client.GetPlaylists(cmd.Context())
		if err != nil {
			return err
		}
		if len(playlists) == 0 {
			fmt.Println("No playlists")
			return nil
		}
		for _, pl := range playlists {
			fmt.Printf("%-14s %-40s %d tracks\n", pl.ID, clip(pl.Name, 40), pl.TrackCount)
		}
		return nil
	},
}

var playlistsPlayCmd = &cobra.Command{
	Use:   "play <name-or-id>",
	Short: "Play through a playlist",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := music.LoopMode(playlistLoop)
		if !mode.Valid() {
			return fmt.Errorf("loop must be once, twice, or infinite")
		}

		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := cmd.Context()

		wanted := strings.Join(args, " ")
		playlists, err := a.client.GetPlaylists(ctx)
		if err != nil {
			return err
		}
		targetID := ""
		for _, pl := range playlists {
			if pl.ID == wanted || strings.EqualFold(pl.Name, wanted) {
				targetID = pl.ID
				break
			}
		}
		if targetID == "" {
			return fmt.Errorf("no playlist matching %q", wanted)
		}

		queues := queue.New(a.client, log.Logger)
		if err := queues.Reload(ctx); err != nil {
			log.Warn().Err(err).Msg("queue reload failed; continuing without it")
		}

		pl, err := a.client.GetPlaylist(ctx, targetID)
		if err != nil {
			return err
		}
		first, err := queues.PlayPlaylist(ctx, *pl, mode)
		if err != nil {
			return err
		}
		if first == nil {
			return fmt.Errorf("playlist %q produced no starting track", pl.Name)
		}

		engine := player.NewEngine(a.cfg.SpeakerBuffer())
		resolver := playback.NewResolver(a.client, a.cfg.Audio.Quality)
		svc := playback.New(engine, resolver, queues, log.Logger)
		defer svc.Close()

		if adapter, err := mpris.New(svc); err == nil {
			defer adapter.Close()
		} else {
			log.Warn().Err(err).Msg("mpris unavailable")
		}

		sub := svc.Subscribe()
		fmt.Printf("Playing playlist %s (%s)\n", pl.Name, mode)
		if err := svc.PlayTrack(ctx, *first, false); err != nil {
			return err
		}
		return runPlaybackUI(svc, sub)
	},
}

func init() {
	playlistsPlayCmd.Flags().StringVar(&playlistLoop, "loop", "once", "once, twice, or infinite")
	playlistsCmd.AddCommand(playlistsListCmd)
	playlistsCmd.AddCommand(playlistsPlayCmd)
	rootCmd.AddCommand(playlistsCmd)
}
