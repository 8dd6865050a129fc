package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pcharbon/chorus/internal/api"
	"github.com/pcharbon/chorus/internal/mpris"
	"github.com/pcharbon/chorus/internal/music"
	"github.com/pcharbon/chorus/internal/notify"
	"github.com/pcharbon/chorus/internal/playback"
	"github.com/pcharbon/chorus/internal/player"
	"github.com/pcharbon/chorus/internal/queue"
)

var (
	playService string
	playNow     bool
	playQuiet   bool
)

var playCmd = &cobra.Command{
	Use:   "play <query>",
	Short: "Play the best matching track, then keep playing the queue",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := cmd.Context()

		params := api.SearchParams{
			Query: strings.Join(args, " "),
			Type:  music.SearchTracks,
			Limit: 1,
		}
		if playService != "" {
			params.Service = playService
		} else {
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

		queues := queue.New(a.client, log.Logger)
		if err := queues.Reload(ctx); err != nil {
			log.Warn().Err(err).Msg("queue reload failed; continuing without it")
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
		if err := svc.PlayTrack(ctx, track, playNow); err != nil {
			return err
		}

		return runPlaybackUI(svc, sub)
	},
}

// runPlaybackUI drains playback events until the material runs out or
// the user interrupts.
func runPlaybackUI(svc playback.Service, sub *playback.Subscription) error {
	// Quiet mode renders no progress, so drop to the coarse background
	// poll and skip the per-tick events entirely.
	if playQuiet {
		svc.SetBackground(true)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	notifier, err := notify.New()
	if err != nil {
		log.Warn().Err(err).Msg("desktop notifications unavailable")
	}
	var notifyID uint32

	for {
		select {
		case e := <-sub.TrackChanged:
			if e.Current != nil && !playQuiet {
				fmt.Printf("\n> %s - %s [%s]\n", e.Current.Title, e.Current.Artist, e.Current.Source.DisplayName())
			}
			if e.Current != nil && notifier != nil {
				if id, err := notifier.Notify(notify.NowPlaying(e.Current.Title, e.Current.Artist, notifyID)); err == nil {
					notifyID = id
				}
			}
		case e := <-sub.StateChanged:
			if e.Current == playback.StateIdle {
				fmt.Println("\nQueue finished")
				return nil
			}
			if e.Current == playback.StatePaused && !playQuiet {
				fmt.Print("\n[paused]")
			}
		case e := <-sub.PositionChanged:
			if !playQuiet {
				fmt.Printf("\r%s / %s  ", formatPlayTime(e.Position), formatPlayTime(e.Duration))
			}
		case e := <-sub.OutputChanged:
			if e.Info.HasInfo && !playQuiet {
				fmt.Printf("\n%s %d Hz / %d bit\n", strings.ToUpper(e.Info.Format), e.Info.SampleRate, e.Info.BitDepth)
			}
		case e := <-sub.Error:
			fmt.Fprintln(os.Stderr, "\nError:", e.Message)
		case <-sub.Done:
			return nil
		case <-sigCh:
			svc.Stop()
			fmt.Println()
			return nil
		}
	}
}

func init() {
	playCmd.Flags().StringVarP(&playService, "service", "s", "", "service to search")
	playCmd.Flags().BoolVar(&playNow, "now", false, "clear the queue and playlist-queue first")
	playCmd.Flags().BoolVarP(&playQuiet, "quiet", "q", false, "suppress progress output")
	rootCmd.AddCommand(playCmd)
}
