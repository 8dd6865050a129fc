// Package cmd holds the chorus command tree.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pcharbon/chorus/internal/api"
	"github.com/pcharbon/chorus/internal/config"
	"github.com/pcharbon/chorus/internal/session"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:           "chorus",
	Short:         "Chorus is a headless client for a self-hosted music streaming aggregator.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		if debug {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app bundles the wiring every command needs: config, backend client,
// and the persisted session.
type app struct {
	cfg    *config.Config
	client *api.Client
	store  *session.Store
	sess   *session.Session
}

// newApp loads config, opens the session store, and restores the saved
// token. With requireAuth set, a missing session is an error.
func newApp(requireAuth bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("no server configured; set server_url in config.toml or CHORUS_SERVER_URL")
	}

	client := api.NewClient(cfg.ServerURL, cfg.Timeout(), log.Logger)

	store, err := session.Open()
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	sess, err := store.Load(cfg.ServerURL)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess != nil {
		client.SetToken(sess.Token)
	} else if requireAuth {
		store.Close()
		return nil, fmt.Errorf("not logged in; run \"chorus login\" first")
	}

	return &app{cfg: cfg, client: client, store: store, sess: sess}, nil
}

func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
}

// formatDuration renders track seconds as m:ss (or h:mm:ss).
func formatDuration(seconds int) string {
	if seconds <= 0 {
		return "-:--"
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// formatPlayTime renders a playback position as m:ss.
func formatPlayTime(d time.Duration) string {
	total := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
