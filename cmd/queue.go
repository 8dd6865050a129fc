package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pcharbon/chorus/internal/api"
	"github.com/pcharbon/chorus/internal/music"
	"github.com/pcharbon/chorus/internal/queue"
)

var queueAddService string

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Inspect and edit the play queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		return queueListCmd.RunE(cmd, args)
	},
}

var queueListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the queue in play order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.Close()

		q := queue.New(a.client, log.Logger)
		if err := q.Reload(cmd.Context()); err != nil {
			return err
		}

		items := q.Items()
		if len(items) == 0 {
			fmt.Println("Queue is empty")
			return nil
		}
		for _, item := range items {
			fmt.Printf("%3d  %-6s %-40s %-24s added %s\n",
				item.Position+1, formatDuration(item.Duration),
				clip(item.Title, 40), clip(item.Artist, 24),
				humanize.Time(item.AddedAt))
		}
		return nil
	},
}

var queueAddCmd = &cobra.Command{
	Use:   "add <query>",
	Short: "Search for a track and append it to the queue",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.Close()

		params := api.SearchParams{
			Query:   strings.Join(args, " "),
			Type:    music.SearchTracks,
			Service: queueAddService,
			Limit:   1,
		}
		if params.Service == "" {
			params.Service = a.cfg.Search.Service
		}
		results, err := a.client.Search(cmd.Context(), params)
		if err != nil {
			return err
		}
		if len(results.Tracks) == 0 {
			return fmt.Errorf("no track found for %q", params.Query)
		}

		q := queue.New(a.client, log.Logger)
		if err := q.Add(cmd.Context(), results.Tracks[0]); err != nil {
			return err
		}
		fmt.Printf("Queued %s - %s (position %d)\n",
			results.Tracks[0].Title, results.Tracks[0].Artist, q.Len())
		return nil
	},
}

var queueRemoveCmd = &cobra.Command{
	Use:   "remove <position>",
	Short: "Remove the item at the given 1-based position",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := strconv.Atoi(args[0])
		if err != nil || pos < 1 {
			return fmt.Errorf("position must be a positive number")
		}

		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.Close()

		q := queue.New(a.client, log.Logger)
		if err := q.Reload(cmd.Context()); err != nil {
			return err
		}
		items := q.Items()
		if pos > len(items) {
			return fmt.Errorf("queue has only %d items", len(items))
		}
		item := items[pos-1]
		if err := q.Remove(cmd.Context(), item.ID); err != nil {
			return err
		}
		fmt.Printf("Removed %s - %s\n", item.Title, item.Artist)
		return nil
	},
}

var queueMoveCmd = &cobra.Command{
	Use:   "move <from> <to>",
	Short: "Move an item between 1-based positions",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := strconv.Atoi(args[0])
		if err != nil || from < 1 {
			return fmt.Errorf("positions must be positive numbers")
		}
		to, err := strconv.Atoi(args[1])
		if err != nil || to < 1 {
			return fmt.Errorf("positions must be positive numbers")
		}

		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.Close()

		q := queue.New(a.client, log.Logger)
		if err := q.Reload(cmd.Context()); err != nil {
			return err
		}
		items := q.Items()
		if from > len(items) {
			return fmt.Errorf("queue has only %d items", len(items))
		}
		if err := q.Reorder(cmd.Context(), items[from-1].ID, to-1); err != nil {
			return err
		}
		fmt.Printf("Moved %s to position %d\n", items[from-1].Title, to)
		return nil
	},
}

var queueClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every queue item",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.Close()

		q := queue.New(a.client, log.Logger)
		if err := q.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Queue cleared")
		return nil
	},
}

func init() {
	queueAddCmd.Flags().StringVarP(&queueAddService, "service", "s", "", "service to search")
	queueCmd.AddCommand(queueListCmd)
	queueCmd.AddCommand(queueAddCmd)
	queueCmd.AddCommand(queueRemoveCmd)
	queueCmd.AddCommand(queueMoveCmd)
	queueCmd.AddCommand(queueClearCmd)
	rootCmd.AddCommand(queueCmd)
}
