package cmd

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pcharbon/chorus/internal/music"
	"github.com/pcharbon/chorus/internal/search"
)

var (
	searchType     string
	searchService  string
	searchServices []string
	searchMulti    bool
	searchLibrary  bool
	searchPage     int
	searchPageSize int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search tracks, albums, and playlists across services",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.Close()

		st := music.SearchType(searchType)
		if st != music.SearchTracks && st != music.SearchAlbums &&
			st != music.SearchPlaylists && st != music.SearchAll {
			return fmt.Errorf("unknown search type %q", searchType)
		}

		opts := search.Options{Library: searchLibrary}
		switch {
		case len(searchServices) > 0:
			opts.Services = searchServices
			opts.Multi = len(searchServices) > 1
		case searchService != "":
			opts.Services = []string{searchService}
		case searchMulti || a.cfg.Search.MultiService:
			opts.Services = a.cfg.Search.Services
			opts.Multi = true
		default:
			opts.Services = a.cfg.SelectedServices()
		}

		pageSize := a.cfg.Search.PageSize
		if searchPageSize > 0 {
			pageSize = searchPageSize
		}
		agg := search.New(a.client, pageSize, log.Logger)
		query := strings.Join(args, " ")
		results, err := agg.Search(cmd.Context(), query, st, opts)
		if err != nil {
			return err
		}
		if searchPage > 1 {
			results, err = agg.GoToPage(cmd.Context(), searchPage)
			if err != nil {
				return err
			}
		}

		if results.IsEmpty() {
			fmt.Println("No results")
			return nil
		}
		printResults(results)
		if results.HasNextPage() {
			fmt.Printf("\nMore results: --page %d\n", agg.Page()+1)
		}
		return nil
	},
}

func printResults(r music.SearchResults) {
	if len(r.Tracks) > 0 {
		fmt.Println("Tracks:")
		for _, t := range r.Tracks {
			fmt.Printf("  %-14s %-6s %-40s %-24s %s\n",
				t.ID, formatDuration(t.Duration), clip(t.Title, 40), clip(t.Artist, 24), t.Source.DisplayName())
		}
	}
	if len(r.Albums) > 0 {
		fmt.Println("Albums:")
		for _, al := range r.Albums {
			fmt.Printf("  %-14s %-40s %-24s %s\n",
				al.ID, clip(al.Title, 40), clip(al.Artist, 24), al.Source.DisplayName())
		}
	}
	if len(r.Playlists) > 0 {
		fmt.Println("Playlists:")
		for _, pl := range r.Playlists {
			fmt.Printf("  %-14s %-40s %d tracks\n", pl.ID, clip(pl.Name, 40), pl.TrackCount)
		}
	}
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

func init() {
	searchCmd.Flags().StringVarP(&searchType, "type", "t", "track", "track, album, playlist, or all")
	searchCmd.Flags().StringVarP(&searchService, "service", "s", "", "search a single service")
	searchCmd.Flags().StringSliceVar(&searchServices, "services", nil, "explicit service list, fans out when more than one")
	searchCmd.Flags().BoolVar(&searchMulti, "multi", false, "fan out to the configured services")
	searchCmd.Flags().IntVar(&searchPageSize, "page-size", 0, "results per page (default from config)")
	searchCmd.Flags().BoolVar(&searchLibrary, "library", false, "search your saved items instead of catalogs")
	searchCmd.Flags().IntVar(&searchPage, "page", 1, "result page")
	rootCmd.AddCommand(searchCmd)
}
