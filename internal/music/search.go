package music

// SearchType selects what a catalog search looks for.
type SearchType string

const (
	SearchTracks    SearchType = "track"
	SearchAlbums    SearchType = "album"
	SearchPlaylists SearchType = "playlist"
	// SearchAll fans out to tracks, albums, and playlists in one call.
	SearchAll SearchType = "all"
)

// SearchResults is one page of aggregated search results.
type SearchResults struct {
	Tracks    []Track           `json:"tracks"`
	Albums    []Album           `json:"albums"`
	Playlists []PlaylistSummary `json:"playlists"`

	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// EmptyResults returns a well-formed zero-result page. Failed
// sub-searches contribute this rather than a nil result set.
func EmptyResults(offset, limit int) SearchResults {
	return SearchResults{
		Tracks:    []Track{},
		Albums:    []Album{},
		Playlists: []PlaylistSummary{},
		Offset:    offset,
		Limit:     limit,
	}
}

// HasNextPage reports whether another page likely exists. The backend's
// totals are advisory, so this is a hint rather than a guarantee.
func (r SearchResults) HasNextPage() bool {
	return r.Offset+len(r.Tracks) < r.Total
}

// IsEmpty reports whether the page holds no results of any kind.
func (r SearchResults) IsEmpty() bool {
	return len(r.Tracks) == 0 && len(r.Albums) == 0 && len(r.Playlists) == 0
}

// Merge appends other's results to r, keeping r's offset and limit.
// Totals accumulate so pagination hints stay monotonic.
func (r SearchResults) Merge(other SearchResults) SearchResults {
	r.Tracks = append(r.Tracks, other.Tracks...)
	r.Albums = append(r.Albums, other.Albums...)
	r.Playlists = append(r.Playlists, other.Playlists...)
	r.Total += other.Total
	return r
}
