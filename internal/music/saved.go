package music

import "time"

// SavedTrack is a track the user has hearted. The id is issued by the
// backend and is distinct from the track's source id.
type SavedTrack struct {
	ID       string    `json:"id"`
	TrackID  string    `json:"track_id"`
	Title    string    `json:"title"`
	Artist   string    `json:"artist"`
	Album    string    `json:"album"`
	Duration int       `json:"duration"`
	Source   Source    `json:"source"`
	CoverURL string    `json:"cover_url,omitempty"`
	BPM      float64   `json:"bpm,omitempty"`
	Key      string    `json:"key,omitempty"`
	SavedAt  time.Time `json:"saved_at"`
}

// Track rebuilds a playable Track from the saved entry.
func (s SavedTrack) Track() Track {
	return Track{
		ID:       s.TrackID,
		Title:    s.Title,
		Artist:   s.Artist,
		Album:    s.Album,
		Duration: s.Duration,
		Source:   s.Source,
		CoverURL: s.CoverURL,
		BPM:      s.BPM,
		Key:      s.Key,
	}
}

// SavedAlbum is an album the user has saved.
type SavedAlbum struct {
	ID       string    `json:"id"`
	AlbumID  string    `json:"album_id"`
	Title    string    `json:"title"`
	Artist   string    `json:"artist"`
	Source   Source    `json:"source"`
	CoverURL string    `json:"cover_url,omitempty"`
	SavedAt  time.Time `json:"saved_at"`
}
