package music

import "time"

// QueueItem is a persisted entry in the plain FIFO queue. The id and
// position are assigned server-side; the client never invents either.
// Track display fields are denormalized so the queue renders without a
// catalog lookup.
type QueueItem struct {
	ID       string    `json:"id"`
	TrackID  string    `json:"track_id"`
	Title    string    `json:"title"`
	Artist   string    `json:"artist"`
	Album    string    `json:"album"`
	Duration int       `json:"duration"`
	Source   Source    `json:"source"`
	CoverURL string    `json:"cover_url,omitempty"`
	Position int       `json:"position"`
	AddedAt  time.Time `json:"added_at"`
}

// Track rebuilds a playable Track from the denormalized fields.
func (q QueueItem) Track() Track {
	return Track{
		ID:       q.TrackID,
		Title:    q.Title,
		Artist:   q.Artist,
		Album:    q.Album,
		Duration: q.Duration,
		Source:   q.Source,
		CoverURL: q.CoverURL,
	}
}

// LoopMode is the policy applied when a playlist-queue cursor runs off
// the end of its track order.
type LoopMode string

const (
	// LoopOnce plays the list a single time, then the cursor is removed.
	LoopOnce LoopMode = "once"
	// LoopTwice replays from the start one extra time, then behaves as once.
	LoopTwice LoopMode = "twice"
	// LoopInfinite wraps to the start indefinitely.
	LoopInfinite LoopMode = "infinite"
)

// Valid reports whether m is a known loop mode.
func (m LoopMode) Valid() bool {
	return m == LoopOnce || m == LoopTwice || m == LoopInfinite
}

// PlaylistQueueItem is a session-local cursor representing "playing
// through playlist X". It carries the full track-id order plus
// denormalized display fields for the current track, so the first
// render never waits on a playlist-items fetch.
type PlaylistQueueItem struct {
	PlaylistID  string   `json:"playlist_id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	CoverURL    string   `json:"cover_url,omitempty"`
	LoopMode    LoopMode `json:"loop_mode"`

	TrackOrder        []string `json:"track_order"`
	CurrentTrackIndex int      `json:"current_track_index"`

	// Denormalized current-track display fields.
	Title         string `json:"title"`
	Artist        string `json:"artist"`
	Album         string `json:"album"`
	Duration      int    `json:"duration"`
	Source        Source `json:"source"`
	TrackCoverURL string `json:"track_cover_url,omitempty"`

	AddedAt time.Time `json:"added_at"`
}

// CurrentTrackID returns the track id under the cursor, or "" when the
// cursor is out of range.
func (p PlaylistQueueItem) CurrentTrackID() string {
	if p.CurrentTrackIndex < 0 || p.CurrentTrackIndex >= len(p.TrackOrder) {
		return ""
	}
	return p.TrackOrder[p.CurrentTrackIndex]
}
