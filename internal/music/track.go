package music

import "time"

// Track is an immutable catalog track. Deriving a track with extra
// resolved data (stream URL, analysis fields) returns a new value;
// nothing mutates a Track in place.
type Track struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	Duration int    `json:"duration"` // seconds, 0 if unknown
	Source   Source `json:"source"`

	StreamURL string `json:"stream_url,omitempty"`
	CoverURL  string `json:"cover_url,omitempty"`

	Quality    string `json:"quality,omitempty"`
	Bitrate    int    `json:"bitrate,omitempty"`     // kbps
	SampleRate int    `json:"sample_rate,omitempty"` // Hz
	BitDepth   int    `json:"bit_depth,omitempty"`

	BPM float64 `json:"bpm,omitempty"`
	Key string  `json:"key,omitempty"` // musical key, e.g. "8A"
}

// DurationTime returns the duration as a time.Duration.
func (t Track) DurationTime() time.Duration {
	return time.Duration(t.Duration) * time.Second
}

// WithStreamURL returns a copy of t with the stream URL resolved.
func (t Track) WithStreamURL(url string) Track {
	t.StreamURL = url
	return t
}

// WithAnalysis returns a copy of t with BPM and key annotations.
func (t Track) WithAnalysis(bpm float64, key string) Track {
	t.BPM = bpm
	t.Key = key
	return t
}

// Album is a catalog album summary.
type Album struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Source     Source `json:"source"`
	CoverURL   string `json:"cover_url,omitempty"`
	TrackCount int    `json:"track_count,omitempty"`
	Year       int    `json:"year,omitempty"`
}

// PlaylistSummary is a playlist as returned by catalog search.
type PlaylistSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Owner       string `json:"owner,omitempty"`
	Source      Source `json:"source"`
	CoverURL    string `json:"cover_url,omitempty"`
	TrackCount  int    `json:"track_count,omitempty"`
}

// AudioOutputInfo is best-effort decoder/output metadata for the
// currently playing stream. HasInfo gates whether the fields are shown.
type AudioOutputInfo struct {
	HasInfo    bool   `json:"has_info"`
	Format     string `json:"format,omitempty"` // "flac", "mp3", ...
	Bitrate    int    `json:"bitrate,omitempty"`
	SampleRate int    `json:"sample_rate,omitempty"`
	BitDepth   int    `json:"bit_depth,omitempty"`
}
