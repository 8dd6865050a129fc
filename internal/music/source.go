package music

// Source identifies the streaming provider a track or album originates from.
type Source string

const (
	SourceQobuz        Source = "qobuz"
	SourceSpotify      Source = "spotify"
	SourceTidal        Source = "tidal"
	SourceAppleMusic   Source = "apple_music"
	SourceYoutubeMusic Source = "youtube_music"
	SourceDeezer       Source = "deezer"
	// SourceServer is the self-hosted backend's own library.
	SourceServer Source = "server"
)

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	switch s {
	case SourceQobuz, SourceSpotify, SourceTidal, SourceAppleMusic,
		SourceYoutubeMusic, SourceDeezer, SourceServer:
		return true
	}
	return false
}

// DisplayName returns a human-readable provider name.
func (s Source) DisplayName() string {
	switch s {
	case SourceQobuz:
		return "Qobuz"
	case SourceSpotify:
		return "Spotify"
	case SourceTidal:
		return "Tidal"
	case SourceAppleMusic:
		return "Apple Music"
	case SourceYoutubeMusic:
		return "YouTube Music"
	case SourceDeezer:
		return "Deezer"
	case SourceServer:
		return "Server"
	default:
		return string(s)
	}
}
