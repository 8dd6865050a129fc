package playback

import (
	"time"

	"github.com/pcharbon/chorus/internal/music"
)

// StateChange is emitted when the transport state changes.
type StateChange struct {
	Previous State
	Current  State
}

// TrackChange is emitted when the current track changes, including to
// nil when playback runs out of material.
//
// Emitted by:
//   - PlayTrack: always, before resolution starts
//   - automatic advance when a track completes
//   - Stop/exhaustion: with Current == nil
//
// NOT emitted by pause/resume or seeks.
type TrackChange struct {
	Previous *music.Track
	Current  *music.Track
}

// PositionChange carries a position tick or a seek result.
type PositionChange struct {
	Position time.Duration
	Duration time.Duration
}

// OutputInfoChange carries refreshed audio-output metadata.
type OutputInfoChange struct {
	Info music.AudioOutputInfo
}

// ErrorEvent is emitted when an operation fails. Message is the
// human-readable form retained as the coordinator's last error.
type ErrorEvent struct {
	Operation string // e.g. "play", "seek", "advance"
	Message   string
	Err       error
}
