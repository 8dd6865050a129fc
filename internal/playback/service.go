package playback

import (
	"context"
	"time"

	"github.com/pcharbon/chorus/internal/music"
)

// Service defines the playback coordinator contract.
type Service interface {
	// Transport control
	PlayTrack(ctx context.Context, track music.Track, clearQueue bool) error
	TogglePlayPause(ctx context.Context) error
	SeekTo(position time.Duration) error
	Stop()
	PlayNext(ctx context.Context) error
	PlayPrevious(ctx context.Context) error

	// State queries
	State() State
	CurrentTrack() *music.Track
	Position() time.Duration
	Duration() time.Duration
	OutputInfo() music.AudioOutputInfo
	LastError() string

	// Background mode: keeps a coarse position poll running while
	// suppressing per-tick notifications.
	SetBackground(background bool)

	// Event subscription
	Subscribe() *Subscription

	// Lifecycle
	Close() error
}

// StreamResolver turns a track into an absolute, playable stream URL.
// Implemented over the backend gateway.
type StreamResolver interface {
	ResolveStreamURL(ctx context.Context, track music.Track) (string, error)
}

// TrackSource decides what plays next when a track ends. Implemented
// by the queue coordinator; the playback coordinator holds it as a
// lookup-only collaborator, not an owner.
type TrackSource interface {
	// ResolveNext returns the next track, or nil when nothing is
	// pending.
	ResolveNext(ctx context.Context) (*music.Track, error)
	// ResolvePrevious steps back within the playlist-queue; nil when
	// no backward move is possible.
	ResolvePrevious(ctx context.Context) (*music.Track, error)
	// ClearAll empties the plain queue and the playlist-queue.
	ClearAll(ctx context.Context) error
}
