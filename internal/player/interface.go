package player

import (
	"time"

	"github.com/pcharbon/chorus/internal/music"
)

// Interface defines the audio engine contract for dependency injection
// and testing. The engine plays one resolved stream URL at a time and
// pushes completion through FinishedChan; everything else is pull.
type Interface interface {
	Play(url string) error
	Stop()
	Pause()
	Resume()
	Toggle()
	State() State
	Position() time.Duration
	Duration() time.Duration
	// SeekTo moves to an absolute position. Returns ErrSeekUnsupported
	// when the current stream cannot seek.
	SeekTo(position time.Duration) error
	// CanSeek reports whether the current stream supports seeking.
	CanSeek() bool
	// OutputInfo returns best-effort decoder/output metadata.
	OutputInfo() music.AudioOutputInfo
	// FinishedChan signals naturally completed tracks. Stop() does not
	// signal it.
	FinishedChan() <-chan struct{}
}

// Verify Engine implements Interface at compile time.
var _ Interface = (*Engine)(nil)
