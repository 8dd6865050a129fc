package player

// State represents the engine state machine.
//
// Valid transitions:
//   - Stopped → Playing (via Play)
//   - Playing → Paused  (via Pause)
//   - Playing → Stopped (via Stop or natural completion)
//   - Paused  → Playing (via Resume)
//   - Paused  → Stopped (via Stop)
//
// Toggle() cycles Playing ↔ Paused and is a no-op when Stopped.
// Invalid transitions (Stopped→Paused, Paused→Paused, ...) are ignored.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

// String returns the state name for debugging.
func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if playback is active (Playing or Paused).
func (s State) IsActive() bool {
	return s == Playing || s == Paused
}
