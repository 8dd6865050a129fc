// Package notify provides desktop notifications via D-Bus.
package notify

// Urgency is the freedesktop notification priority. The byte values
// are fixed by the protocol.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// Notification is one desktop popup.
type Notification struct {
	Title      string // summary line
	Body       string // may contain basic markup
	Icon       string // file path or icon name
	Timeout    int32  // ms; -1 = server default, 0 = never expire
	ReplacesID uint32 // nonzero replaces an existing popup
	Urgency    Urgency
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify sends a notification and returns its ID.
	// Returns 0 and nil error if notifications are disabled or unavailable.
	Notify(n Notification) (uint32, error)
	// Close closes a notification by ID.
	Close(id uint32) error
}

// NowPlaying builds the track-change notification. replaces lets the
// caller collapse successive track changes into one popup.
func NowPlaying(title, artist string, replaces uint32) Notification {
	return Notification{
		Title:      "Now playing",
		Body:       title + "\n" + artist,
		Timeout:    5000,
		ReplacesID: replaces,
		Urgency:    UrgencyLow,
	}
}
