//go:build linux

package notify

import (
	"github.com/godbus/dbus/v5"
)

const (
	notifyDest  = "org.freedesktop.Notifications"
	notifyPath  = "/org/freedesktop/Notifications"
	notifyIface = "org.freedesktop.Notifications"
)

type dbusNotifier struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// New connects to the session bus and returns a Notifier. When no bus
// is reachable a no-op notifier is returned instead of an error so
// playback can run on headless hosts.
func New() (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return &stubNotifier{}, nil //nolint:nilerr
	}
	return &dbusNotifier{conn: conn, obj: conn.Object(notifyDest, notifyPath)}, nil
}

func (n *dbusNotifier) Notify(notif Notification) (uint32, error) {
	hints := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(notif.Urgency)),
		"desktop-entry": dbus.MakeVariant("chorus"),
	}

	// org.freedesktop.Notifications.Notify(app_name, replaces_id,
	// app_icon, summary, body, actions, hints, expire_timeout) -> id
	call := n.obj.Call(
		notifyIface+".Notify",
		0,
		"Chorus",
		notif.ReplacesID,
		notif.Icon,
		notif.Title,
		notif.Body,
		[]string{},
		hints,
		notif.Timeout,
	)
	if call.Err != nil {
		return 0, call.Err
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (n *dbusNotifier) Close(id uint32) error {
	return n.obj.Call(notifyIface+".CloseNotification", 0, id).Err
}

// stubNotifier stands in when the session bus is unavailable.
type stubNotifier struct{}

func (s *stubNotifier) Notify(_ Notification) (uint32, error) {
	return 0, nil
}

func (s *stubNotifier) Close(_ uint32) error {
	return nil
}
