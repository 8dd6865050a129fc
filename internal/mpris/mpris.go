//go:build linux

package mpris

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/pcharbon/chorus/internal/playback"
)

// Adapter exposes the playback coordinator over MPRIS on D-Bus, so
// desktop media keys and applets control it.
type Adapter struct {
	service playback.Service
	server  *server.Server
	sub     *playback.Subscription
	done    chan struct{}
}

// New creates and starts a new MPRIS adapter.
func New(service playback.Service) (*Adapter, error) {
	a := &Adapter{
		service: service,
		done:    make(chan struct{}),
	}

	rootAdapter := &rootAdapter{}
	playerAdapter := &playerAdapter{service: service}

	a.server = server.NewServer("chorus", rootAdapter, playerAdapter)
	a.sub = service.Subscribe()

	go func() {
		_ = a.server.Listen()
	}()

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	close(a.done)
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // Not supported - app manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil // Track list interface not implemented
}

func (r *rootAdapter) Identity() (string, error) {
	return "Chorus", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"http", "https"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/flac", "audio/mpeg", "audio/wav"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter.
type playerAdapter struct {
	service playback.Service
}

func (p *playerAdapter) Next() error {
	return p.service.PlayNext(context.Background())
}

func (p *playerAdapter) Previous() error {
	return p.service.PlayPrevious(context.Background())
}

func (p *playerAdapter) Pause() error {
	if p.service.State() == playback.StatePlaying {
		return p.service.TogglePlayPause(context.Background())
	}
	return nil
}

func (p *playerAdapter) PlayPause() error {
	return p.service.TogglePlayPause(context.Background())
}

func (p *playerAdapter) Stop() error {
	p.service.Stop()
	return nil
}

func (p *playerAdapter) Play() error {
	if p.service.State() == playback.StatePlaying {
		return nil
	}
	return p.service.TogglePlayPause(context.Background())
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	target := p.service.Position() + time.Duration(offset)*time.Microsecond
	if target < 0 {
		target = 0
	}
	return p.service.SeekTo(target)
}

func (p *playerAdapter) SetPosition(_ string, position types.Microseconds) error {
	return p.service.SeekTo(time.Duration(position) * time.Microsecond)
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.service.State() {
	case playback.StatePlaying, playback.StateLoading:
		return types.PlaybackStatusPlaying, nil
	case playback.StatePaused:
		return types.PlaybackStatusPaused, nil
	case playback.StateIdle, playback.StateStopped:
		return types.PlaybackStatusStopped, nil
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	track := p.service.CurrentTrack()
	if track == nil {
		return types.Metadata{}, nil
	}

	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(string(track.Source), track.ID)),
		Length:  types.Microseconds(p.service.Duration().Microseconds()),
		Title:   track.Title,
		Artist:  []string{track.Artist},
		Album:   track.Album,
	}
	if track.CoverURL != "" {
		meta.ArtUrl = track.CoverURL
	}
	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return 1.0, nil // Volume control not exposed via service
}

func (p *playerAdapter) SetVolume(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Position() (int64, error) {
	return p.service.Position().Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.service.CurrentTrack() != nil, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

// formatTrackID derives a stable D-Bus object path for a track. Remote
// ids are not valid path segments, so they are hashed.
func formatTrackID(source, id string) string {
	h := fnv.New64a()
	h.Write([]byte(source))
	h.Write([]byte{0})
	h.Write([]byte(id))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
