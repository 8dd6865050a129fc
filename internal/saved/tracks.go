// Package saved caches "is this item saved" membership for the
// heart/favorite affordances, backed by the backend library endpoints.
package saved

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/pcharbon/chorus/internal/api"
	"github.com/pcharbon/chorus/internal/music"
)

// compositeKey identifies an item across services: the same id can
// exist on two sources.
func compositeKey(id string, source music.Source) string {
	return id + "|" + string(source)
}

// Tracks coordinates the saved-tracks list and its membership set.
// Mutations apply locally only after the backend confirms.
type Tracks struct {
	mu sync.RWMutex

	client *api.Client
	log    zerolog.Logger

	tracks    []music.SavedTrack
	members   map[string]struct{}
	lastError string
}

// NewTracks creates a saved-tracks coordinator.
func NewTracks(client *api.Client, log zerolog.Logger) *Tracks {
	return &Tracks{
		client:  client,
		log:     log,
		members: make(map[string]struct{}),
	}
}

// Load fetches the authoritative list and rebuilds the membership set.
func (t *Tracks) Load(ctx context.Context) error {
	tracks, err := t.client.GetSavedTracks(ctx)
	if err != nil {
		t.retain(err)
		return err
	}

	members := make(map[string]struct{}, len(tracks))
	for _, st := range tracks {
		members[compositeKey(st.TrackID, st.Source)] = struct{}{}
	}

	t.mu.Lock()
	t.tracks = tracks
	t.members = members
	t.lastError = ""
	t.mu.Unlock()
	return nil
}

// IsSaved is an O(1) membership test against the last loaded state.
func (t *Tracks) IsSaved(trackID string, source music.Source) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.members[compositeKey(trackID, source)]
	return ok
}

// Tracks returns a copy of the saved list.
func (t *Tracks) Tracks() []music.SavedTrack {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]music.SavedTrack(nil), t.tracks...)
}

// Save hearts a track. Returns false (with the error retained) on
// backend failure, leaving list and membership untouched.
func (t *Tracks) Save(ctx context.Context, track music.Track) bool {
	if err := t.client.SaveTrack(ctx, track); err != nil {
		t.retain(err)
		return false
	}
	// Reload to pick up the server-issued saved id.
	if err := t.Load(ctx); err != nil {
		t.log.Warn().Err(err).Msg("reload after save failed")
	}
	return true
}

// Remove un-hearts by saved id. Returns false on backend failure with
// no local mutation.
func (t *Tracks) Remove(ctx context.Context, savedID string) bool {
	if err := t.client.RemoveSavedTrack(ctx, savedID); err != nil {
		t.retain(err)
		return false
	}
	if err := t.Load(ctx); err != nil {
		t.log.Warn().Err(err).Msg("reload after remove failed")
	}
	return true
}

// FindSaved returns the saved entry for (trackID, source), if any.
func (t *Tracks) FindSaved(trackID string, source music.Source) *music.SavedTrack {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, st := range t.tracks {
		if st.TrackID == trackID && st.Source == source {
			found := st
			return &found
		}
	}
	return nil
}

// LastError returns the retained error message ("" when none).
func (t *Tracks) LastError() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastError
}

func (t *Tracks) retain(err error) {
	t.mu.Lock()
	t.lastError = err.Error()
	t.mu.Unlock()
}
