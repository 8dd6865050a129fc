package saved

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/pcharbon/chorus/internal/api"
	"github.com/pcharbon/chorus/internal/music"
)

// Albums coordinates the saved-albums list and its membership set,
// with the same confirm-then-mutate discipline as Tracks.
type Albums struct {
	mu sync.RWMutex

	client *api.Client
	log    zerolog.Logger

	albums    []music.SavedAlbum
	members   map[string]struct{}
	lastError string
}

// NewAlbums creates a saved-albums coordinator.
func NewAlbums(client *api.Client, log zerolog.Logger) *Albums {
	return &Albums{
		client:  client,
		log:     log,
		members: make(map[string]struct{}),
	}
}

// Load fetches the authoritative list and rebuilds the membership set.
func (a *Albums) Load(ctx context.Context) error {
	albums, err := a.client.GetSavedAlbums(ctx)
	if err != nil {
		a.retain(err)
		return err
	}

	members := make(map[string]struct{}, len(albums))
	for _, sa := range albums {
		members[compositeKey(sa.AlbumID, sa.Source)] = struct{}{}
	}

	a.mu.Lock()
	a.albums = albums
	a.members = members
	a.lastError = ""
	a.mu.Unlock()
	return nil
}

// IsSaved is an O(1) membership test against the last loaded state.
func (a *Albums) IsSaved(albumID string, source music.Source) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.members[compositeKey(albumID, source)]
	return ok
}

// Albums returns a copy of the saved list.
func (a *Albums) Albums() []music.SavedAlbum {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]music.SavedAlbum(nil), a.albums...)
}

// Save saves an album; false on backend failure with no local change.
func (a *Albums) Save(ctx context.Context, album music.Album) bool {
	if err := a.client.SaveAlbum(ctx, album); err != nil {
		a.retain(err)
		return false
	}
	if err := a.Load(ctx); err != nil {
		a.log.Warn().Err(err).Msg("reload after save failed")
	}
	return true
}

// Remove deletes a saved album by saved id; false on backend failure.
func (a *Albums) Remove(ctx context.Context, savedID string) bool {
	if err := a.client.RemoveSavedAlbum(ctx, savedID); err != nil {
		a.retain(err)
		return false
	}
	if err := a.Load(ctx); err != nil {
		a.log.Warn().Err(err).Msg("reload after remove failed")
	}
	return true
}

// LastError returns the retained error message ("" when none).
func (a *Albums) LastError() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastError
}

func (a *Albums) retain(err error) {
	a.mu.Lock()
	a.lastError = err.Error()
	a.mu.Unlock()
}
