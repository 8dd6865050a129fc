// Package queue coordinates the plain FIFO queue (backend-persisted)
// and the session-local playlist-queue cursors.
package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pcharbon/chorus/internal/api"
	"github.com/pcharbon/chorus/internal/music"
)

// Coordinator owns the queue and playlist-queue state. Queue positions
// are backend-owned: every mutation is a backend call followed by a
// full reload, never a locally computed position.
type Coordinator struct {
	mu sync.RWMutex

	client *api.Client
	log    zerolog.Logger

	items []music.QueueItem

	playlists []music.PlaylistQueueItem
	// playlistActive marks playlists[0] as the cursor currently being
	// played through, as opposed to merely pending.
	playlistActive bool

	// itemCache holds playlist items fetched for cursor advancement,
	// keyed by playlist id.
	itemCache map[string][]api.PlaylistItem
}

// New creates a queue coordinator.
func New(client *api.Client, log zerolog.Logger) *Coordinator {
	return &Coordinator{
		client:    client,
		log:       log,
		itemCache: make(map[string][]api.PlaylistItem),
	}
}

// Reload replaces the local queue mirror with the backend's ordering.
func (c *Coordinator) Reload(ctx context.Context) error {
	items, err := c.client.GetQueue(ctx)
	if err != nil {
		return fmt.Errorf("reload queue: %w", err)
	}
	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
	return nil
}

// Items returns a copy of the queue in backend order.
func (c *Coordinator) Items() []music.QueueItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]music.QueueItem(nil), c.items...)
}

// Len returns the number of pending queue items.
func (c *Coordinator) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// NextItem returns the queue head without consuming it.
func (c *Coordinator) NextItem() *music.QueueItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.items) == 0 {
		return nil
	}
	head := c.items[0]
	return &head
}

// Add appends a track; the backend assigns the position.
func (c *Coordinator) Add(ctx context.Context, t music.Track) error {
	if err := c.client.AddToQueue(ctx, t); err != nil {
		return err
	}
	return c.Reload(ctx)
}

// Remove deletes an item by its backend id.
func (c *Coordinator) Remove(ctx context.Context, itemID string) error {
	if err := c.client.RemoveFromQueue(ctx, itemID); err != nil {
		return err
	}
	return c.Reload(ctx)
}

// Reorder moves an item; the backend recomputes all positions.
func (c *Coordinator) Reorder(ctx context.Context, itemID string, newPosition int) error {
	if err := c.client.ReorderQueue(ctx, itemID, newPosition); err != nil {
		return err
	}
	return c.Reload(ctx)
}

// Clear empties the plain queue.
func (c *Coordinator) Clear(ctx context.Context) error {
	if err := c.client.ClearQueue(ctx); err != nil {
		return err
	}
	return c.Reload(ctx)
}

// ClearAll empties the plain queue and drops every playlist cursor.
// Used by "play now" semantics.
func (c *Coordinator) ClearAll(ctx context.Context) error {
	c.mu.Lock()
	c.playlists = nil
	c.playlistActive = false
	c.mu.Unlock()
	return c.Clear(ctx)
}

// PlayPlaylist builds a cursor for playing through a playlist and
// appends it to the playlist-queue. Returns the first track to play
// when no cursor was pending before this one.
func (c *Coordinator) PlayPlaylist(ctx context.Context, playlist api.Playlist, mode music.LoopMode) (*music.Track, error) {
	if !mode.Valid() {
		mode = music.LoopOnce
	}
	items, err := c.client.GetPlaylistItems(ctx, playlist.ID)
	if err != nil {
		return nil, fmt.Errorf("play playlist: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("play playlist: %q is empty", playlist.Name)
	}

	order := make([]string, len(items))
	for i, it := range items {
		order[i] = it.TrackID
	}
	first := items[0]

	cursor := music.PlaylistQueueItem{
		PlaylistID:        playlist.ID,
		Name:              playlist.Name,
		Description:       playlist.Description,
		CoverURL:          playlist.CoverURL,
		LoopMode:          mode,
		TrackOrder:        order,
		CurrentTrackIndex: 0,
		Title:             first.Title,
		Artist:            first.Artist,
		Album:             first.Album,
		Duration:          first.Duration,
		Source:            music.Source(first.Source),
		TrackCoverURL:     first.CoverURL,
		AddedAt:           time.Now(),
	}

	c.mu.Lock()
	wasEmpty := len(c.playlists) == 0
	c.playlists = append(c.playlists, cursor)
	c.itemCache[playlist.ID] = items
	var start *music.Track
	if wasEmpty {
		c.playlistActive = true
		t := first.Track()
		start = &t
	}
	c.mu.Unlock()

	return start, nil
}

// PlaylistQueue returns a copy of the pending playlist cursors.
func (c *Coordinator) PlaylistQueue() []music.PlaylistQueueItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]music.PlaylistQueueItem(nil), c.playlists...)
}

// RemovePlaylist drops a cursor by playlist id.
func (c *Coordinator) RemovePlaylist(playlistID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, p := range c.playlists {
		if p.PlaylistID == playlistID {
			if i == 0 {
				c.playlistActive = false
			}
			c.playlists = append(c.playlists[:i], c.playlists[i+1:]...)
			delete(c.itemCache, playlistID)
			return
		}
	}
}

// ResolveNext decides what plays next:
//  1. advance within the active playlist cursor,
//  2. else start a pending cursor,
//  3. else pop the plain-queue head,
//  4. else nothing (nil, nil).
func (c *Coordinator) ResolveNext(ctx context.Context) (*music.Track, error) {
	for {
		c.mu.Lock()
		if len(c.playlists) == 0 {
			c.mu.Unlock()
			break
		}

		cursor := &c.playlists[0]
		if !c.playlistActive {
			c.playlistActive = true
			snapshot := *cursor
			c.mu.Unlock()
			track := c.resolvePlaylistTrack(ctx, snapshot)
			c.updateCursorDisplay(snapshot.PlaylistID, *track)
			return track, nil
		}

		if removed := moveNext(cursor); removed {
			c.playlists = c.playlists[1:]
			c.playlistActive = false
			delete(c.itemCache, cursor.PlaylistID)
			c.mu.Unlock()
			// Re-run the resolution rules against what remains.
			continue
		}
		snapshot := *cursor
		c.mu.Unlock()

		track := c.resolvePlaylistTrack(ctx, snapshot)
		c.updateCursorDisplay(snapshot.PlaylistID, *track)
		return track, nil
	}

	// Rule 3: plain FIFO head, consumed server-side.
	return c.popNext(ctx)
}

// ResolvePrevious steps back within the active playlist cursor. The
// plain queue is forward-only.
func (c *Coordinator) ResolvePrevious(ctx context.Context) (*music.Track, error) {
	c.mu.Lock()
	if len(c.playlists) == 0 || !c.playlistActive {
		c.mu.Unlock()
		return nil, nil
	}
	cursor := &c.playlists[0]
	if !movePrevious(cursor) {
		c.mu.Unlock()
		return nil, nil
	}
	snapshot := *cursor
	c.mu.Unlock()

	track := c.resolvePlaylistTrack(ctx, snapshot)
	c.updateCursorDisplay(snapshot.PlaylistID, *track)
	return track, nil
}

// popNext consumes the queue head: delete server-side, then reload to
// pick up the backend's compacted positions.
func (c *Coordinator) popNext(ctx context.Context) (*music.Track, error) {
	c.mu.RLock()
	if len(c.items) == 0 {
		c.mu.RUnlock()
		return nil, nil
	}
	head := c.items[0]
	c.mu.RUnlock()

	if err := c.client.RemoveFromQueue(ctx, head.ID); err != nil {
		return nil, fmt.Errorf("pop queue head: %w", err)
	}
	if err := c.Reload(ctx); err != nil {
		return nil, err
	}

	t := head.Track()
	return &t, nil
}

// resolvePlaylistTrack looks up the full track for the cursor's index.
// Lookup failure must not stall playback: a placeholder track with an
// index-derived title and the playlist name as artist keeps the
// transition moving.
func (c *Coordinator) resolvePlaylistTrack(ctx context.Context, cursor music.PlaylistQueueItem) *music.Track {
	trackID := cursor.CurrentTrackID()

	c.mu.RLock()
	items, cached := c.itemCache[cursor.PlaylistID]
	c.mu.RUnlock()

	if !cached {
		fetched, err := c.client.GetPlaylistItems(ctx, cursor.PlaylistID)
		if err != nil {
			c.log.Warn().Err(err).Str("playlist", cursor.Name).Msg("playlist lookup failed, using placeholder")
			return placeholderTrack(cursor)
		}
		c.mu.Lock()
		c.itemCache[cursor.PlaylistID] = fetched
		c.mu.Unlock()
		items = fetched
	}

	for _, it := range items {
		if it.TrackID == trackID {
			t := it.Track()
			return &t
		}
	}

	c.log.Warn().Str("track_id", trackID).Str("playlist", cursor.Name).Msg("track missing from playlist, using placeholder")
	return placeholderTrack(cursor)
}

func placeholderTrack(cursor music.PlaylistQueueItem) *music.Track {
	return &music.Track{
		ID:     cursor.CurrentTrackID(),
		Title:  fmt.Sprintf("Track %d", cursor.CurrentTrackIndex+1),
		Artist: cursor.Name,
		Source: cursor.Source,
	}
}

// updateCursorDisplay refreshes the denormalized current-track fields
// on the stored cursor after a move.
func (c *Coordinator) updateCursorDisplay(playlistID string, t music.Track) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.playlists {
		if c.playlists[i].PlaylistID != playlistID {
			continue
		}
		c.playlists[i].Title = t.Title
		c.playlists[i].Artist = t.Artist
		c.playlists[i].Album = t.Album
		c.playlists[i].Duration = t.Duration
		if t.Source != "" {
			c.playlists[i].Source = t.Source
		}
		c.playlists[i].TrackCoverURL = t.CoverURL
		return
	}
}
