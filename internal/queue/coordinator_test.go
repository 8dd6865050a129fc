package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcharbon/chorus/internal/api"
	"github.com/pcharbon/chorus/internal/music"
)

// fakeBackend is an in-memory queue server speaking the gateway's
// response envelope. Positions are assigned server-side, like the real
// backend.
type fakeBackend struct {
	mu     sync.Mutex
	queue  []map[string]any
	nextID int

	playlistItems map[string][]map[string]any
	failPlaylists bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{playlistItems: make(map[string][]map[string]any)}
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/queue", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		switch r.Method {
		case http.MethodGet:
			writeData(w, b.snapshotLocked())
		case http.MethodPost:
			var req map[string]any
			_ = json.NewDecoder(r.Body).Decode(&req)
			b.nextID++
			b.queue = append(b.queue, map[string]any{
				"id":       fmt.Sprintf("q%d", b.nextID),
				"track_id": req["track_id"],
				"title":    req["title"],
				"artist":   req["artist"],
				"album":    req["album"],
				"duration": req["duration"],
				"source":   req["source"],
				"added_at": "2026-08-28T10:00:00",
			})
			writeData(w, b.queue[len(b.queue)-1])
		case http.MethodDelete:
			b.queue = nil
			writeData(w, nil)
		}
	})
	mux.HandleFunc("/api/queue/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/api/queue/")
		id = strings.TrimSuffix(id, "/reorder")
		b.mu.Lock()
		defer b.mu.Unlock()
		switch r.Method {
		case http.MethodDelete:
			for i, it := range b.queue {
				if it["id"] == id {
					b.queue = append(b.queue[:i], b.queue[i+1:]...)
					break
				}
			}
			writeData(w, nil)
		case http.MethodPut:
			var req struct {
				NewPosition int `json:"new_position"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			for i, it := range b.queue {
				if it["id"] == id {
					b.queue = append(b.queue[:i], b.queue[i+1:]...)
					pos := req.NewPosition
					if pos > len(b.queue) {
						pos = len(b.queue)
					}
					b.queue = append(b.queue[:pos], append([]map[string]any{it}, b.queue[pos:]...)...)
					break
				}
			}
			writeData(w, nil)
		}
	})
	mux.HandleFunc("/api/v2/playlists/", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.failPlaylists {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "storage offline"})
			return
		}
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/v2/playlists/"), "/items")
		writeData(w, b.playlistItems[id])
	})
	return mux
}

// snapshotLocked renders the queue with compacted 0-based positions.
func (b *fakeBackend) snapshotLocked() []map[string]any {
	out := make([]map[string]any, len(b.queue))
	for i, it := range b.queue {
		row := make(map[string]any, len(it)+1)
		for k, v := range it {
			row[k] = v
		}
		row["position"] = i
		out[i] = row
	}
	return out
}

func (b *fakeBackend) addPlaylist(id string, titles ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	items := make([]map[string]any, len(titles))
	for i, title := range titles {
		items[i] = map[string]any{
			"id":       fmt.Sprintf("%s-item%d", id, i),
			"track_id": fmt.Sprintf("%s-track%d", id, i),
			"title":    title,
			"artist":   "Artist",
			"duration": 180,
			"source":   "qobuz",
			"position": i,
		}
	}
	b.playlistItems[id] = items
}

func writeData(w http.ResponseWriter, data any) {
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func newTestCoordinator(t *testing.T) (*Coordinator, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)
	client := api.NewClient(srv.URL, 5*time.Second, zerolog.Nop())
	return New(client, zerolog.Nop()), backend
}

func track(id, title string) music.Track {
	return music.Track{ID: id, Title: title, Artist: "Artist", Duration: 200, Source: music.SourceQobuz}
}

func TestAddMirrorsBackendPositions(t *testing.T) {
	c, _ := newTestCoordinator(t)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, track("t1", "First")))
	require.NoError(t, c.Add(ctx, track("t2", "Second")))

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "First", items[0].Title)
	assert.Equal(t, 0, items[0].Position)
	assert.Equal(t, "Second", items[1].Title)
	assert.Equal(t, 1, items[1].Position)
}

func TestRemoveCompactsPositions(t *testing.T) {
	c, _ := newTestCoordinator(t)
	ctx := context.Background()
	require.NoError(t, c.Add(ctx, track("t1", "First")))
	require.NoError(t, c.Add(ctx, track("t2", "Second")))
	require.NoError(t, c.Add(ctx, track("t3", "Third")))

	require.NoError(t, c.Remove(ctx, c.Items()[0].ID))

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Second", items[0].Title)
	assert.Equal(t, 0, items[0].Position)
	assert.Equal(t, 1, items[1].Position)
}

func TestReorderFollowsBackendOrdering(t *testing.T) {
	c, _ := newTestCoordinator(t)
	ctx := context.Background()
	require.NoError(t, c.Add(ctx, track("t1", "First")))
	require.NoError(t, c.Add(ctx, track("t2", "Second")))
	require.NoError(t, c.Add(ctx, track("t3", "Third")))

	require.NoError(t, c.Reorder(ctx, c.Items()[2].ID, 0))

	items := c.Items()
	assert.Equal(t, []string{"Third", "First", "Second"},
		[]string{items[0].Title, items[1].Title, items[2].Title})
}

func TestResolveNextConsumesQueueHead(t *testing.T) {
	c, _ := newTestCoordinator(t)
	ctx := context.Background()
	require.NoError(t, c.Add(ctx, track("t1", "First")))
	require.NoError(t, c.Add(ctx, track("t2", "Second")))

	next, err := c.ResolveNext(ctx)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "First", next.Title)
	assert.Equal(t, 1, c.Len())

	next, err = c.ResolveNext(ctx)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "Second", next.Title)

	next, err = c.ResolveNext(ctx)
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestPlayPlaylistStartsFirstTrackWhenIdle(t *testing.T) {
	c, backend := newTestCoordinator(t)
	backend.addPlaylist("pl1", "Opener", "Middle", "Closer")

	start, err := c.PlayPlaylist(context.Background(), api.Playlist{ID: "pl1", Name: "Morning"}, music.LoopOnce)
	require.NoError(t, err)
	require.NotNil(t, start)
	assert.Equal(t, "Opener", start.Title)

	backend.addPlaylist("pl2", "Other")
	start, err = c.PlayPlaylist(context.Background(), api.Playlist{ID: "pl2", Name: "Evening"}, music.LoopOnce)
	require.NoError(t, err)
	// A pending cursor already exists, so nothing starts now.
	assert.Nil(t, start)
	assert.Len(t, c.PlaylistQueue(), 2)
}

func TestPlaylistTakesPriorityOverPlainQueue(t *testing.T) {
	c, backend := newTestCoordinator(t)
	ctx := context.Background()
	backend.addPlaylist("pl1", "Opener", "Closer")
	require.NoError(t, c.Add(ctx, track("t1", "Queued")))

	_, err := c.PlayPlaylist(ctx, api.Playlist{ID: "pl1", Name: "Morning"}, music.LoopOnce)
	require.NoError(t, err)

	var played []string
	for {
		next, err := c.ResolveNext(ctx)
		require.NoError(t, err)
		if next == nil {
			break
		}
		played = append(played, next.Title)
	}
	// The active cursor finishes before the plain queue is touched.
	// PlayPlaylist already started "Opener", so resolution picks up at
	// the second playlist track.
	assert.Equal(t, []string{"Closer", "Queued"}, played)
	assert.Empty(t, c.PlaylistQueue())
}

func TestResolveNextTwiceModePlaysListTwice(t *testing.T) {
	c, backend := newTestCoordinator(t)
	ctx := context.Background()
	backend.addPlaylist("pl1", "A", "B")

	_, err := c.PlayPlaylist(ctx, api.Playlist{ID: "pl1", Name: "Loop"}, music.LoopTwice)
	require.NoError(t, err)

	var played []string
	for {
		next, err := c.ResolveNext(ctx)
		require.NoError(t, err)
		if next == nil {
			break
		}
		played = append(played, next.Title)
	}
	assert.Equal(t, []string{"B", "A", "B"}, played)
}

func TestResolvePreviousOnlyWithinPlaylist(t *testing.T) {
	c, backend := newTestCoordinator(t)
	ctx := context.Background()

	// Plain queue is forward-only.
	require.NoError(t, c.Add(ctx, track("t1", "Queued")))
	prev, err := c.ResolvePrevious(ctx)
	require.NoError(t, err)
	assert.Nil(t, prev)

	backend.addPlaylist("pl1", "A", "B")
	_, err = c.PlayPlaylist(ctx, api.Playlist{ID: "pl1", Name: "Morning"}, music.LoopOnce)
	require.NoError(t, err)
	_, err = c.ResolveNext(ctx) // now at B
	require.NoError(t, err)

	prev, err = c.ResolvePrevious(ctx)
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, "A", prev.Title)

	// At the start of a once cursor there is nowhere to go back to.
	prev, err = c.ResolvePrevious(ctx)
	require.NoError(t, err)
	assert.Nil(t, prev)
}

func TestResolveNextPlaceholderOnLookupFailure(t *testing.T) {
	c, backend := newTestCoordinator(t)
	ctx := context.Background()
	backend.addPlaylist("pl1", "A", "B")

	_, err := c.PlayPlaylist(ctx, api.Playlist{ID: "pl1", Name: "Morning"}, music.LoopOnce)
	require.NoError(t, err)

	// Drop the cache and make refetching fail; advancement must still
	// produce a playable placeholder.
	c.mu.Lock()
	delete(c.itemCache, "pl1")
	c.mu.Unlock()
	backend.mu.Lock()
	backend.failPlaylists = true
	backend.mu.Unlock()

	next, err := c.ResolveNext(ctx)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "Track 2", next.Title)
	assert.Equal(t, "Morning", next.Artist)
}

func TestPendingCursorStartRefreshesDisplay(t *testing.T) {
	c, backend := newTestCoordinator(t)
	ctx := context.Background()
	backend.addPlaylist("pl1", "Only")
	backend.addPlaylist("pl2", "SecondOpener", "SecondCloser")

	_, err := c.PlayPlaylist(ctx, api.Playlist{ID: "pl1", Name: "Morning"}, music.LoopOnce)
	require.NoError(t, err)
	_, err = c.PlayPlaylist(ctx, api.Playlist{ID: "pl2", Name: "Evening"}, music.LoopOnce)
	require.NoError(t, err)

	// Force the pending cursor to start on a placeholder: its display
	// fields must follow what actually plays, not what PlayPlaylist
	// snapshotted when the cursor was queued.
	c.mu.Lock()
	delete(c.itemCache, "pl2")
	c.mu.Unlock()
	backend.mu.Lock()
	backend.failPlaylists = true
	backend.mu.Unlock()

	next, err := c.ResolveNext(ctx)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "Track 1", next.Title)
	assert.Equal(t, "Evening", next.Artist)

	pending := c.PlaylistQueue()
	require.Len(t, pending, 1)
	assert.Equal(t, "Track 1", pending[0].Title)
	assert.Equal(t, "Evening", pending[0].Artist)
}

func TestClearAllDropsCursorsAndQueue(t *testing.T) {
	c, backend := newTestCoordinator(t)
	ctx := context.Background()
	backend.addPlaylist("pl1", "A")
	require.NoError(t, c.Add(ctx, track("t1", "Queued")))
	_, err := c.PlayPlaylist(ctx, api.Playlist{ID: "pl1", Name: "Morning"}, music.LoopOnce)
	require.NoError(t, err)

	require.NoError(t, c.ClearAll(ctx))
	assert.Zero(t, c.Len())
	assert.Empty(t, c.PlaylistQueue())

	next, err := c.ResolveNext(ctx)
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestRemovePlaylistDropsCursor(t *testing.T) {
	c, backend := newTestCoordinator(t)
	ctx := context.Background()
	backend.addPlaylist("pl1", "A", "B")
	_, err := c.PlayPlaylist(ctx, api.Playlist{ID: "pl1", Name: "Morning"}, music.LoopOnce)
	require.NoError(t, err)

	c.RemovePlaylist("pl1")
	assert.Empty(t, c.PlaylistQueue())
}

func TestPlayPlaylistEmptyFails(t *testing.T) {
	c, backend := newTestCoordinator(t)
	backend.addPlaylist("pl1")

	_, err := c.PlayPlaylist(context.Background(), api.Playlist{ID: "pl1", Name: "Empty"}, music.LoopOnce)
	require.Error(t, err)
}
