package saved

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

// savedBackend is an in-memory saved-tracks server speaking the
// gateway envelope.
type savedBackend struct {
	mu     sync.Mutex
	rows   []map[string]any
	nextID int
	fail   bool
}

func (b *savedBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/saved-tracks", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.fail {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "library offline"})
			return
		}
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": b.rows})
		case http.MethodPost:
			var req map[string]any
			_ = json.NewDecoder(r.Body).Decode(&req)
			b.nextID++
			b.rows = append(b.rows, map[string]any{
				"id":       fmt.Sprintf("s%d", b.nextID),
				"track_id": req["track_id"],
				"title":    req["title"],
				"artist":   req["artist"],
				"source":   req["source"],
				"saved_at": "2026-08-28T10:00:00",
			})
			_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
		}
	})
	mux.HandleFunc("/api/saved-tracks/", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		id := strings.TrimPrefix(r.URL.Path, "/api/saved-tracks/")
		for i, row := range b.rows {
			if row["id"] == id {
				b.rows = append(b.rows[:i], b.rows[i+1:]...)
				break
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	})
	return mux
}

func newTestTracks(t *testing.T) (*Tracks, *savedBackend) {
	t.Helper()
	backend := &savedBackend{}
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)
	client := api.NewClient(srv.URL, 5*time.Second, zerolog.Nop())
	return NewTracks(client, zerolog.Nop()), backend
}

func TestSaveAddsMembership(t *testing.T) {
	tracks, _ := newTestTracks(t)
	ctx := context.Background()
	require.NoError(t, tracks.Load(ctx))
	assert.False(t, tracks.IsSaved("t1", music.SourceQobuz))

	ok := tracks.Save(ctx, music.Track{ID: "t1", Title: "Xtal", Source: music.SourceQobuz})
	require.True(t, ok)
	assert.True(t, tracks.IsSaved("t1", music.SourceQobuz))
	assert.Empty(t, tracks.LastError())

	// Same id on another service is a distinct item.
	assert.False(t, tracks.IsSaved("t1", music.SourceTidal))
}

func TestSaveFailureLeavesMembershipUntouched(t *testing.T) {
	tracks, backend := newTestTracks(t)
	ctx := context.Background()
	require.NoError(t, tracks.Load(ctx))

	backend.mu.Lock()
	backend.fail = true
	backend.mu.Unlock()

	ok := tracks.Save(ctx, music.Track{ID: "t1", Source: music.SourceQobuz})
	assert.False(t, ok)
	assert.False(t, tracks.IsSaved("t1", music.SourceQobuz))
	assert.Contains(t, tracks.LastError(), "library offline")
	assert.Empty(t, tracks.Tracks())
}

func TestRemoveBySavedID(t *testing.T) {
	tracks, _ := newTestTracks(t)
	ctx := context.Background()
	require.True(t, tracks.Save(ctx, music.Track{ID: "t1", Source: music.SourceQobuz}))

	entry := tracks.FindSaved("t1", music.SourceQobuz)
	require.NotNil(t, entry)
	// The saved id is server-issued and distinct from the track id.
	assert.NotEqual(t, entry.TrackID, entry.ID)

	require.True(t, tracks.Remove(ctx, entry.ID))
	assert.False(t, tracks.IsSaved("t1", music.SourceQobuz))
	assert.Nil(t, tracks.FindSaved("t1", music.SourceQobuz))
}

func TestRemoveFailureRetainsEntry(t *testing.T) {
	tracks, backend := newTestTracks(t)
	ctx := context.Background()
	require.True(t, tracks.Save(ctx, music.Track{ID: "t1", Source: music.SourceQobuz}))
	entry := tracks.FindSaved("t1", music.SourceQobuz)
	require.NotNil(t, entry)

	backend.mu.Lock()
	backend.fail = true
	backend.mu.Unlock()

	assert.False(t, tracks.Remove(ctx, entry.ID))
	assert.True(t, tracks.IsSaved("t1", music.SourceQobuz))
	assert.NotEmpty(t, tracks.LastError())
}

func TestLoadClearsRetainedError(t *testing.T) {
	tracks, backend := newTestTracks(t)
	ctx := context.Background()

	backend.mu.Lock()
	backend.fail = true
	backend.mu.Unlock()
	require.Error(t, tracks.Load(ctx))
	assert.NotEmpty(t, tracks.LastError())

	backend.mu.Lock()
	backend.fail = false
	backend.mu.Unlock()
	require.NoError(t, tracks.Load(ctx))
	assert.Empty(t, tracks.LastError())
}
