package playback

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcharbon/chorus/internal/api"
	"github.com/pcharbon/chorus/internal/music"
)

func TestResolveStreamURLTwoPhase(t *testing.T) {
	var phases []string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/streaming/stream-url", func(w http.ResponseWriter, r *http.Request) {
		phases = append(phases, "provider")
		assert.Equal(t, "t1", r.URL.Query().Get("track_id"))
		assert.Equal(t, "qobuz", r.URL.Query().Get("service"))
		assert.Equal(t, "hires", r.URL.Query().Get("quality"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]string{"url": "https://provider.example/raw.flac"},
		})
	})
	mux.HandleFunc("/api/streaming/backend-stream-url", func(w http.ResponseWriter, r *http.Request) {
		phases = append(phases, "backend")
		assert.Equal(t, "https://provider.example/raw.flac", r.URL.Query().Get("url"))
		// The backend answers with a host-relative proxy path.
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]string{"url": "/api/streaming/stream/cached-t1"},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, 5*time.Second, zerolog.Nop())
	resolver := NewResolver(client, "hires")

	track := music.Track{ID: "t1", Title: "Xtal", Artist: "Aphex Twin", Source: music.SourceQobuz}
	resolved, err := resolver.ResolveStreamURL(context.Background(), track)
	require.NoError(t, err)

	assert.Equal(t, []string{"provider", "backend"}, phases)
	assert.Equal(t, srv.URL+"/api/streaming/stream/cached-t1", resolved)
}

func TestResolveStreamURLProviderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, 5*time.Second, zerolog.Nop())
	resolver := NewResolver(client, "")

	_, err := resolver.ResolveStreamURL(context.Background(), music.Track{ID: "t1", Source: music.SourceTidal})
	require.ErrorIs(t, err, api.ErrNotFound)
}
