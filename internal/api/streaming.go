package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pcharbon/chorus/internal/music"
)

// SearchParams selects what and where to search. Exactly one of
// Service / Services should be set; both empty lets the backend pick
// its default service.
type SearchParams struct {
	Query    string
	Type     music.SearchType
	Service  string
	Services []string
	Limit    int
	Offset   int
	// Library scopes the search to the user's own saved items instead
	// of the provider catalogs.
	Library bool
}

// Search runs one catalog (or library) search against the backend.
func (c *Client) Search(ctx context.Context, p SearchParams) (music.SearchResults, error) {
	q := url.Values{}
	q.Set("q", p.Query)
	if p.Type != "" && p.Type != music.SearchAll {
		q.Set("type", string(p.Type))
	}
	if p.Service != "" {
		q.Set("service", p.Service)
	}
	if len(p.Services) > 0 {
		q.Set("services", strings.Join(p.Services, ","))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Offset > 0 {
		q.Set("offset", strconv.Itoa(p.Offset))
	}
	if p.Library {
		q.Set("library", "true")
	}

	var results music.SearchResults
	if err := c.doJSON(ctx, http.MethodGet, "/api/streaming/search", q, nil, &results); err != nil {
		return music.SearchResults{}, fmt.Errorf("search: %w", err)
	}
	// Normalize nil slices so callers can range without nil checks.
	if results.Tracks == nil {
		results.Tracks = []music.Track{}
	}
	if results.Albums == nil {
		results.Albums = []music.Album{}
	}
	if results.Playlists == nil {
		results.Playlists = []music.PlaylistSummary{}
	}
	return results, nil
}

type streamURLResponse struct {
	URL string `json:"url"`
}

// GetStreamURL resolves the provider-side stream URL for a track
// (phase one of the two-phase resolution).
func (c *Client) GetStreamURL(ctx context.Context, trackID string, source music.Source, quality string) (string, error) {
	q := url.Values{}
	q.Set("track_id", trackID)
	q.Set("service", string(source))
	if quality != "" {
		q.Set("quality", quality)
	}
	var resp streamURLResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/streaming/stream-url", q, nil, &resp); err != nil {
		// The backend rejects services it cannot stream from with a
		// "Unsupported streaming service" message; callers branch on it.
		var be *BackendError
		if errors.As(err, &be) && strings.Contains(be.Message, "Unsupported streaming service") {
			return "", fmt.Errorf("stream url: %w: %s", ErrUnsupported, be.Message)
		}
		return "", fmt.Errorf("stream url: %w", err)
	}
	return resp.URL, nil
}

// GetBackendStreamURL exchanges a provider URL for a backend-proxied,
// possibly cached one (phase two). The returned URL may be relative to
// the backend host.
func (c *Client) GetBackendStreamURL(ctx context.Context, trackID string, source music.Source, providerURL, title, artist string) (string, error) {
	q := url.Values{}
	q.Set("track_id", trackID)
	q.Set("source", string(source))
	q.Set("url", providerURL)
	if title != "" {
		q.Set("title", title)
	}
	if artist != "" {
		q.Set("artist", artist)
	}
	var resp streamURLResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/streaming/backend-stream-url", q, nil, &resp); err != nil {
		return "", fmt.Errorf("backend stream url: %w", err)
	}
	return resp.URL, nil
}

// AvailableServices lists the services the backend can search.
func (c *Client) AvailableServices(ctx context.Context) ([]ServiceInfo, error) {
	var resp struct {
		Services []ServiceInfo `json:"services"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/streaming/services", nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("services: %w", err)
	}
	return resp.Services, nil
}

// ServiceStatuses reports per-service connection state for this user.
func (c *Client) ServiceStatuses(ctx context.Context) ([]ServiceStatus, error) {
	var resp struct {
		Services []ServiceStatus `json:"services"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/streaming/status", nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("service status: %w", err)
	}
	return resp.Services, nil
}

type connectQobuzRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ConnectQobuz links the user's Qobuz account on the backend.
func (c *Client) ConnectQobuz(ctx context.Context, username, password string) error {
	err := c.doJSON(ctx, http.MethodPost, "/api/streaming/connect/qobuz", nil,
		connectQobuzRequest{Username: username, Password: password}, nil)
	if err != nil {
		return fmt.Errorf("connect qobuz: %w", err)
	}
	return nil
}

type connectSpotifyRequest struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// ConnectSpotify links the user's Spotify account using tokens from
// the OAuth flow started by GetSpotifyAuthURL.
func (c *Client) ConnectSpotify(ctx context.Context, accessToken, refreshToken string) error {
	err := c.doJSON(ctx, http.MethodPost, "/api/streaming/connect/spotify", nil,
		connectSpotifyRequest{AccessToken: accessToken, RefreshToken: refreshToken}, nil)
	if err != nil {
		return fmt.Errorf("connect spotify: %w", err)
	}
	return nil
}

type spotifyAuthURLResponse struct {
	AuthURL string `json:"auth_url"`
	State   string `json:"state"`
}

// GetSpotifyAuthURL returns the authorization URL the user opens in a
// browser to grant Spotify access. The backend builds it with its own
// client id and callback.
func (c *Client) GetSpotifyAuthURL(ctx context.Context) (string, error) {
	var resp spotifyAuthURLResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/streaming/spotify/auth-url", nil, nil, &resp); err != nil {
		return "", fmt.Errorf("spotify auth url: %w", err)
	}
	return resp.AuthURL, nil
}

type disconnectRequest struct {
	Service string `json:"service"`
}

// DisconnectService unlinks a streaming service.
func (c *Client) DisconnectService(ctx context.Context, service string) error {
	err := c.doJSON(ctx, http.MethodPost, "/api/streaming/disconnect", nil,
		disconnectRequest{Service: service}, nil)
	if err != nil {
		return fmt.Errorf("disconnect service: %w", err)
	}
	return nil
}
