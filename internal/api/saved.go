package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pcharbon/chorus/internal/music"
)

type saveTrackRequest struct {
	TrackID  string `json:"track_id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	Duration int    `json:"duration"`
	Source   string `json:"source"`
	CoverURL string `json:"cover_url,omitempty"`
}

type saveAlbumRequest struct {
	AlbumID  string `json:"album_id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Source   string `json:"source"`
	CoverURL string `json:"cover_url,omitempty"`
}

type savedCheckResponse struct {
	Saved bool `json:"saved"`
}

// GetSavedTracks returns the user's saved tracks, newest first.
func (c *Client) GetSavedTracks(ctx context.Context) ([]music.SavedTrack, error) {
	var dtos []savedTrackDTO
	if err := c.doJSON(ctx, http.MethodGet, "/api/saved-tracks", nil, nil, &dtos); err != nil {
		return nil, fmt.Errorf("get saved tracks: %w", err)
	}
	tracks := make([]music.SavedTrack, len(dtos))
	for i, d := range dtos {
		tracks[i] = d.toModel()
	}
	return tracks, nil
}

// SaveTrack hearts a track.
func (c *Client) SaveTrack(ctx context.Context, t music.Track) error {
	req := saveTrackRequest{
		TrackID:  t.ID,
		Title:    t.Title,
		Artist:   t.Artist,
		Album:    t.Album,
		Duration: t.Duration,
		Source:   string(t.Source),
		CoverURL: t.CoverURL,
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/saved-tracks", nil, req, nil); err != nil {
		return fmt.Errorf("save track: %w", err)
	}
	return nil
}

// RemoveSavedTrack un-hearts by the backend-issued saved id.
func (c *Client) RemoveSavedTrack(ctx context.Context, savedID string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/api/saved-tracks/"+savedID, nil, nil, nil); err != nil {
		return fmt.Errorf("remove saved track: %w", err)
	}
	return nil
}

// IsTrackSaved asks the backend for membership of (trackID, source).
func (c *Client) IsTrackSaved(ctx context.Context, trackID string, source music.Source) (bool, error) {
	q := url.Values{}
	q.Set("track_id", trackID)
	q.Set("source", string(source))
	var resp savedCheckResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/saved-tracks/check", q, nil, &resp); err != nil {
		return false, fmt.Errorf("check saved track: %w", err)
	}
	return resp.Saved, nil
}

// GetSavedAlbums returns the user's saved albums.
func (c *Client) GetSavedAlbums(ctx context.Context) ([]music.SavedAlbum, error) {
	var dtos []savedAlbumDTO
	if err := c.doJSON(ctx, http.MethodGet, "/api/albums/saved", nil, nil, &dtos); err != nil {
		return nil, fmt.Errorf("get saved albums: %w", err)
	}
	albums := make([]music.SavedAlbum, len(dtos))
	for i, d := range dtos {
		albums[i] = d.toModel()
	}
	return albums, nil
}

// SaveAlbum saves an album.
func (c *Client) SaveAlbum(ctx context.Context, a music.Album) error {
	req := saveAlbumRequest{
		AlbumID:  a.ID,
		Title:    a.Title,
		Artist:   a.Artist,
		Source:   string(a.Source),
		CoverURL: a.CoverURL,
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/albums/saved", nil, req, nil); err != nil {
		return fmt.Errorf("save album: %w", err)
	}
	return nil
}

// RemoveSavedAlbum removes a saved album by its backend-issued id.
func (c *Client) RemoveSavedAlbum(ctx context.Context, savedID string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/api/albums/saved/"+savedID, nil, nil, nil); err != nil {
		return fmt.Errorf("remove saved album: %w", err)
	}
	return nil
}

// IsAlbumSaved asks the backend for membership of (albumID, source).
func (c *Client) IsAlbumSaved(ctx context.Context, albumID string, source music.Source) (bool, error) {
	q := url.Values{}
	q.Set("album_id", albumID)
	q.Set("source", string(source))
	var resp savedCheckResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/albums/saved/check", q, nil, &resp); err != nil {
		return false, fmt.Errorf("check saved album: %w", err)
	}
	return resp.Saved, nil
}
