package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pcharbon/chorus/internal/music"
)

type createPlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type updatePlaylistRequest struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

type addPlaylistItemRequest struct {
	TrackID  string `json:"track_id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	Duration int    `json:"duration"`
	Source   string `json:"source"`
	CoverURL string `json:"cover_url,omitempty"`
}

type reorderPlaylistItemRequest struct {
	NewPosition int `json:"new_position"`
}

// GetPlaylists lists the user's playlists.
func (c *Client) GetPlaylists(ctx context.Context) ([]Playlist, error) {
	var playlists []Playlist
	if err := c.doJSON(ctx, http.MethodGet, "/api/v2/playlists", nil, nil, &playlists); err != nil {
		return nil, fmt.Errorf("get playlists: %w", err)
	}
	return playlists, nil
}

// GetPlaylist fetches a single playlist.
func (c *Client) GetPlaylist(ctx context.Context, id string) (*Playlist, error) {
	var playlist Playlist
	if err := c.doJSON(ctx, http.MethodGet, "/api/v2/playlists/"+id, nil, nil, &playlist); err != nil {
		return nil, fmt.Errorf("get playlist: %w", err)
	}
	return &playlist, nil
}

// CreatePlaylist makes a new empty playlist.
func (c *Client) CreatePlaylist(ctx context.Context, name, description string) (*Playlist, error) {
	var playlist Playlist
	req := createPlaylistRequest{Name: name, Description: description}
	if err := c.doJSON(ctx, http.MethodPost, "/api/v2/playlists", nil, req, &playlist); err != nil {
		return nil, fmt.Errorf("create playlist: %w", err)
	}
	return &playlist, nil
}

// UpdatePlaylist renames or re-describes a playlist.
func (c *Client) UpdatePlaylist(ctx context.Context, id, name, description string) error {
	req := updatePlaylistRequest{Name: name, Description: description}
	if err := c.doJSON(ctx, http.MethodPut, "/api/v2/playlists/"+id, nil, req, nil); err != nil {
		return fmt.Errorf("update playlist: %w", err)
	}
	return nil
}

// DeletePlaylist removes a playlist and its items.
func (c *Client) DeletePlaylist(ctx context.Context, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/api/v2/playlists/"+id, nil, nil, nil); err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	return nil
}

// GetPlaylistItems returns a playlist's items in position order.
func (c *Client) GetPlaylistItems(ctx context.Context, playlistID string) ([]PlaylistItem, error) {
	var items []PlaylistItem
	path := "/api/v2/playlists/" + playlistID + "/items"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &items); err != nil {
		return nil, fmt.Errorf("get playlist items: %w", err)
	}
	return items, nil
}

// AddPlaylistItem appends a track to a playlist.
func (c *Client) AddPlaylistItem(ctx context.Context, playlistID string, t music.Track) error {
	req := addPlaylistItemRequest{
		TrackID:  t.ID,
		Title:    t.Title,
		Artist:   t.Artist,
		Album:    t.Album,
		Duration: t.Duration,
		Source:   string(t.Source),
		CoverURL: t.CoverURL,
	}
	path := "/api/v2/playlists/" + playlistID + "/items"
	if err := c.doJSON(ctx, http.MethodPost, path, nil, req, nil); err != nil {
		return fmt.Errorf("add playlist item: %w", err)
	}
	return nil
}

// RemovePlaylistItem deletes one item from a playlist.
func (c *Client) RemovePlaylistItem(ctx context.Context, playlistID, itemID string) error {
	path := "/api/v2/playlists/" + playlistID + "/items/" + itemID
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("remove playlist item: %w", err)
	}
	return nil
}

// ReorderPlaylistItem moves an item within its playlist.
func (c *Client) ReorderPlaylistItem(ctx context.Context, playlistID, itemID string, newPosition int) error {
	path := "/api/v2/playlists/" + playlistID + "/items/" + itemID + "/reorder"
	req := reorderPlaylistItemRequest{NewPosition: newPosition}
	if err := c.doJSON(ctx, http.MethodPut, path, nil, req, nil); err != nil {
		return fmt.Errorf("reorder playlist item: %w", err)
	}
	return nil
}
