package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pcharbon/chorus/internal/music"
)

type addToQueueRequest struct {
	TrackID  string `json:"track_id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	Duration int    `json:"duration"`
	Source   string `json:"source"`
	CoverURL string `json:"cover_url,omitempty"`
}

type reorderQueueRequest struct {
	ItemID      string `json:"item_id"`
	NewPosition int    `json:"new_position"`
}

// GetQueue returns the user's queue ordered by server-assigned position.
func (c *Client) GetQueue(ctx context.Context) ([]music.QueueItem, error) {
	var dtos []queueItemDTO
	if err := c.doJSON(ctx, http.MethodGet, "/api/queue", nil, nil, &dtos); err != nil {
		return nil, fmt.Errorf("get queue: %w", err)
	}
	items := make([]music.QueueItem, len(dtos))
	for i, d := range dtos {
		items[i] = d.toModel()
	}
	return items, nil
}

// AddToQueue appends a track; the backend assigns id and position.
func (c *Client) AddToQueue(ctx context.Context, t music.Track) error {
	req := addToQueueRequest{
		TrackID:  t.ID,
		Title:    t.Title,
		Artist:   t.Artist,
		Album:    t.Album,
		Duration: t.Duration,
		Source:   string(t.Source),
		CoverURL: t.CoverURL,
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/queue", nil, req, nil); err != nil {
		return fmt.Errorf("add to queue: %w", err)
	}
	return nil
}

// RemoveFromQueue deletes one item; the backend compacts positions.
func (c *Client) RemoveFromQueue(ctx context.Context, itemID string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/api/queue/"+itemID, nil, nil, nil); err != nil {
		return fmt.Errorf("remove from queue: %w", err)
	}
	return nil
}

// ReorderQueue moves an item to a new position.
func (c *Client) ReorderQueue(ctx context.Context, itemID string, newPosition int) error {
	req := reorderQueueRequest{ItemID: itemID, NewPosition: newPosition}
	if err := c.doJSON(ctx, http.MethodPut, "/api/queue/"+itemID+"/reorder", nil, req, nil); err != nil {
		return fmt.Errorf("reorder queue: %w", err)
	}
	return nil
}

// ClearQueue removes every item.
func (c *Client) ClearQueue(ctx context.Context) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/api/queue", nil, nil, nil); err != nil {
		return fmt.Errorf("clear queue: %w", err)
	}
	return nil
}
