package api

import (
	"time"

	"github.com/pcharbon/chorus/internal/music"
)

// Wire DTOs. Timestamps arrive as naive datetimes without a zone, so
// they stay strings on the wire and go through parseTime.

const naiveTimeLayout = "2006-01-02T15:04:05"

func parseTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse(naiveTimeLayout, s); err == nil {
		return t
	}
	return time.Time{}
}

type userDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// User is the authenticated account.
type User struct {
	ID       string
	Username string
	Email    string
}

type loginResponseDTO struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

// Session is the result of a successful login or register call.
type Session struct {
	Token string
	User  User
}

// ServiceInfo describes one streaming service the backend can search.
type ServiceInfo struct {
	Name              string `json:"name"`
	DisplayName       string `json:"display_name"`
	SupportsFullTracks bool  `json:"supports_full_tracks"`
	RequiresPremium   bool   `json:"requires_premium"`
}

// ServiceStatus reports whether a service is connected for this user.
type ServiceStatus struct {
	Name            string `json:"name"`
	Connected       bool   `json:"connected"`
	AccountUsername string `json:"account_username,omitempty"`
}

type queueItemDTO struct {
	ID       string `json:"id"`
	TrackID  string `json:"track_id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	Duration int    `json:"duration"`
	Source   string `json:"source"`
	CoverURL string `json:"cover_url"`
	Position int    `json:"position"`
	AddedAt  string `json:"added_at"`
}

func (d queueItemDTO) toModel() music.QueueItem {
	return music.QueueItem{
		ID:       d.ID,
		TrackID:  d.TrackID,
		Title:    d.Title,
		Artist:   d.Artist,
		Album:    d.Album,
		Duration: d.Duration,
		Source:   music.Source(d.Source),
		CoverURL: d.CoverURL,
		Position: d.Position,
		AddedAt:  parseTime(d.AddedAt),
	}
}

type savedTrackDTO struct {
	ID       string  `json:"id"`
	TrackID  string  `json:"track_id"`
	Title    string  `json:"title"`
	Artist   string  `json:"artist"`
	Album    string  `json:"album"`
	Duration int     `json:"duration"`
	Source   string  `json:"source"`
	CoverURL string  `json:"cover_url"`
	BPM      float64 `json:"bpm"`
	Key      string  `json:"key"`
	SavedAt  string  `json:"saved_at"`
}

func (d savedTrackDTO) toModel() music.SavedTrack {
	return music.SavedTrack{
		ID:       d.ID,
		TrackID:  d.TrackID,
		Title:    d.Title,
		Artist:   d.Artist,
		Album:    d.Album,
		Duration: d.Duration,
		Source:   music.Source(d.Source),
		CoverURL: d.CoverURL,
		BPM:      d.BPM,
		Key:      d.Key,
		SavedAt:  parseTime(d.SavedAt),
	}
}

type savedAlbumDTO struct {
	ID       string `json:"id"`
	AlbumID  string `json:"album_id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Source   string `json:"source"`
	CoverURL string `json:"cover_url"`
	SavedAt  string `json:"saved_at"`
}

func (d savedAlbumDTO) toModel() music.SavedAlbum {
	return music.SavedAlbum{
		ID:       d.ID,
		AlbumID:  d.AlbumID,
		Title:    d.Title,
		Artist:   d.Artist,
		Source:   music.Source(d.Source),
		CoverURL: d.CoverURL,
		SavedAt:  parseTime(d.SavedAt),
	}
}

// Playlist is a user playlist held by the backend.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CoverURL    string `json:"cover_url"`
	TrackCount  int    `json:"track_count"`
}

// PlaylistItem is one entry of a playlist, with the track fields
// denormalized onto the item.
type PlaylistItem struct {
	ID       string `json:"id"`
	TrackID  string `json:"track_id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	Duration int    `json:"duration"`
	Source   string `json:"source"`
	CoverURL string `json:"cover_url"`
	Position int    `json:"position"`
}

// Track rebuilds a playable track from the item.
func (p PlaylistItem) Track() music.Track {
	return music.Track{
		ID:       p.TrackID,
		Title:    p.Title,
		Artist:   p.Artist,
		Album:    p.Album,
		Duration: p.Duration,
		Source:   music.Source(p.Source),
		CoverURL: p.CoverURL,
	}
}
