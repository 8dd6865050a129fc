package playback

import (
	"context"
	"fmt"

	"github.com/pcharbon/chorus/internal/api"
	"github.com/pcharbon/chorus/internal/music"
)

// Resolver resolves stream URLs through the backend's two-phase flow:
// first the provider URL, then a backend-proxied (and possibly cached)
// URL, rewritten to an absolute URL against the backend host.
type Resolver struct {
	client  *api.Client
	quality string
}

// Verify Resolver implements StreamResolver at compile time.
var _ StreamResolver = (*Resolver)(nil)

// NewResolver creates a resolver. quality is passed through to the
// backend ("" lets it pick).
func NewResolver(client *api.Client, quality string) *Resolver {
	return &Resolver{client: client, quality: quality}
}

func (r *Resolver) ResolveStreamURL(ctx context.Context, track music.Track) (string, error) {
	providerURL, err := r.client.GetStreamURL(ctx, track.ID, track.Source, r.quality)
	if err != nil {
		return "", fmt.Errorf("resolve provider url: %w", err)
	}

	backendURL, err := r.client.GetBackendStreamURL(ctx, track.ID, track.Source, providerURL, track.Title, track.Artist)
	if err != nil {
		return "", fmt.Errorf("resolve backend url: %w", err)
	}

	return r.client.AbsoluteURL(backendURL), nil
}
