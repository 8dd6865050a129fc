package search

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcharbon/chorus/internal/api"
	"github.com/pcharbon/chorus/internal/music"
)

type fakeClient struct {
	mu      sync.Mutex
	calls   []api.SearchParams
	respond func(p api.SearchParams) (music.SearchResults, error)
}

func (f *fakeClient) Search(_ context.Context, p api.SearchParams) (music.SearchResults, error) {
	f.mu.Lock()
	f.calls = append(f.calls, p)
	f.mu.Unlock()
	if f.respond != nil {
		return f.respond(p)
	}
	return music.EmptyResults(p.Offset, p.Limit), nil
}

func (f *fakeClient) recorded() []api.SearchParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]api.SearchParams, len(f.calls))
	copy(out, f.calls)
	return out
}

func oneTrack(title, service string, total int) func(api.SearchParams) (music.SearchResults, error) {
	return func(p api.SearchParams) (music.SearchResults, error) {
		return music.SearchResults{
			Tracks: []music.Track{{ID: title, Title: title, Source: music.Source(service)}},
			Total:  total,
			Offset: p.Offset,
			Limit:  p.Limit,
		}, nil
	}
}

func TestSearchRemembersAndPaginates(t *testing.T) {
	client := &fakeClient{}
	agg := New(client, 10, zerolog.Nop())

	_, err := agg.Search(context.Background(), "aphex", music.SearchTracks, Options{Services: []string{"qobuz"}, Library: true})
	require.NoError(t, err)

	_, err = agg.GoToPage(context.Background(), 3)
	require.NoError(t, err)

	calls := client.recorded()
	require.Len(t, calls, 2)
	assert.Equal(t, 0, calls[0].Offset)
	assert.Equal(t, 20, calls[1].Offset)
	// The replay carries the full remembered request, not just paging.
	assert.Equal(t, "aphex", calls[1].Query)
	assert.Equal(t, music.SearchTracks, calls[1].Type)
	assert.Equal(t, "qobuz", calls[1].Service)
	assert.True(t, calls[1].Library)
	assert.Equal(t, 3, agg.Page())
}

func TestGoToCurrentPageIssuesNoRequest(t *testing.T) {
	client := &fakeClient{respond: oneTrack("Xtal", "qobuz", 1)}
	agg := New(client, 10, zerolog.Nop())

	_, err := agg.Search(context.Background(), "aphex", music.SearchTracks, Options{Services: []string{"qobuz"}})
	require.NoError(t, err)

	res, err := agg.GoToPage(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, client.recorded(), 1)
	require.Len(t, res.Tracks, 1)
	assert.Equal(t, "Xtal", res.Tracks[0].Title)
}

func TestPreviousPageClampsAtOne(t *testing.T) {
	client := &fakeClient{}
	agg := New(client, 10, zerolog.Nop())

	_, err := agg.Search(context.Background(), "q", music.SearchTracks, Options{})
	require.NoError(t, err)
	_, err = agg.PreviousPage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, agg.Page())
}

func TestMultiServiceMergesInSelectionOrder(t *testing.T) {
	client := &fakeClient{respond: func(p api.SearchParams) (music.SearchResults, error) {
		return oneTrack(p.Service, p.Service, 1)(p)
	}}
	agg := New(client, 10, zerolog.Nop())

	res, err := agg.Search(context.Background(), "q", music.SearchTracks, Options{
		Services: []string{"tidal", "qobuz", "spotify"},
		Multi:    true,
	})
	require.NoError(t, err)
	require.Len(t, res.Tracks, 3)
	assert.Equal(t, "tidal", res.Tracks[0].Title)
	assert.Equal(t, "qobuz", res.Tracks[1].Title)
	assert.Equal(t, "spotify", res.Tracks[2].Title)
	assert.Equal(t, 3, res.Total)
}

func TestSingleServiceModeUsesFirstServiceOnly(t *testing.T) {
	client := &fakeClient{}
	agg := New(client, 10, zerolog.Nop())

	_, err := agg.Search(context.Background(), "q", music.SearchTracks, Options{
		Services: []string{"tidal", "qobuz"},
	})
	require.NoError(t, err)
	calls := client.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "tidal", calls[0].Service)
}

func TestFailedSubSearchYieldsEmptyPage(t *testing.T) {
	client := &fakeClient{respond: func(p api.SearchParams) (music.SearchResults, error) {
		if p.Service == "tidal" {
			return music.SearchResults{}, errors.New("gateway unreachable")
		}
		return oneTrack("ok", p.Service, 1)(p)
	}}
	agg := New(client, 10, zerolog.Nop())

	res, err := agg.Search(context.Background(), "q", music.SearchTracks, Options{
		Services: []string{"tidal", "qobuz"},
		Multi:    true,
	})
	require.NoError(t, err)
	require.Len(t, res.Tracks, 1)
	assert.Equal(t, "ok", res.Tracks[0].Title)
	assert.NotNil(t, agg.Results())
}

func TestSearchAllFansOutPerType(t *testing.T) {
	client := &fakeClient{}
	agg := New(client, 10, zerolog.Nop())

	_, err := agg.Search(context.Background(), "q", music.SearchAll, Options{Services: []string{"qobuz"}})
	require.NoError(t, err)

	calls := client.recorded()
	require.Len(t, calls, 3)
	types := map[music.SearchType]bool{}
	for _, c := range calls {
		types[c.Type] = true
	}
	assert.True(t, types[music.SearchTracks])
	assert.True(t, types[music.SearchAlbums])
	assert.True(t, types[music.SearchPlaylists])
}

func TestStaleResponseDoesNotOverwriteNewer(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var startOnce sync.Once
	client := &fakeClient{respond: func(p api.SearchParams) (music.SearchResults, error) {
		if p.Query == "slow" {
			startOnce.Do(func() { close(started) })
			<-release
			return oneTrack("slow", p.Service, 1)(p)
		}
		return oneTrack("fast", p.Service, 1)(p)
	}}
	agg := New(client, 10, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = agg.Search(context.Background(), "slow", music.SearchTracks, Options{})
	}()
	<-started

	_, err := agg.Search(context.Background(), "fast", music.SearchTracks, Options{})
	require.NoError(t, err)

	close(release)
	<-done

	res := agg.Results()
	require.NotNil(t, res)
	require.Len(t, res.Tracks, 1)
	assert.Equal(t, "fast", res.Tracks[0].Title)
}

func TestSetPageSizeDropsHeldResults(t *testing.T) {
	client := &fakeClient{respond: oneTrack("Xtal", "qobuz", 50)}
	agg := New(client, 10, zerolog.Nop())

	_, err := agg.Search(context.Background(), "q", music.SearchTracks, Options{})
	require.NoError(t, err)
	require.NotNil(t, agg.Results())

	agg.SetPageSize(25)
	assert.Nil(t, agg.Results())
	assert.Equal(t, 1, agg.Page())
	assert.Equal(t, 25, agg.PageSize())
}
