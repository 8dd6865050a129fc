// Package search aggregates catalog and library searches across the
// backend's streaming services, with replayable pagination.
package search

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pcharbon/chorus/internal/api"
	"github.com/pcharbon/chorus/internal/music"
)

// Client is the slice of the backend gateway the aggregator needs.
type Client interface {
	Search(ctx context.Context, p api.SearchParams) (music.SearchResults, error)
}

// Options selects where a search runs.
type Options struct {
	// Services to query. One entry means single-service mode; several
	// with Multi set fan out in parallel.
	Services []string
	Multi    bool
	// Library scopes to the user's saved items instead of catalogs.
	Library bool
}

// Aggregator issues searches and remembers the last request (query,
// type, library flag, service mode) so any page can be replayed
// exactly. A newer search invalidates slower in-flight ones by token.
type Aggregator struct {
	mu sync.Mutex

	client Client
	log    zerolog.Logger

	pageSize int

	// Last-request memory, replayed by the pagination calls.
	query      string
	searchType music.SearchType
	opts       Options
	page       int
	hasLast    bool

	results *music.SearchResults
	token   uuid.UUID
}

// New creates an aggregator with the given default page size.
func New(client Client, pageSize int, log zerolog.Logger) *Aggregator {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &Aggregator{client: client, pageSize: pageSize, log: log}
}

// Search runs a fresh search at page 1 and remembers its parameters.
func (a *Aggregator) Search(ctx context.Context, query string, searchType music.SearchType, opts Options) (music.SearchResults, error) {
	a.mu.Lock()
	a.query = query
	a.searchType = searchType
	a.opts = opts
	a.page = 1
	a.hasLast = true
	token := uuid.New()
	a.token = token
	a.mu.Unlock()

	return a.dispatch(ctx, token)
}

// GoToPage replays the last search at the given page. Requesting the
// current page again returns the held results without a request.
func (a *Aggregator) GoToPage(ctx context.Context, page int) (music.SearchResults, error) {
	a.mu.Lock()
	if !a.hasLast {
		a.mu.Unlock()
		return music.EmptyResults(0, a.pageSize), nil
	}
	if page < 1 {
		page = 1
	}
	if page == a.page && a.results != nil {
		held := *a.results
		a.mu.Unlock()
		return held, nil
	}
	a.page = page
	token := uuid.New()
	a.token = token
	a.mu.Unlock()

	return a.dispatch(ctx, token)
}

// NextPage advances one page.
func (a *Aggregator) NextPage(ctx context.Context) (music.SearchResults, error) {
	a.mu.Lock()
	page := a.page + 1
	a.mu.Unlock()
	return a.GoToPage(ctx, page)
}

// PreviousPage steps back one page, clamped at page 1.
func (a *Aggregator) PreviousPage(ctx context.Context) (music.SearchResults, error) {
	a.mu.Lock()
	page := a.page - 1
	a.mu.Unlock()
	return a.GoToPage(ctx, page)
}

// Page returns the current 1-based page.
func (a *Aggregator) Page() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.page
}

// PageSize returns the page size.
func (a *Aggregator) PageSize() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pageSize
}

// SetPageSize changes the page size and drops held results: a page cut
// at a different size must not be displayed as-is.
func (a *Aggregator) SetPageSize(size int) {
	if size <= 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if size == a.pageSize {
		return
	}
	a.pageSize = size
	a.page = 1
	a.results = nil
	a.token = uuid.New()
}

// SetOptions switches service selection or mode, dropping held results
// so stale cross-mode data never shows.
func (a *Aggregator) SetOptions(opts Options) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.opts = opts
	a.page = 1
	a.results = nil
	a.token = uuid.New()
}

// Results returns the held results, or nil when none are held.
func (a *Aggregator) Results() *music.SearchResults {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.results == nil {
		return nil
	}
	held := *a.results
	return &held
}

// dispatch fans out the remembered request and stores the merged page
// unless a newer search superseded this one while it was in flight.
func (a *Aggregator) dispatch(ctx context.Context, token uuid.UUID) (music.SearchResults, error) {
	a.mu.Lock()
	query := a.query
	searchType := a.searchType
	opts := a.opts
	offset := (a.page - 1) * a.pageSize
	limit := a.pageSize
	a.mu.Unlock()

	params := a.subRequests(query, searchType, opts, offset, limit)
	merged := music.EmptyResults(offset, limit)

	// Fan out, join on an all-complete barrier, merge in request order.
	results := make([]music.SearchResults, len(params))
	var wg sync.WaitGroup
	for i, p := range params {
		wg.Add(1)
		go func(i int, p api.SearchParams) {
			defer wg.Done()
			res, err := a.client.Search(ctx, p)
			if err != nil {
				// A failed sub-search yields an empty well-formed page;
				// the aggregate must always exist after an attempt.
				a.log.Warn().Err(err).Str("service", p.Service).Msg("sub-search failed")
				res = music.EmptyResults(offset, limit)
			}
			results[i] = res
		}(i, p)
	}
	wg.Wait()

	for _, res := range results {
		merged = merged.Merge(res)
	}

	a.mu.Lock()
	if a.token == token {
		held := merged
		a.results = &held
	}
	// A mismatched token means a newer search replaced this one while
	// it was in flight; its results are not stored.
	a.mu.Unlock()

	return merged, nil
}

// subRequests expands a remembered request into the per-service,
// per-type sub-requests to fan out.
func (a *Aggregator) subRequests(query string, searchType music.SearchType, opts Options, offset, limit int) []api.SearchParams {
	types := []music.SearchType{searchType}
	if searchType == music.SearchAll {
		types = []music.SearchType{music.SearchTracks, music.SearchAlbums, music.SearchPlaylists}
	}

	services := opts.Services
	if !opts.Multi && len(services) > 1 {
		services = services[:1]
	}
	if len(services) == 0 {
		services = []string{""} // backend default service
	}

	params := make([]api.SearchParams, 0, len(services)*len(types))
	for _, svc := range services {
		for _, st := range types {
			params = append(params, api.SearchParams{
				Query:   query,
				Type:    st,
				Service: svc,
				Limit:   limit,
				Offset:  offset,
				Library: opts.Library,
			})
		}
	}
	return params
}
