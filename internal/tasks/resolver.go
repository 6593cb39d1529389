// package tasks implements the batch track resolution and playlist publishing workflows.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/services"
	"github.com/desertthunder/setlist/internal/shared"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// TrackSearcher returns the single best catalog match for a query.
//
// Implementations should wrap [shared.ErrTrackNotFound] when the catalog has no result.
type TrackSearcher interface {
	SearchTrack(ctx context.Context, accessToken, query string) (*models.Track, error)
}

// ResolverOpts contains configuration for batch resolution.
type ResolverOpts struct {
	Concurrency int           // Maximum in-flight searches (0: one goroutine per query)
	RateLimit   float64       // Dispatches per second (0: unpaced)
	Timeout     time.Duration // Per-search bound (default: 10s)
	Logger      *log.Logger
}

// Resolution is one query and its match, nil when nothing matched.
type Resolution struct {
	Query string
	Track *models.Track
}

// BatchResult summarizes a batch resolution.
//
// len(Tracks) == Found <= Total, and Total is the number of non-empty queries dispatched.
type BatchResult struct {
	Tracks      []models.Track `json:"tracks"`
	Found       int            `json:"found"`
	Total       int            `json:"total"`
	Unmatched   []string       `json:"unmatched"`
	Resolutions []Resolution   `json:"-"`
}

// Resolver fans out one search per song line and gathers matches in query order.
type Resolver struct {
	searcher    TrackSearcher
	concurrency int
	rateLimit   float64
	timeout     time.Duration
	logger      *log.Logger
}

// NewResolver creates a [Resolver] over the given searcher.
func NewResolver(searcher TrackSearcher, opts ResolverOpts) *Resolver {
	if opts.Timeout <= 0 {
		opts.Timeout = services.DefaultTimeout
	}
	if opts.Concurrency < 0 {
		opts.Concurrency = 0
	}
	if opts.RateLimit < 0 {
		opts.RateLimit = 0
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Resolver{
		searcher:    searcher,
		concurrency: opts.Concurrency,
		rateLimit:   opts.RateLimit,
		timeout:     opts.Timeout,
		logger:      shared.WithLogger(opts.Logger, "component", "resolver"),
	}
}

// CleanQueries trims each line and drops the empty ones, keeping order.
func CleanQueries(lines []string) []string {
	queries := make([]string, 0, len(lines))
	for _, line := range lines {
		if q := strings.TrimSpace(line); q != "" {
			queries = append(queries, q)
		}
	}
	return queries
}

// Resolve searches every non-empty line and returns the matches in query order.
//
// A missing access token fails with [shared.ErrAuthRequired] before any search is dispatched.
// Individual search failures and timeouts count as "no match" and never fail the batch.
func (r *Resolver) Resolve(ctx context.Context, progress chan<- ProgressUpdate, lines []string, accessToken string) (*BatchResult, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("%w: no access token provided", shared.ErrAuthRequired)
	}

	queries := CleanQueries(lines)
	result := &BatchResult{
		Tracks:      []models.Track{},
		Unmatched:   []string{},
		Total:       len(queries),
		Resolutions: make([]Resolution, 0, len(queries)),
	}
	if len(queries) == 0 {
		return result, nil
	}

	started := time.Now()
	defer func() { batchDuration.Observe(time.Since(started).Seconds()) }()

	// one slot per query, written only by that query's goroutine
	slots := make([]*models.Track, len(queries))

	var limiter *rate.Limiter
	if r.rateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(r.rateLimit), 1)
	}

	var g errgroup.Group
	if r.concurrency > 0 {
		g.SetLimit(r.concurrency)
	}

	var completed atomic.Int64
	for i, query := range queries {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				r.logger.Warn("dispatch stopped, remaining queries count as no match", "dispatched", i, "total", len(queries), "error", err)
				break
			}
		}

		searchesDispatched.Inc()
		g.Go(func() error {
			slots[i] = r.search(ctx, accessToken, query)
			n := completed.Add(1)
			sendProgress(progress, searchTracksUpdate(int(n), len(queries), query, slots[i]))
			return nil
		})
	}
	_ = g.Wait()

	for i, track := range slots {
		result.Resolutions = append(result.Resolutions, Resolution{Query: queries[i], Track: track})
		if track == nil {
			result.Unmatched = append(result.Unmatched, queries[i])
			continue
		}
		result.Tracks = append(result.Tracks, *track)
	}
	result.Found = len(result.Tracks)

	r.logger.Info("batch resolved", "found", result.Found, "total", result.Total)
	return result, nil
}

// search runs one bounded search and absorbs its failure.
func (r *Resolver) search(ctx context.Context, accessToken, query string) *models.Track {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	track, err := r.searcher.SearchTrack(ctx, accessToken, query)
	switch {
	case errors.Is(err, shared.ErrTrackNotFound):
		searchesUnmatched.Inc()
		r.logger.Debug("no match", "query", query)
		return nil
	case err != nil:
		searchesFailed.Inc()
		r.logger.Warn("search failed, counting as no match", "query", query, "error", fmt.Errorf("%w: %v", shared.ErrSearchFailed, err))
		return nil
	case track == nil:
		searchesUnmatched.Inc()
		return nil
	}

	searchesMatched.Inc()
	return track
}
