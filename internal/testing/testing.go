// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
)

// MockSearcher is a test double for the track search collaborator.
//
// Queries missing from Results and Errors report [shared.ErrTrackNotFound].
type MockSearcher struct {
	Results map[string]*models.Track
	Errors  map[string]error
	Delays  map[string]time.Duration

	calls   atomic.Int32
	mu      sync.Mutex
	queries []string
}

func (m *MockSearcher) SearchTrack(ctx context.Context, accessToken, query string) (*models.Track, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()

	if d, ok := m.Delays[query]; ok {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err, ok := m.Errors[query]; ok {
		return nil, err
	}
	if track, ok := m.Results[query]; ok {
		copied := *track
		return &copied, nil
	}
	return nil, fmt.Errorf("%w: %q", shared.ErrTrackNotFound, query)
}

// Calls returns how many searches were issued.
func (m *MockSearcher) Calls() int {
	return int(m.calls.Load())
}

// Queries returns the queries searched, in call order.
func (m *MockSearcher) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}

// MockPlaylistWriter is a test double for playlist creation.
type MockPlaylistWriter struct {
	Playlist  *models.Playlist
	CreateErr error
	AddErr    error

	CreateCalls int
	AddedURIs   []string
	Public      bool
	Description string
}

func (m *MockPlaylistWriter) CreatePlaylist(ctx context.Context, accessToken, userID, name, description string, public bool) (*models.Playlist, error) {
	m.CreateCalls++
	m.Public = public
	m.Description = description
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	if m.Playlist != nil {
		return m.Playlist, nil
	}
	return &models.Playlist{ID: "playlist1", Name: name, Public: public, Description: description, OwnerID: userID}, nil
}

func (m *MockPlaylistWriter) AddTracks(ctx context.Context, accessToken, playlistID string, uris []string) (int, error) {
	if m.AddErr != nil {
		return 0, m.AddErr
	}
	m.AddedURIs = append(m.AddedURIs, uris...)
	return len(uris), nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// Track builds a matched track for the given id.
func Track(id string) *models.Track {
	return &models.Track{
		ID:      id,
		Name:    "Track " + id,
		Artists: []string{"Artist " + id},
		URI:     "spotify:track:" + id,
	}
}
