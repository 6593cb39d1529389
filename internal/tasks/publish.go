package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
)

// PlaylistDescription is attached to every playlist setlist creates.
const PlaylistDescription = "Created with setlist"

// PlaylistWriter creates playlists and fills them.
type PlaylistWriter interface {
	CreatePlaylist(ctx context.Context, accessToken, userID, name, description string, public bool) (*models.Playlist, error)
	AddTracks(ctx context.Context, accessToken, playlistID string, uris []string) (int, error)
}

// PublishRequest names the playlist to create and the tracks to put in it.
type PublishRequest struct {
	AccessToken string
	UserID      string
	Name        string
	TrackURIs   []string
}

// PublishResult is the created playlist and how many tracks were added.
type PublishResult struct {
	Playlist    *models.Playlist `json:"playlist"`
	TracksAdded int              `json:"tracksAdded"`
}

// Publisher creates a public playlist and adds tracks to it. There are no retries.
type Publisher struct {
	writer PlaylistWriter
	logger *log.Logger
}

// NewPublisher creates a [Publisher].
func NewPublisher(writer PlaylistWriter, logger *log.Logger) *Publisher {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Publisher{writer: writer, logger: shared.WithLogger(logger, "component", "publisher")}
}

// Publish checks presence of token, user, and name, then creates the playlist and adds the tracks.
func (p *Publisher) Publish(ctx context.Context, progress chan<- ProgressUpdate, req PublishRequest) (*PublishResult, error) {
	if req.AccessToken == "" {
		return nil, fmt.Errorf("%w: no access token provided", shared.ErrAuthRequired)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: playlist name is required", shared.ErrInvalidInput)
	}
	if req.UserID == "" {
		return nil, fmt.Errorf("%w: user id is required", shared.ErrInvalidInput)
	}

	sendProgress(progress, createPlaylistUpdate(name))

	playlist, err := p.writer.CreatePlaylist(ctx, req.AccessToken, req.UserID, name, PlaylistDescription, true)
	if err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}
	playlistsCreated.Inc()

	result := &PublishResult{Playlist: playlist}
	if len(req.TrackURIs) == 0 {
		return result, nil
	}

	sendProgress(progress, addTracksUpdate(len(req.TrackURIs), playlist))

	added, err := p.writer.AddTracks(ctx, req.AccessToken, playlist.ID, req.TrackURIs)
	result.TracksAdded = added
	if err != nil {
		return result, fmt.Errorf("failed to add tracks to playlist %s: %w", playlist.ID, err)
	}

	p.logger.Info("playlist published", "playlist", playlist.ID, "tracks", added)
	return result, nil
}
