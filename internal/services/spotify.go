// Spotify Web API client
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
	"golang.org/x/oauth2"
)

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	Email       string         `json:"email"`
	Country     string         `json:"country"`
	Product     string         `json:"product"`
	Images      []SpotifyImage `json:"images"`
}

// SpotifyArtist represents a simplified Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a simplified Spotify album.
type SpotifyAlbum struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Images []SpotifyImage `json:"images"`
	URI    string         `json:"uri"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Artists      []SpotifyArtist `json:"artists"`
	Album        SpotifyAlbum    `json:"album"`
	DurationMS   int             `json:"duration_ms"`
	URI          string          `json:"uri"`
	ExternalURLs externalURLs    `json:"external_urls"`
}

type owner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// SpotifyPlaylist represents a playlist object as returned on creation.
type SpotifyPlaylist struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Owner        owner        `json:"owner"`
	Public       bool         `json:"public"`
	URI          string       `json:"uri"`
	ExternalURLs externalURLs `json:"external_urls"`
}

type searchResponse struct {
	Tracks struct {
		Items []SpotifyTrack `json:"items"`
	} `json:"tracks"`
}

type createPlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
}

type addTracksRequest struct {
	URIs []string `json:"uris"`
}

type apiError struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// SpotifyClient calls the Spotify Web API with a caller-supplied bearer token.
type SpotifyClient struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// NewSpotifyClient creates a client rooted at baseURL (the public API when empty).
//
// The client's Timeout also bounds each call through its context.
func NewSpotifyClient(baseURL string, client *http.Client) *SpotifyClient {
	if baseURL == "" {
		baseURL = SpotifyBaseURL
	}
	if client == nil {
		client = NewHTTPClient(DefaultTimeout)
	}

	timeout := client.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &SpotifyClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		timeout:    timeout,
	}
}

// bearerClient wraps the base client in an [oauth2.Transport] for the given token.
func (s *SpotifyClient) bearerClient(ctx context.Context, accessToken string) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	return oauth2.NewClient(ctx, src)
}

// doRequest performs an authenticated HTTP request to the Spotify API.
func (s *SpotifyClient) doRequest(ctx context.Context, accessToken, method, endpoint string, body, result any) error {
	if accessToken == "" {
		return shared.ErrAuthRequired
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.bearerClient(ctx, accessToken).Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// statusError builds an error from a non-2xx response, keeping Spotify's message for the logs.
func statusError(resp *http.Response) error {
	var apiErr apiError
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	msg := strings.TrimSpace(string(data))
	if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error.Message != "" {
		msg = apiErr.Error.Message
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %w: status %d: %s", shared.ErrAPIRequest, shared.ErrAuthRequired, resp.StatusCode, msg)
	}
	return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, msg)
}

// CurrentUser retrieves the profile of the user the token was issued for.
func (s *SpotifyClient) CurrentUser(ctx context.Context, accessToken string) (*models.User, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, accessToken, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, fmt.Errorf("%w: profile response missing id", shared.ErrAPIRequest)
	}
	return mapUser(user), nil
}

// SearchTrack returns the single best catalog match for a free-text query.
func (s *SpotifyClient) SearchTrack(ctx context.Context, accessToken, query string) (*models.Track, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", shared.ErrInvalidInput)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "track")
	params.Set("limit", "1")

	var response searchResponse
	if err := s.doRequest(ctx, accessToken, http.MethodGet, "/search?"+params.Encode(), nil, &response); err != nil {
		return nil, err
	}

	if len(response.Tracks.Items) == 0 {
		return nil, fmt.Errorf("%w: %q", shared.ErrTrackNotFound, query)
	}

	return mapTrack(response.Tracks.Items[0]), nil
}

// CreatePlaylist creates an empty playlist owned by userID.
func (s *SpotifyClient) CreatePlaylist(ctx context.Context, accessToken, userID, name, description string, public bool) (*models.Playlist, error) {
	if userID == "" || name == "" {
		return nil, fmt.Errorf("%w: user id and playlist name are required", shared.ErrInvalidInput)
	}

	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(userID))
	body := createPlaylistRequest{Name: name, Description: description, Public: public}

	var playlist SpotifyPlaylist
	if err := s.doRequest(ctx, accessToken, http.MethodPost, endpoint, body, &playlist); err != nil {
		return nil, err
	}

	return mapPlaylist(playlist), nil
}

// AddTracks appends track URIs to a playlist in request-sized chunks and returns how many were added.
//
// Chunks are sent in order; the first failure stops the loop and the count reflects the chunks already added.
func (s *SpotifyClient) AddTracks(ctx context.Context, accessToken, playlistID string, uris []string) (int, error) {
	if playlistID == "" {
		return 0, fmt.Errorf("%w: playlist id is required", shared.ErrInvalidInput)
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	added := 0
	for start := 0; start < len(uris); start += maxTracksPerRequest {
		end := min(start+maxTracksPerRequest, len(uris))
		chunk := uris[start:end]

		if err := s.doRequest(ctx, accessToken, http.MethodPost, endpoint, addTracksRequest{URIs: chunk}, nil); err != nil {
			return added, err
		}
		added += len(chunk)
	}

	return added, nil
}
