// package services implements clients for the Spotify Web API
package services

import (
	"net/http"
	"time"
)

const (
	SpotifyAuthURL  = "https://accounts.spotify.com/authorize"
	SpotifyTokenURL = "https://accounts.spotify.com/api/token"
	SpotifyBaseURL  = "https://api.spotify.com/v1"

	// DefaultTimeout bounds every outbound call when none is configured.
	DefaultTimeout = 10 * time.Second

	// maxTracksPerRequest is the Web API limit for adding items to a playlist.
	maxTracksPerRequest = 100
)

// NewHTTPClient returns an [http.Client] with the given timeout, or [DefaultTimeout] when zero.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}
