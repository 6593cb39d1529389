package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desertthunder/setlist/internal/shared"
	tu "github.com/desertthunder/setlist/internal/testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *SpotifyClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewSpotifyClient(server.URL, server.Client())
}

func TestSpotifyClient(t *testing.T) {
	t.Run("NewSpotifyClient", func(t *testing.T) {
		t.Run("defaults", func(t *testing.T) {
			client := NewSpotifyClient("", nil)

			if client.baseURL != SpotifyBaseURL {
				t.Errorf("expected base URL %s, got %s", SpotifyBaseURL, client.baseURL)
			}
			if client.timeout != DefaultTimeout {
				t.Errorf("expected default timeout, got %v", client.timeout)
			}
		})

		t.Run("trims trailing slash and keeps client timeout", func(t *testing.T) {
			client := NewSpotifyClient("http://example.com/v1/", &http.Client{Timeout: 3 * time.Second})

			if client.baseURL != "http://example.com/v1" {
				t.Errorf("expected trimmed base URL, got %s", client.baseURL)
			}
			if client.timeout != 3*time.Second {
				t.Errorf("expected 3s timeout, got %v", client.timeout)
			}
		})
	})

	t.Run("CurrentUser", func(t *testing.T) {
		t.Run("sends bearer token and maps profile", func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/me" {
					t.Errorf("expected path /me, got %s", r.URL.Path)
				}
				if got := r.Header.Get("Authorization"); got != "Bearer token123" {
					t.Errorf("expected bearer header, got %q", got)
				}
				json.NewEncoder(w).Encode(map[string]any{
					"id":           "user1",
					"display_name": "Test User",
					"country":      "US",
					"images":       []map[string]any{{"url": "http://img/avatar.png", "height": 64, "width": 64}},
				})
			})

			user, err := client.CurrentUser(context.Background(), "token123")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if user.ID != "user1" || user.DisplayName != "Test User" {
				t.Errorf("unexpected user %+v", user)
			}
			if len(user.Images) != 1 || user.Images[0].URL != "http://img/avatar.png" {
				t.Errorf("expected mapped avatar, got %+v", user.Images)
			}
		})

		t.Run("missing token issues no request", func(t *testing.T) {
			var calls atomic.Int32
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
			})

			_, err := client.CurrentUser(context.Background(), "")
			if !errors.Is(err, shared.ErrAuthRequired) {
				t.Errorf("expected ErrAuthRequired, got %v", err)
			}
			if calls.Load() != 0 {
				t.Errorf("expected no requests, got %d", calls.Load())
			}
		})

		t.Run("unauthorized maps to auth required", func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":{"status":401,"message":"The access token expired"}}`))
			})

			_, err := client.CurrentUser(context.Background(), "expired")
			if !errors.Is(err, shared.ErrAuthRequired) {
				t.Errorf("expected ErrAuthRequired, got %v", err)
			}
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
			if !strings.Contains(err.Error(), "The access token expired") {
				t.Errorf("expected provider message in error, got %v", err)
			}
		})

		t.Run("profile without id is rejected", func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"display_name":"ghost"}`))
			})

			if _, err := client.CurrentUser(context.Background(), "token"); !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})
	})

	t.Run("SearchTrack", func(t *testing.T) {
		t.Run("requests a single track result", func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				if r.URL.Path != "/search" {
					t.Errorf("expected path /search, got %s", r.URL.Path)
				}
				if q.Get("q") != "Bohemian Rhapsody Queen" {
					t.Errorf("expected trimmed query, got %q", q.Get("q"))
				}
				if q.Get("type") != "track" || q.Get("limit") != "1" {
					t.Errorf("unexpected search params %v", q)
				}
				w.Write([]byte(`{"tracks":{"items":[{
					"id":"t1","name":"Bohemian Rhapsody","uri":"spotify:track:t1","duration_ms":354000,
					"artists":[{"name":"Queen"}],
					"album":{"name":"A Night at the Opera","images":[{"url":"http://img/large.jpg"},{"url":"http://img/small.jpg"}]},
					"external_urls":{"spotify":"https://open.spotify.com/track/t1"}
				}]}}`))
			})

			track, err := client.SearchTrack(context.Background(), "token", "  Bohemian Rhapsody Queen ")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if track.ID != "t1" || track.URI != "spotify:track:t1" {
				t.Errorf("unexpected track %+v", track)
			}
			if len(track.Artists) != 1 || track.Artists[0] != "Queen" {
				t.Errorf("expected artist Queen, got %v", track.Artists)
			}
			if track.Image != "http://img/large.jpg" {
				t.Errorf("expected first album image, got %s", track.Image)
			}
			if track.ExternalURL != "https://open.spotify.com/track/t1" {
				t.Errorf("unexpected external url %s", track.ExternalURL)
			}
		})

		t.Run("no items is not found", func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"tracks":{"items":[]}}`))
			})

			_, err := client.SearchTrack(context.Background(), "token", "zzzz")
			if !errors.Is(err, shared.ErrTrackNotFound) {
				t.Errorf("expected ErrTrackNotFound, got %v", err)
			}
		})

		t.Run("empty query", func(t *testing.T) {
			client := NewSpotifyClient("http://127.0.0.1:0", nil)

			_, err := client.SearchTrack(context.Background(), "token", "   ")
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})

		t.Run("server error", func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			})

			_, err := client.SearchTrack(context.Background(), "token", "song")
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("transport failure", func(t *testing.T) {
			rt := tu.NewMockRoundTripper(nil, errors.New("connection refused"))
			client := NewSpotifyClient("http://spotify.invalid", &http.Client{Transport: rt})

			_, err := client.SearchTrack(context.Background(), "token", "song")
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("undecodable body", func(t *testing.T) {
			rt := tu.NewMockRoundTripper(&http.Response{
				StatusCode: http.StatusOK,
				Header:     http.Header{"Content-Type": []string{"application/json"}},
				Body:       io.NopCloser(strings.NewReader("<html>")),
			}, nil)
			client := NewSpotifyClient("http://spotify.invalid", &http.Client{Transport: rt})

			_, err := client.SearchTrack(context.Background(), "token", "song")
			if err == nil || !strings.Contains(err.Error(), "failed to decode response") {
				t.Errorf("expected decode error, got %v", err)
			}
		})

		t.Run("slow response times out", func(t *testing.T) {
			release := make(chan struct{})
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-release:
				case <-r.Context().Done():
				}
			}))
			defer server.Close()
			defer close(release)

			client := NewSpotifyClient(server.URL, &http.Client{Timeout: 50 * time.Millisecond})
			if _, err := client.SearchTrack(context.Background(), "token", "song"); err == nil {
				t.Error("expected timeout error")
			}
		})
	})

	t.Run("CreatePlaylist", func(t *testing.T) {
		t.Run("posts playlist body", func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if r.URL.Path != "/users/user1/playlists" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if r.Header.Get("Content-Type") != "application/json" {
					t.Errorf("expected JSON content type")
				}

				var body createPlaylistRequest
				if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
					t.Fatalf("failed to decode body: %v", err)
				}
				if body.Name != "Road Trip" || !body.Public || body.Description != "desc" {
					t.Errorf("unexpected body %+v", body)
				}

				w.WriteHeader(http.StatusCreated)
				w.Write([]byte(`{"id":"pl1","name":"Road Trip","public":true,"uri":"spotify:playlist:pl1","owner":{"id":"user1"},"external_urls":{"spotify":"https://open.spotify.com/playlist/pl1"}}`))
			})

			playlist, err := client.CreatePlaylist(context.Background(), "token", "user1", "Road Trip", "desc", true)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if playlist.ID != "pl1" || playlist.OwnerID != "user1" {
				t.Errorf("unexpected playlist %+v", playlist)
			}
		})

		t.Run("requires user and name", func(t *testing.T) {
			client := NewSpotifyClient("http://127.0.0.1:0", nil)

			if _, err := client.CreatePlaylist(context.Background(), "token", "", "name", "", true); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput for missing user, got %v", err)
			}
			if _, err := client.CreatePlaylist(context.Background(), "token", "user", "", "", true); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput for missing name, got %v", err)
			}
		})
	})

	t.Run("AddTracks", func(t *testing.T) {
		uris := make([]string, 250)
		for i := range uris {
			uris[i] = fmt.Sprintf("spotify:track:%d", i)
		}

		t.Run("chunks by request limit", func(t *testing.T) {
			var sizes []int
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/playlists/pl1/tracks" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				var body addTracksRequest
				json.NewDecoder(r.Body).Decode(&body)
				sizes = append(sizes, len(body.URIs))
				w.WriteHeader(http.StatusCreated)
				w.Write([]byte(`{"snapshot_id":"abc"}`))
			})

			added, err := client.AddTracks(context.Background(), "token", "pl1", uris)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if added != 250 {
				t.Errorf("expected 250 added, got %d", added)
			}
			if len(sizes) != 3 || sizes[0] != 100 || sizes[1] != 100 || sizes[2] != 50 {
				t.Errorf("unexpected chunk sizes %v", sizes)
			}
		})

		t.Run("stops at first failed chunk", func(t *testing.T) {
			var calls atomic.Int32
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if calls.Add(1) == 2 {
					http.Error(w, "nope", http.StatusBadGateway)
					return
				}
				w.WriteHeader(http.StatusCreated)
			})

			added, err := client.AddTracks(context.Background(), "token", "pl1", uris)
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
			if added != 100 {
				t.Errorf("expected 100 added before failure, got %d", added)
			}
		})

		t.Run("no uris is a no-op", func(t *testing.T) {
			client := NewSpotifyClient("http://127.0.0.1:0", nil)

			added, err := client.AddTracks(context.Background(), "token", "pl1", nil)
			if err != nil || added != 0 {
				t.Errorf("expected no-op, got %d, %v", added, err)
			}
		})
	})
}
