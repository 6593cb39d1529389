package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/session"
	"github.com/desertthunder/setlist/internal/shared"
	"github.com/desertthunder/setlist/internal/tasks"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxBodyBytes = 1 << 20

// User-facing error messages. Provider detail only goes to the log.
// MaxSongNames bounds one search request; each line becomes an outbound search.
const MaxSongNames = 500

const (
	msgAuthFailed    = "Failed to authenticate with Spotify"
	msgNoToken       = "No access token provided"
	msgNotLoggedIn   = "Not authenticated"
	msgSearchFailed  = "Failed to search tracks"
	msgCreateFailed  = "Failed to create playlist"
	msgMissingFields = "Playlist name and user id are required"
	msgInvalidBody   = "Invalid request body"
	msgTooManySongs  = "Too many song names"
	msgHealthy       = "Server is running!"
	msgLoggedOut     = "logged out"
)

// Authenticator builds the consent URL and turns a code into a session.
type Authenticator interface {
	LoginURL(state string) string
	Exchange(ctx context.Context, code string) (*models.Session, error)
}

// BatchResolver resolves pasted song lines to tracks.
type BatchResolver interface {
	Resolve(ctx context.Context, progress chan<- tasks.ProgressUpdate, lines []string, accessToken string) (*tasks.BatchResult, error)
}

// PlaylistPublisher creates a playlist from resolved track URIs.
type PlaylistPublisher interface {
	Publish(ctx context.Context, progress chan<- tasks.ProgressUpdate, req tasks.PublishRequest) (*tasks.PublishResult, error)
}

// APIOpts contains the collaborators behind the JSON API.
type APIOpts struct {
	Auth      Authenticator
	Resolver  BatchResolver
	Publisher PlaylistPublisher
	Sessions  *session.Store
	Logger    *log.Logger
}

// API serves the browser-facing JSON endpoints.
type API struct {
	auth      Authenticator
	resolver  BatchResolver
	publisher PlaylistPublisher
	sessions  *session.Store
	logger    *log.Logger
}

type callbackRequest struct {
	Code string `json:"code"`
}

type searchRequest struct {
	SongNames   []string `json:"songNames"`
	AccessToken string   `json:"accessToken"`
}

type createPlaylistRequest struct {
	PlaylistName string   `json:"playlistName"`
	TrackURIs    []string `json:"trackUris"`
	AccessToken  string   `json:"accessToken"`
	UserID       string   `json:"userId"`
}

// NewAPI creates an [API]. A nil session store gets a fresh one with a random secret.
func NewAPI(opts APIOpts) *API {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Sessions == nil {
		opts.Sessions = session.NewStore("", false)
	}
	return &API{
		auth:      opts.Auth,
		resolver:  opts.Resolver,
		publisher: opts.Publisher,
		sessions:  opts.Sessions,
		logger:    shared.WithLogger(opts.Logger, "component", "api"),
	}
}

// Register adds every API route to r.
func (a *API) Register(r Router) {
	r.Handle(http.MethodGet, "/auth/login", http.HandlerFunc(a.Login))
	r.Handle(http.MethodPost, "/auth/callback", http.HandlerFunc(a.Callback))
	r.Handle(http.MethodPost, "/auth/logout", http.HandlerFunc(a.Logout))
	r.Handle(http.MethodGet, "/me", http.HandlerFunc(a.Me))
	r.Handle(http.MethodPost, "/search", http.HandlerFunc(a.Search))
	r.Handle(http.MethodPost, "/create-playlist", http.HandlerFunc(a.CreatePlaylist))
	r.Handle(http.MethodGet, "/health", http.HandlerFunc(a.Health))
	r.Handle(http.MethodGet, "/metrics", promhttp.Handler())
}

// Login returns the provider consent URL.
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	url := a.auth.LoginURL("")
	a.logger.Debug("authorization url built", "url", url)
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// Callback exchanges the posted code for a session and stores it in the cookie.
func (a *API) Callback(w http.ResponseWriter, r *http.Request) {
	var body callbackRequest
	if err := decodeJSON(w, r, &body); err != nil {
		a.logger.Warn("bad callback body", "error", err)
	}

	sess, err := a.auth.Exchange(r.Context(), body.Code)
	if err != nil {
		a.logger.Error("token exchange failed", "error", err)
		writeError(w, http.StatusBadRequest, msgAuthFailed)
		return
	}

	if err := a.sessions.Save(w, r, sess); err != nil {
		a.logger.Warn("session cookie not saved", "error", err)
	}

	a.logger.Info("user authenticated", "user", sess.User.ID)
	writeJSON(w, http.StatusOK, sess)
}

// Logout drops the cookie session.
func (a *API) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Clear(w, r); err != nil {
		a.logger.Warn("session cookie not cleared", "error", err)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": msgLoggedOut})
}

// Me returns the identity held in the cookie session.
func (a *API) Me(w http.ResponseWriter, r *http.Request) {
	sess, err := a.sessions.Load(r)
	if err != nil {
		a.logger.Debug("no session", "error", err)
		writeError(w, http.StatusUnauthorized, msgNotLoggedIn)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*models.User{"user": sess.User})
}

// Search resolves the posted song names.
//
// The token comes from the body, falling back to the cookie session.
func (a *API) Search(w http.ResponseWriter, r *http.Request) {
	var body searchRequest
	if err := decodeJSON(w, r, &body); err != nil {
		a.logger.Warn("bad search body", "error", err)
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if len(body.SongNames) > MaxSongNames {
		a.logger.Warn("search rejected", "lines", len(body.SongNames), "max", MaxSongNames)
		writeError(w, http.StatusBadRequest, msgTooManySongs)
		return
	}

	token := a.accessToken(r, body.AccessToken)
	result, err := a.resolver.Resolve(r.Context(), nil, body.SongNames, token)
	switch {
	case errors.Is(err, shared.ErrAuthRequired):
		writeError(w, http.StatusUnauthorized, msgNoToken)
		return
	case err != nil:
		a.logger.Error("search failed", "error", err)
		writeError(w, http.StatusInternalServerError, msgSearchFailed)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// CreatePlaylist creates a public playlist and adds the posted track URIs.
//
// The token and user id fall back to the cookie session when absent from the body.
func (a *API) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var body createPlaylistRequest
	if err := decodeJSON(w, r, &body); err != nil {
		a.logger.Warn("bad create-playlist body", "error", err)
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	token, userID := body.AccessToken, body.UserID
	if token == "" || userID == "" {
		if sess, err := a.sessions.Load(r); err == nil {
			if token == "" {
				token = sess.AccessToken
			}
			if userID == "" {
				userID = sess.User.ID
			}
		}
	}

	result, err := a.publisher.Publish(r.Context(), nil, tasks.PublishRequest{
		AccessToken: token,
		UserID:      userID,
		Name:        body.PlaylistName,
		TrackURIs:   body.TrackURIs,
	})
	switch {
	case errors.Is(err, shared.ErrAuthRequired):
		writeError(w, http.StatusUnauthorized, msgNoToken)
		return
	case errors.Is(err, shared.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, msgMissingFields)
		return
	case err != nil:
		a.logger.Error("playlist creation failed", "error", err)
		writeError(w, http.StatusInternalServerError, msgCreateFailed)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Health reports liveness.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": msgHealthy})
}

func (a *API) accessToken(r *http.Request, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	sess, err := a.sessions.Load(r)
	if err != nil {
		return ""
	}
	return sess.AccessToken
}

// decodeJSON reads a bounded JSON body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
