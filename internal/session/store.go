package session

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	// CookieName is the browser cookie carrying the session.
	CookieName = "setlist"
	// MaxAge matches the provider's access token lifetime.
	MaxAge = time.Hour

	accessTokenKey = "access_token"
	userKey        = "user"
)

// Store keeps one session per browser in a signed cookie.
type Store struct {
	cookies *sessions.CookieStore
}

// NewStore creates a cookie-backed [Store].
//
// An empty secret gets a random one, so sessions do not survive a restart.
func NewStore(secret string, secure bool) *Store {
	if secret == "" {
		secret = uuid.NewString() + uuid.NewString()
	}

	cookies := sessions.NewCookieStore([]byte(secret))
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	cookies.MaxAge(cookies.Options.MaxAge)

	return &Store{cookies: cookies}
}

// Save writes the token and identity to the response cookie.
func (s *Store) Save(w http.ResponseWriter, r *http.Request, sess *models.Session) error {
	if !sess.Valid() {
		return fmt.Errorf("%w: session needs a token and a user", shared.ErrInvalidInput)
	}

	user, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	cookie, _ := s.cookies.Get(r, CookieName)
	cookie.Values[accessTokenKey] = sess.AccessToken
	cookie.Values[userKey] = string(user)
	if err := cookie.Save(r, w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load reads the session from the request cookie.
//
// A missing, expired, or tampered cookie yields [shared.ErrAuthRequired].
func (s *Store) Load(r *http.Request) (*models.Session, error) {
	cookie, err := s.cookies.Get(r, CookieName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthRequired, err)
	}

	token, _ := cookie.Values[accessTokenKey].(string)
	encoded, _ := cookie.Values[userKey].(string)
	if token == "" || encoded == "" {
		return nil, fmt.Errorf("%w: no session", shared.ErrAuthRequired)
	}

	var user models.User
	if err := json.Unmarshal([]byte(encoded), &user); err != nil {
		return nil, fmt.Errorf("%w: corrupt session: %v", shared.ErrAuthRequired, err)
	}

	return &models.Session{AccessToken: token, User: &user}, nil
}

// Clear expires the session cookie.
func (s *Store) Clear(w http.ResponseWriter, r *http.Request) error {
	cookie, _ := s.cookies.Get(r, CookieName)
	cookie.Values = make(map[any]any)
	cookie.Options.MaxAge = -1
	if err := cookie.Save(r, w); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
