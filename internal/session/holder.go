// package session holds the authenticated state of a single user flow.
//
// [Holder] keeps one access token and identity in memory for a CLI process. [Store] keeps the same
// pair in a signed browser cookie for the HTTP server. Neither persists anything server-side.
package session

import (
	"sync"

	"github.com/desertthunder/setlist/internal/models"
)

// Holder stores at most one access token and identity pair.
//
// The zero value is an empty holder. The mutex only guards against the login callback
// goroutine racing the command that waits on it.
type Holder struct {
	mu          sync.RWMutex
	accessToken string
	user        *models.User
}

// Set replaces the held pair.
func (h *Holder) Set(accessToken string, user *models.User) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.accessToken = accessToken
	h.user = user
}

// SetSession stores the token and identity from an exchanged [models.Session].
func (h *Holder) SetSession(s *models.Session) {
	if !s.Valid() {
		h.Clear()
		return
	}
	h.Set(s.AccessToken, s.User)
}

// Clear drops both the token and the identity.
func (h *Holder) Clear() {
	h.Set("", nil)
}

// Get returns the held pair and whether a usable one is present.
func (h *Holder) Get() (string, *models.User, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.accessToken, h.user, h.accessToken != "" && h.user != nil
}

// AccessToken returns the held token or an empty string.
func (h *Holder) AccessToken() string {
	token, _, _ := h.Get()
	return token
}
