// package models defines the data model for the setlist service
package models

// Image represents an artwork or avatar resource.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height,omitempty"`
	Width  int    `json:"width,omitempty"`
}

// User is the authenticated account identity.
type User struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Email       string  `json:"email,omitempty"`
	Country     string  `json:"country,omitempty"`
	Product     string  `json:"product,omitempty"` // premium, free, etc.
	Images      []Image `json:"images,omitempty"`
}

// Session pairs an access token with the identity it was issued for.
//
// A Session is only ever built whole: a token without a user is never handed out.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	User         *User  `json:"user"`
}

// Valid reports whether the session carries both a token and an identity.
func (s *Session) Valid() bool {
	return s != nil && s.AccessToken != "" && s.User != nil
}

// Track is a resolved catalog match.
type Track struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artists     []string `json:"artists"`
	Album       string   `json:"album,omitempty"`
	URI         string   `json:"uri"`
	Image       string   `json:"image,omitempty"`
	DurationMS  int      `json:"duration_ms,omitempty"`
	ExternalURL string   `json:"external_url,omitempty"`
}

// Playlist is a playlist created on the user's account.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
	URI         string `json:"uri"`
	ExternalURL string `json:"external_url,omitempty"`
	OwnerID     string `json:"owner_id,omitempty"`
}
