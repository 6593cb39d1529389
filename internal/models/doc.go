// Package models defines the data transfer objects shared by the auth, search, and playlist layers.
//
//   - [User] : the authenticated Spotify account, fetched once right after the token exchange
//   - [Session] : an access token paired with its [User]
//   - [Track] : a catalog match for one pasted song line
//   - [Playlist] : a playlist created from matched tracks
//
// None of these types are persisted. They live for one request, or for one browser session when
// held by the session package.
package models
