// Package services talks to the Spotify Web API on behalf of an authenticated user.
//
// # Spotify Client
//
// [SpotifyClient] is stateless with respect to credentials: every call takes the bearer token it
// should use. Tokens are wrapped in an [oauth2.StaticTokenSource] so the [oauth2.Transport] sets the
// Authorization header. No refresh is attempted; an expired token surfaces as an API error.
//
// The client covers the calls setlist needs:
//   - [SpotifyClient.CurrentUser] : GET /me, used right after the token exchange
//   - [SpotifyClient.SearchTrack] : GET /search with limit=1, the best match for a free-text query
//   - [SpotifyClient.CreatePlaylist] : POST /users/{id}/playlists
//   - [SpotifyClient.AddTracks] : POST /playlists/{id}/tracks, chunked by 100 URIs
//
// # Error Handling
//
// Errors wrap sentinels from the shared package:
//   - [shared.ErrAuthRequired] : no token supplied
//   - [shared.ErrTrackNotFound] : search returned zero items
//   - [shared.ErrAPIRequest] : transport failure or non-2xx status
//
// Spotify wire types are mapped to [models.User], [models.Track], and [models.Playlist] before they
// leave this package.
package services
