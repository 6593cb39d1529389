// Package server provides HTTP routing, middleware, and the handlers behind setlist's API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] runs in the order it was added: the first one registered is the outermost wrapper.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally and dispatches by method per path, so one
// path can serve several methods and answer everything else with 405. Middleware runs before method
// dispatch, which lets CORS answer preflight requests on any registered path.
//
// # JSON API
//
// [API] serves the browser-facing endpoints:
//
//	GET  /auth/login       → {url}
//	POST /auth/callback    → {access_token, refresh_token, user}
//	POST /auth/logout      → {status}
//	GET  /me               → {user}
//	POST /search           → {tracks, found, total, unmatched}
//	POST /create-playlist  → {playlist, tracksAdded}
//	GET  /health           → {status}
//	GET  /metrics          → prometheus exposition
//
// Errors are reported as {"error": "..."} with a short message. Provider detail is logged, never returned.
//
// # OAuth Callback Handler
//
// [CallbackHandler] completes the CLI login flow. A temporary server listens on the redirect URI, the handler
// validates the state parameter (CSRF protection), exchanges the code for a session, and sends the result
// through a channel. It only processes one callback to prevent replay attacks.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
