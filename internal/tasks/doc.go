// Package tasks turns pasted song lists into playlists.
//
// # Batch Resolution
//
// [Resolver.Resolve] takes raw lines and an access token:
//
//  1. Fails with [shared.ErrAuthRequired] before dispatching anything when the token is empty
//  2. Trims every line and drops the empty ones ([CleanQueries])
//  3. Launches one search per query on an [errgroup.Group], optionally bounded and paced
//  4. Writes each result into the slot for its query index
//  5. After all searches finish, walks the slots in order, keeping matches and recording misses
//
// Searches finish in any order but the output is always in query order. A search that errors or
// times out is logged and counted as "no match"; it never fails the batch.
//
// # Publishing
//
// [Publisher.Publish] is a pass-through: create a public playlist, then add the chosen URIs.
//
// # Progress Reporting
//
// Both operations accept an optional progress channel. Sends use select with default so a slow
// reader never blocks a search.
//
// # Metrics
//
// Dispatch, match, miss, and failure counts plus batch latency are exported through prometheus.
package tasks
