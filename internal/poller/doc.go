// Package poller keeps the dashboard view state in sync with the research API.
//
// This package is internal to discoveryboard. The main components are:
//
//   - [Syncer]: the refresh loop; an immediate cycle on start, then one per
//     interval, two concurrent fetches per cycle, stale-while-revalidate
//   - [Source]: what a cycle fetches from; [APISource] is the HTTP implementation
//   - [Client]: HTTP client wrapper with per-request timeouts and a body size limit
//   - [FetchError]: per-resource failure classified as [ErrNetwork] or [ErrParse]
//
// Failures never stop the loop. A failed resource keeps its previous data
// until a later cycle succeeds; the fixed interval is the only retry.
package poller
