// Package metrics exposes launchdash counters in the Prometheus text format.
//
// Families:
//   - launchdash_dataset_records{site,outcome}: records loaded, fixed at startup
//   - launchdash_views_computed_total: views computed from the dataset
//   - launchdash_view_cache_hits_total: views served from the cache
//   - launchdash_ws_requests_total: selector requests received over WebSocket
//   - launchdash_ws_superseded_total: requests replaced before being computed
//   - launchdash_ws_clients: connected WebSocket clients
//
// Families are assembled from client_model types and encoded with expfmt.
package metrics
