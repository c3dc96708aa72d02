// Package api implements the launchdash HTTP REST API.
//
// New(viewer) returns an http.Handler that serves:
//
//	GET /api/v1/health          : status, record count, site count
//	GET /api/v1/layout          : title, site options, slider, initial range
//	GET /api/v1/sites           : site options, "All Sites" first
//	GET /api/v1/records         : records matching the criteria
//	GET /api/v1/summary         : success/failure counts and pie title
//	GET /api/v1/series          : booster-category scatter groups
//	GET /api/v1/view            : summary + series + notes
//	GET /api/v1/charts/pie      : PNG (or ?format=svg) donut; 204 if empty
//	GET /api/v1/charts/scatter  : PNG (or ?format=svg) scatter; 204 if empty
//
// Criteria come from the query string:
//   - site: a launch site or ALL (default ALL)
//   - payload_min, payload_max: kg bounds (default: the dataset's observed bounds)
//
// All endpoints:
//   - Return 405 for non-GET methods
//   - Return 400 with a JSON error for non-numeric or inverted bounds
//
// The Viewer type is shared with the WebSocket hub so both surfaces compute
// and cache views the same way.
package api
