// Package config loads the dashboard configuration from config.yaml.
//
// Config sections:
//   - Server.HTTPPort: port for page, REST API, WebSocket and metrics (default 8050)
//   - Server.LogLevel: debug | info | warn | error (default info)
//   - Dataset.Source: "csv" or "sqlite" (default csv)
//   - Dataset.Path: CSV file or SQLite database file
//   - Dataset.Table: SQLite table name (default "launches")
//   - Dataset.Strict: reject the dataset on the first invalid row (default true)
//   - Dataset.Columns: CSV header names for site, payload, booster, outcome
//   - UI.Title: page heading
//   - UI.Slider: payload selector bounds, step and marks (default 0..10000 step 1000)
//   - Cache.TTL: computed-view reuse window (default 5m, 0 disables)
//
// Load(path) applies defaults before unmarshalling, then validates.
// Watch(ctx, path, fn) reloads the file on change; the server applies only
// the UI section live.
package config
