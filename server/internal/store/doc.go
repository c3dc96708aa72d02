// Package store caches computed launch views. Identical criteria against the
// immutable dataset always produce the same view, so the server keeps recent
// ones for reuse, with TTL eviction bounding memory.
package store
