// Package cache provides a generic, capacity-bounded TTL cache for read
// paths: lazy expiry, oldest-first eviction, and singleflight read-through
// so concurrent misses trigger a single fetch.
package cache
