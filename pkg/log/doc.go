// Package log provides the structured logging interface used across the
// sync layer, with a zerolog-backed adapter and a no-op default.
package log
