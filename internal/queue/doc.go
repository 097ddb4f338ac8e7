// Package queue contains the core of the offline mutation queue: the
// handler registry, the single-flight replay processor, and the
// network-aware execution wrapper.
package queue
