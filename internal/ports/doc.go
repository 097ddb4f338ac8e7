// Package ports defines the interfaces between the sync layer's core and
// its adapters: the durable mutation store, mutation handlers, the
// connectivity signal, and run observers.
package ports
