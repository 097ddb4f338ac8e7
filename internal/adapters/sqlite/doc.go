// Package sqlite provides the durable pending-mutation log on an embedded
// SQLite database, the on-device analog of an indexed browser store.
package sqlite
