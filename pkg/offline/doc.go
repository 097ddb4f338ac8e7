// Package offline is the embeddable client for the Soma offline
// consistency layer. It wires the durable mutation queue, connectivity
// monitoring, and replay into a single object that applications construct
// once and inject wherever writes happen.
//
// Writes go through Execute, which attempts the remote call immediately
// when online and queues the mutation durably otherwise. When
// connectivity returns, queued mutations replay in per-kind FIFO order
// through the handlers registered with RegisterHandler. Delivery is
// at-least-once; handlers must be idempotent.
package offline
