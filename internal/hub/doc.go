// Package hub implements the broadcast hub for the realtime channel.
//
// A single actor goroutine owns the membership set; registration, fan-out,
// targeted sends, and bookkeeping all flow through its command channel.
// Delivery is best-effort: no acknowledgments, no replay, and a client whose
// send buffer fills is evicted rather than blocking the broadcast.
package hub
