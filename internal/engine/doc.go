// Package engine is the seam between recordings and the transfer queues. It
// validates and enqueues delivery and storage jobs, and pumps queued jobs
// through connect, upload, and verify against the station's backend.
package engine
