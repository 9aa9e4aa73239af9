// Package queue persists delivery and storage transfer jobs in SQLite and
// exposes the lifecycle operations the pump and CLI drive them with.
//
// Both queues share one jobs table keyed by kind. Jobs move
// pending -> connecting -> uploading -> verifying -> complete, with failed
// reachable from any non-terminal state; storage jobs can additionally hold
// in paused. Retry is the only backwards move and is always explicit.
package queue
