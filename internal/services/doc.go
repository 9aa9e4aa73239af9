// Package services defines the shared failure taxonomy and context
// annotations used across the delivery pipeline.
//
// Sentinel errors classify failures into the categories the queue engine
// cares about: validation and configuration problems are rejected at enqueue
// time, IO failures mark a job failed with the transport's message attached,
// and verification mismatches get a distinct, friendlier label because the
// artifact may already be partially usable. Wrap tags an error with one of
// these markers plus component context; UserMessage renders the text that is
// persisted on a failed job.
package services
