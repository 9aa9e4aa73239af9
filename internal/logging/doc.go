// Package logging wires log/slog for airstage.
//
// New builds console or JSON handlers from config; the console handler keeps
// records to one line with job/queue/stage fields leading. Attr helpers and
// NewNop mirror the slog surface so callers never import log/slog for
// construction details, and WithContext derives standardized fields from the
// services context annotations.
package logging
