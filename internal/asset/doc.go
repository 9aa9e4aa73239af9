// Package asset builds the canonical, vendor-neutral metadata record for one
// deliverable audio file from a recording descriptor, a station profile, and
// caller overrides.
package asset
