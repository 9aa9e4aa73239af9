// Package sidecar generates the companion metadata file a playout system
// ingests alongside a delivered audio file.
//
// Dispatch runs over the full (sidecar type, vendor) cross product: a profile
// configured for "none", or a pair no vendor importer supports, yields the
// empty Sidecar rather than an error. Writers render CSV rows with
// unconditional quoting, minimal-escape XML element trees, and mAirList cue
// documents; the sidecar always shares the audio file's base name with only
// the extension swapped.
package sidecar
