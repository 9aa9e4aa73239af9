// Package station models per-station playout configuration.
//
// A Profile bundles the playout vendor, delivery transport settings, file
// format defaults, sidecar selection, and category alias mappings for one
// station. Profiles are created once with system defaults, mutated only
// through the profile commands, persisted in SQLite keyed by station id, and
// never shared between stations.
package station
