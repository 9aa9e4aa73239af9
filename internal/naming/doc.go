// Package naming constructs sanitized, deterministic paths and filenames for
// delivered assets.
//
// Every free-text component passes through the same sanitizer: Unicode
// decomposition strips diacritics, anything outside [A-Za-z0-9 -_] is
// dropped, and whitespace runs collapse to single hyphens. StagingPath
// produces the category-foldered layout playout imports expect; ExportFilename
// produces the flat, timestamped variant for exports and cloud mirrors.
package naming
