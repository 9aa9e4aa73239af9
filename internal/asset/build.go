package asset

import (
	"strings"

	"airstage/internal/station"
)

// Fixed literals applied when neither override, recording, nor profile
// supplies a value.
const (
	fallbackTitle  = "Untitled"
	fallbackArtist = "Presenter"
	fallbackNotes  = "Uploaded from App"
)

// Build normalizes a recording plus overrides into a canonical asset. It is
// pure and deterministic: identical inputs always yield an identical asset,
// which downstream filename encoding relies on. Priority per field is
// override, then measured/derived recording value, then profile default,
// then a fixed literal.
func Build(rec Recording, prof station.Profile, ov Overrides) Asset {
	a := Asset{
		ExternalID: rec.ID,
		Title:      pickString(ov.Title, rec.Title, fallbackTitle),
		Artist:     pickString(ov.Artist, rec.Artist, fallbackArtist),
		Category:   buildCategory(rec, prof, ov),
		Explicit:   rec.Explicit,
	}

	if ov.Explicit != nil {
		a.Explicit = *ov.Explicit
	}

	a.LoudnessLUFS = copyFloat(rec.LoudnessLUFS)
	a.TruePeakDB = copyFloat(rec.TruePeakDB)

	// Intro falls back to the measured head trim before the profile is
	// consulted; EOM has no measured source, only the profile default.
	a.IntroSec = pickFloat(ov.IntroSec, rec.TrimHeadSec, nil)
	a.EOMSec = pickFloat(ov.EOMSec, nil, &prof.Defaults.EOMSeconds)

	a.HookIn = copyFloat(ov.HookIn)
	a.HookOut = copyFloat(ov.HookOut)

	if ov.ISRC != nil {
		a.ISRC = strings.TrimSpace(*ov.ISRC)
	}
	if ov.EmbargoStart != nil {
		t := *ov.EmbargoStart
		a.EmbargoStart = &t
	}
	if ov.ExpiresAt != nil {
		t := *ov.ExpiresAt
		a.ExpiresAt = &t
	}

	a.Notes = pickString(ov.Notes, "", fallbackNotes)

	return a
}

func buildCategory(rec Recording, prof station.Profile, ov Overrides) string {
	if ov.Category != nil && strings.TrimSpace(*ov.Category) != "" {
		return strings.TrimSpace(*ov.Category)
	}
	if resolved := prof.ResolveCategory(rec.Category); resolved != "" {
		return resolved
	}
	if def := strings.TrimSpace(prof.Defaults.Category); def != "" {
		return def
	}
	return "Other"
}

func pickString(override *string, measured, literal string) string {
	if override != nil && strings.TrimSpace(*override) != "" {
		return strings.TrimSpace(*override)
	}
	if trimmed := strings.TrimSpace(measured); trimmed != "" {
		return trimmed
	}
	return literal
}

func pickFloat(override, measured, fallback *float64) *float64 {
	switch {
	case override != nil:
		return copyFloat(override)
	case measured != nil:
		return copyFloat(measured)
	default:
		return copyFloat(fallback)
	}
}

func copyFloat(value *float64) *float64 {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}
