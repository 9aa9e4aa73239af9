package sidecar

import (
	"strings"

	"airstage/internal/asset"
	"airstage/internal/station"
)

// CSV sidecars quote every field unconditionally and double embedded quotes.
// encoding/csv only quotes when forced to, so the rows are written by hand to
// match what the vendor importers expect.

func writeMyriadCSV(cfg station.SidecarConfig, a asset.Asset) string {
	return renderCSV(filterFields(fullFields(a), cfg.Fields))
}

// ENCO imports reject unknown columns; the rights and free-text fields stay
// out of its row entirely.
func writeEncoCSV(cfg station.SidecarConfig, a asset.Asset) string {
	fields := []field{
		{"CutID", a.ExternalID},
		{"Title", a.Title},
		{"Artist", a.Artist},
		{"Category", a.Category},
		{"Intro", renderFloat(a.IntroSec)},
		{"EOM", renderFloat(a.EOMSec)},
		{"Explicit", renderBool(a.Explicit)},
	}
	return renderCSV(filterFields(fields, cfg.Fields))
}

func writeGenericCSV(cfg station.SidecarConfig, a asset.Asset) string {
	return renderCSV(filterFields(fullFields(a), cfg.Fields))
}

func fullFields(a asset.Asset) []field {
	return []field{
		{"ExternalID", a.ExternalID},
		{"Title", a.Title},
		{"Artist", a.Artist},
		{"Category", a.Category},
		{"Intro", renderFloat(a.IntroSec)},
		{"EOM", renderFloat(a.EOMSec)},
		{"Loudness", renderFloat(a.LoudnessLUFS)},
		{"TruePeak", renderFloat(a.TruePeakDB)},
		{"ISRC", a.ISRC},
		{"Explicit", renderBool(a.Explicit)},
		{"EmbargoStart", renderTime(a.EmbargoStart)},
		{"ExpiresAt", renderTime(a.ExpiresAt)},
		{"Notes", a.Notes},
	}
}

func renderCSV(fields []field) string {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		writeQuoted(&b, f.name)
	}
	b.WriteString("\r\n")
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		writeQuoted(&b, f.value)
	}
	b.WriteString("\r\n")
	return b.String()
}

func writeQuoted(b *strings.Builder, value string) {
	b.WriteByte('"')
	b.WriteString(strings.ReplaceAll(value, `"`, `""`))
	b.WriteByte('"')
}
