package sidecar

import (
	"strings"

	"airstage/internal/asset"
	"airstage/internal/station"
)

// XML sidecars escape only &, <, and >. The vendor importers choke on the
// quote entities encoding/xml emits, so the documents are written by hand.

func writeEncoXML(cfg station.SidecarConfig, a asset.Asset) string {
	return renderXML("ENCO", "Cut", cfg, a)
}

func writeGenericXML(cfg station.SidecarConfig, a asset.Asset) string {
	return renderXML("Assets", "Asset", cfg, a)
}

func renderXML(root, item string, cfg station.SidecarConfig, a asset.Asset) string {
	fields := filterFields(xmlFields(a), cfg.Fields)

	var b strings.Builder
	b.WriteString("<" + root + ">\n")
	b.WriteString("  <" + item + ">\n")
	for _, f := range fields {
		b.WriteString("    <" + f.name + ">" + escapeXML(f.value) + "</" + f.name + ">\n")
	}
	b.WriteString("  </" + item + ">\n")
	b.WriteString("</" + root + ">\n")
	return b.String()
}

// xmlFields omits nil numeric markers entirely rather than emitting empty
// elements; importers treat a present-but-empty Intro as zero, which is wrong.
func xmlFields(a asset.Asset) []field {
	fields := []field{
		{"ExternalID", a.ExternalID},
		{"Title", a.Title},
		{"Artist", a.Artist},
		{"Category", a.Category},
	}
	if a.IntroSec != nil {
		fields = append(fields, field{"Intro", renderFloat(a.IntroSec)})
	}
	if a.EOMSec != nil {
		fields = append(fields, field{"EOM", renderFloat(a.EOMSec)})
	}
	if a.LoudnessLUFS != nil {
		fields = append(fields, field{"Loudness", renderFloat(a.LoudnessLUFS)})
	}
	if a.TruePeakDB != nil {
		fields = append(fields, field{"TruePeak", renderFloat(a.TruePeakDB)})
	}
	fields = append(fields,
		field{"ISRC", a.ISRC},
		field{"Explicit", renderBool(a.Explicit)},
	)
	if a.EmbargoStart != nil {
		fields = append(fields, field{"EmbargoStart", renderTime(a.EmbargoStart)})
	}
	if a.ExpiresAt != nil {
		fields = append(fields, field{"ExpiresAt", renderTime(a.ExpiresAt)})
	}
	fields = append(fields, field{"Notes", a.Notes})
	return fields
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeXML(value string) string {
	return xmlEscaper.Replace(value)
}
