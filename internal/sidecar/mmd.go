package sidecar

import (
	"fmt"
	"math"
	"strings"

	"airstage/internal/asset"
	"airstage/internal/station"
)

// writeMMD emits the mAirList cue document: a cue block anchoring FadeIn,
// Ramp, FadeOut, and CueOut, followed by a flat attribute block. Cue
// positions render with millisecond precision; FadeOut and CueOut are
// negative offsets from end-of-file.
func writeMMD(cfg station.SidecarConfig, a asset.Asset) string {
	ramp := 0.0
	if a.IntroSec != nil {
		ramp = *a.IntroSec
	}
	out := -0.5
	if a.EOMSec != nil {
		out = -math.Abs(*a.EOMSec)
	}

	var b strings.Builder
	b.WriteString("[Cues]\n")
	fmt.Fprintf(&b, "FadeIn=%.3f\n", 0.0)
	fmt.Fprintf(&b, "Ramp=%.3f\n", ramp)
	fmt.Fprintf(&b, "FadeOut=%.3f\n", out)
	fmt.Fprintf(&b, "CueOut=%.3f\n", out)
	b.WriteString("\n[Attributes]\n")
	for _, f := range filterFields(mmdAttributes(a), cfg.Fields) {
		b.WriteString(f.name + "=" + f.value + "\n")
	}
	return b.String()
}

func mmdAttributes(a asset.Asset) []field {
	return []field{
		{"Title", a.Title},
		{"Artist", a.Artist},
		{"ExternalID", a.ExternalID},
		{"Category", a.Category},
		{"ISRC", a.ISRC},
		{"Explicit", renderBool(a.Explicit)},
		{"EmbargoStart", renderTime(a.EmbargoStart)},
		{"ExpiresAt", renderTime(a.ExpiresAt)},
	}
}
