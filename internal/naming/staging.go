package naming

import (
	"fmt"
	"strings"
)

// Token is one extra key/value pair appended to the staging-path token group.
// Tokens keep their caller-supplied order.
type Token struct {
	Key   string
	Value string
}

const (
	defaultTitle    = "Untitled"
	defaultCategory = "Other"
)

// StagingPath builds the deterministic remote-relative path for a staged
// asset: "{Category}/{Title}__{ExternalId}[__{tokens}].{ext}". Numeric intro
// and eom markers render with one decimal place; extra tokens append after
// them in insertion order. The token group is omitted entirely when empty.
// Rights-sensitive fields (ISRC, embargo, expiry) deliberately never appear
// here; only the sidecar carries them.
func StagingPath(category, title, externalID string, intro, eom *float64, ext string, extra []Token) string {
	cat := componentOr(category, defaultCategory)
	base := componentOr(title, defaultTitle) + "__" + Component(externalID)

	tokens := make([]string, 0, 2+len(extra))
	if intro != nil {
		tokens = append(tokens, fmt.Sprintf("intro=%.1f", *intro))
	}
	if eom != nil {
		tokens = append(tokens, fmt.Sprintf("eom=%.1f", *eom))
	}
	for _, t := range extra {
		key := Component(t.Key)
		if key == "" {
			continue
		}
		tokens = append(tokens, key+"="+Component(t.Value))
	}
	if len(tokens) > 0 {
		base += "__{" + strings.Join(tokens, ",") + "}"
	}

	return cat + "/" + base + "." + normalizeExt(ext)
}

func normalizeExt(ext string) string {
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	if ext == "" {
		return "wav"
	}
	return strings.ToLower(ext)
}

// SwapExt replaces the extension of a path or filename, preserving the
// directory and base name. Used to derive sidecar names from asset names.
func SwapExt(path, ext string) string {
	idx := strings.LastIndex(path, ".")
	slash := strings.LastIndex(path, "/")
	if idx <= slash {
		return path + "." + normalizeExt(ext)
	}
	return path[:idx] + "." + normalizeExt(ext)
}
