package naming

import (
	"strings"
	"time"
)

const maxExportTags = 3

// ExportFilename builds the flat filename used for export and cloud-mirror
// jobs: "{Category}[-{Sub}]__{Title}[__{tag1,tag2,tag3}]__{id}__{YYYYMMDD_HHMM}.{ext}".
// The timestamp keeps repeated exports of the same title unique; at most
// three sanitized tags are embedded.
func ExportFilename(category, subcategory string, tags []string, title, id string, createdAt time.Time, ext string) string {
	head := componentOr(category, defaultCategory)
	if sub := Component(subcategory); sub != "" {
		head += "-" + sub
	}

	parts := []string{head, componentOr(title, defaultTitle)}

	kept := make([]string, 0, maxExportTags)
	for _, tag := range tags {
		if len(kept) == maxExportTags {
			break
		}
		if clean := Component(tag); clean != "" {
			kept = append(kept, clean)
		}
	}
	if len(kept) > 0 {
		parts = append(parts, strings.Join(kept, ","))
	}

	parts = append(parts, Component(id), createdAt.UTC().Format("20060102_1504"))

	return strings.Join(parts, "__") + "." + normalizeExt(ext)
}
