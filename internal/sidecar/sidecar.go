package sidecar

import (
	"fmt"
	"time"

	"airstage/internal/asset"
	"airstage/internal/naming"
	"airstage/internal/station"
)

// Sidecar is a generated companion metadata file. The zero value means "no
// sidecar for this profile" — a valid outcome callers must handle by skipping
// the sidecar write, not an error.
type Sidecar struct {
	Name string
	Body string
}

// Empty reports whether no sidecar should be written.
func (s Sidecar) Empty() bool {
	return s.Name == "" && s.Body == ""
}

type writerKey struct {
	Type   station.SidecarType
	Vendor station.Vendor
}

type writerFunc func(cfg station.SidecarConfig, a asset.Asset) string

// writers is the full dispatch table over (sidecar type, vendor). Every pair
// of both enums must appear here exactly once — a nil writer records an
// intentionally unsupported combination. TestWriterTableCoversAllPairs keeps
// the table honest when either enum grows.
var writers = map[writerKey]writerFunc{
	{station.SidecarNone, station.VendorMyriad}:   nil,
	{station.SidecarNone, station.VendorMAirList}: nil,
	{station.SidecarNone, station.VendorEnco}:     nil,
	{station.SidecarNone, station.VendorGeneric}:  nil,

	{station.SidecarCSV, station.VendorMyriad}:   writeMyriadCSV,
	{station.SidecarCSV, station.VendorMAirList}: nil,
	{station.SidecarCSV, station.VendorEnco}:     writeEncoCSV,
	{station.SidecarCSV, station.VendorGeneric}:  writeGenericCSV,

	{station.SidecarXML, station.VendorMyriad}:   nil,
	{station.SidecarXML, station.VendorMAirList}: nil,
	{station.SidecarXML, station.VendorEnco}:     writeEncoXML,
	{station.SidecarXML, station.VendorGeneric}:  writeGenericXML,

	{station.SidecarMMD, station.VendorMyriad}:   nil,
	{station.SidecarMMD, station.VendorMAirList}: writeMMD,
	{station.SidecarMMD, station.VendorEnco}:     nil,
	{station.SidecarMMD, station.VendorGeneric}:  nil,
}

// Generate builds the sidecar for an asset being written to filename. The
// sidecar shares the asset's base name with only the extension swapped.
// Profiles with sidecar type "none", or a (type, vendor) pair without a
// writer, yield the empty Sidecar.
func Generate(prof station.Profile, filename string, a asset.Asset) Sidecar {
	writer, known := writers[writerKey{prof.Sidecar.Type, prof.Vendor}]
	if !known || writer == nil {
		return Sidecar{}
	}
	return Sidecar{
		Name: naming.SwapExt(filename, string(prof.Sidecar.Type)),
		Body: writer(prof.Sidecar, a),
	}
}

// field is one named, already-rendered metadata value. Writers build ordered
// field lists; rendering to strings happens here, at the serialization
// boundary, so nil optionals become empty values only in output.
type field struct {
	name  string
	value string
}

func renderFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.1f", *v)
}

func renderBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

func renderTime(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}

// filterFields applies the profile's optional field restriction, preserving
// writer order. Matching is case-insensitive; an empty restriction keeps
// everything.
func filterFields(fields []field, allowed []string) []field {
	if len(allowed) == 0 {
		return fields
	}
	keep := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		keep[foldName(name)] = struct{}{}
	}
	out := make([]field, 0, len(fields))
	for _, f := range fields {
		if _, ok := keep[foldName(f.name)]; ok {
			out = append(out, f)
		}
	}
	return out
}

func foldName(name string) string {
	b := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'A' && c <= 'Z':
			b = append(b, c+('a'-'A'))
		case c == '_' || c == ' ' || c == '-':
		default:
			b = append(b, c)
		}
	}
	return string(b)
}
