package station

import (
	"strings"
	"time"
)

// Vendor identifies the playout system a station delivers into.
type Vendor string

const (
	VendorMyriad   Vendor = "myriad"
	VendorMAirList Vendor = "mairlist"
	VendorEnco     Vendor = "enco"
	VendorGeneric  Vendor = "generic"
)

// AllVendors returns the ordered list of known vendors.
func AllVendors() []Vendor {
	return []Vendor{VendorMyriad, VendorMAirList, VendorEnco, VendorGeneric}
}

// ParseVendor converts a string into a known Vendor.
func ParseVendor(value string) (Vendor, bool) {
	normalized := Vendor(strings.ToLower(strings.TrimSpace(value)))
	for _, v := range AllVendors() {
		if v == normalized {
			return v, true
		}
	}
	return "", false
}

// DeliveryMethod identifies the transport used to reach the playout system or
// cloud mirror. Only "local" is guaranteed to have a concrete backend; any
// other method degrades to local staging until one is registered.
type DeliveryMethod string

const (
	MethodLocal   DeliveryMethod = "local"
	MethodSFTP    DeliveryMethod = "sftp"
	MethodSMB     DeliveryMethod = "smb"
	MethodS3      DeliveryMethod = "s3"
	MethodAzure   DeliveryMethod = "azure"
	MethodGCS     DeliveryMethod = "gcs"
	MethodHTTP    DeliveryMethod = "http"
	MethodDropbox DeliveryMethod = "dropbox"
)

// AllMethods returns the ordered list of known delivery methods.
func AllMethods() []DeliveryMethod {
	return []DeliveryMethod{
		MethodLocal,
		MethodSFTP,
		MethodSMB,
		MethodS3,
		MethodAzure,
		MethodGCS,
		MethodHTTP,
		MethodDropbox,
	}
}

// ParseMethod converts a string into a known DeliveryMethod.
func ParseMethod(value string) (DeliveryMethod, bool) {
	normalized := DeliveryMethod(strings.ToLower(strings.TrimSpace(value)))
	for _, m := range AllMethods() {
		if m == normalized {
			return m, true
		}
	}
	return "", false
}

// SidecarType identifies the companion metadata format written next to an
// audio file.
type SidecarType string

const (
	SidecarNone SidecarType = "none"
	SidecarCSV  SidecarType = "csv"
	SidecarXML  SidecarType = "xml"
	SidecarMMD  SidecarType = "mmd"
)

// AllSidecarTypes returns the ordered list of known sidecar types.
func AllSidecarTypes() []SidecarType {
	return []SidecarType{SidecarNone, SidecarCSV, SidecarXML, SidecarMMD}
}

// ParseSidecarType converts a string into a known SidecarType.
func ParseSidecarType(value string) (SidecarType, bool) {
	normalized := SidecarType(strings.ToLower(strings.TrimSpace(value)))
	for _, s := range AllSidecarTypes() {
		if s == normalized {
			return s, true
		}
	}
	return "", false
}

// DeliveryConfig describes how artifacts reach the playout system. Fields are
// method-specific; unused ones stay empty.
type DeliveryConfig struct {
	Method     DeliveryMethod `json:"method"`
	Host       string         `json:"host,omitempty"`
	Port       int            `json:"port,omitempty"`
	Username   string         `json:"username,omitempty"`
	Password   string         `json:"password,omitempty"`
	RemotePath string         `json:"remote_path"`

	// S3-compatible settings.
	Bucket         string `json:"bucket,omitempty"`
	Region         string `json:"region,omitempty"`
	Endpoint       string `json:"endpoint,omitempty"`
	AccessKeyID    string `json:"access_key_id,omitempty"`
	SecretKey      string `json:"secret_key,omitempty"`
	ForcePathStyle bool   `json:"force_path_style,omitempty"`
}

// Defaults carries the station's fallback values applied when a recording or
// override leaves a field empty.
type Defaults struct {
	FileFormat   string  `json:"file_format"`
	SampleRate   int     `json:"sample_rate"`
	BitDepth     int     `json:"bit_depth"`
	TargetLUFS   float64 `json:"target_lufs"`
	TargetPeakDB float64 `json:"target_peak_db"`
	Category     string  `json:"category"`
	EOMSeconds   float64 `json:"eom_seconds"`
}

// SidecarConfig selects the sidecar format and, optionally, restricts the
// emitted field list.
type SidecarConfig struct {
	Type   SidecarType `json:"type"`
	Fields []string    `json:"fields,omitempty"`
}

// Profile is the per-station configuration every enqueue consults. One
// profile belongs to exactly one station.
type Profile struct {
	StationID       string            `json:"station_id"`
	Name            string            `json:"name"`
	Vendor          Vendor            `json:"vendor"`
	Delivery        DeliveryConfig    `json:"delivery"`
	Defaults        Defaults          `json:"defaults"`
	Sidecar         SidecarConfig     `json:"sidecar"`
	CategoryAliases map[string]string `json:"category_aliases,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// ResolveCategory maps a raw category through the profile's alias table. The
// lookup is case-insensitive on the alias key; a miss returns the input.
func (p Profile) ResolveCategory(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	for alias, target := range p.CategoryAliases {
		if strings.EqualFold(alias, trimmed) {
			return target
		}
	}
	return trimmed
}
