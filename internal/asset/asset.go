package asset

import "time"

// Asset is the vendor-neutral metadata record describing one deliverable
// audio file. ExternalID is fixed at creation (it equals the source recording
// id) and never changes. Optional numeric and time fields stay nil internally;
// only the serialization boundaries (sidecar writers, JSON persistence)
// render them as strings.
type Asset struct {
	ExternalID   string     `json:"external_id"`
	Title        string     `json:"title"`
	Artist       string     `json:"artist"`
	Category     string     `json:"category"`
	LoudnessLUFS *float64   `json:"loudness_lufs,omitempty"`
	TruePeakDB   *float64   `json:"true_peak_db,omitempty"`
	IntroSec     *float64   `json:"intro_sec,omitempty"`
	EOMSec       *float64   `json:"eom_sec,omitempty"`
	HookIn       *float64   `json:"hook_in,omitempty"`
	HookOut      *float64   `json:"hook_out,omitempty"`
	Explicit     bool       `json:"explicit"`
	ISRC         string     `json:"isrc,omitempty"`
	EmbargoStart *time.Time `json:"embargo_start,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}

// Recording is the descriptor supplied by the recording collaborator. It is
// consumed read-only.
type Recording struct {
	ID           string
	StationID    string
	SourcePath   string
	Title        string
	Artist       string
	Category     string
	LoudnessLUFS *float64
	TruePeakDB   *float64
	// TrimHeadSec is the measured head trim; it doubles as the derived
	// intro point when no explicit intro override is given.
	TrimHeadSec *float64
	DurationSec *float64
	Explicit    bool
	CreatedAt   time.Time
}

// Overrides carries caller-supplied values that win over both measured
// recording values and profile defaults. Nil pointers mean "no override".
type Overrides struct {
	Title        *string
	Artist       *string
	Category     *string
	IntroSec     *float64
	EOMSec       *float64
	HookIn       *float64
	HookOut      *float64
	Explicit     *bool
	ISRC         *string
	EmbargoStart *time.Time
	ExpiresAt    *time.Time
	Notes        *string
}
