package station

import "time"

const (
	defaultFileFormat = "wav"
	defaultSampleRate = 44100
	defaultBitDepth   = 16
	defaultLUFS       = -16.0
	defaultPeakDB     = -1.0
	defaultCategory   = "Other"
	defaultEOMSeconds = 0.5
)

// NewProfile returns a profile seeded with system defaults for one station.
// The delivery method starts as local staging so a fresh station can deliver
// immediately without transport credentials.
func NewProfile(stationID string) Profile {
	now := time.Now().UTC()
	return Profile{
		StationID: stationID,
		Name:      stationID,
		Vendor:    VendorGeneric,
		Delivery: DeliveryConfig{
			Method:     MethodLocal,
			RemotePath: "import",
		},
		Defaults: Defaults{
			FileFormat:   defaultFileFormat,
			SampleRate:   defaultSampleRate,
			BitDepth:     defaultBitDepth,
			TargetLUFS:   defaultLUFS,
			TargetPeakDB: defaultPeakDB,
			Category:     defaultCategory,
			EOMSeconds:   defaultEOMSeconds,
		},
		Sidecar:   SidecarConfig{Type: SidecarNone},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
