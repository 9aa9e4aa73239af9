package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"airstage/internal/asset"
	"airstage/internal/config"
	"airstage/internal/engine"
	"airstage/internal/queue"
)

// recordingFlags collects the shared deliver/mirror flag set describing the
// recording and its per-send overrides.
type recordingFlags struct {
	id       string
	title    string
	artist   string
	category string
	loudness float64
	truePeak float64
	trimHead float64
	duration float64
	explicit bool

	intro   float64
	eom     float64
	hookIn  float64
	hookOut float64
	isrc    string
	embargo string
	expires string
	notes   string
}

func (r *recordingFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&r.id, "id", "", "External recording id (required)")
	flags.StringVar(&r.title, "title", "", "Recording title")
	flags.StringVar(&r.artist, "artist", "", "Recording artist or presenter")
	flags.StringVar(&r.category, "category", "", "Raw category, mapped through the station's aliases")
	flags.Float64Var(&r.loudness, "loudness", 0, "Measured integrated loudness in LUFS")
	flags.Float64Var(&r.truePeak, "true-peak", 0, "Measured true peak in dBTP")
	flags.Float64Var(&r.trimHead, "trim-head", 0, "Measured head trim in seconds (doubles as intro point)")
	flags.Float64Var(&r.duration, "duration", 0, "Recording duration in seconds")
	flags.BoolVar(&r.explicit, "explicit", false, "Mark the recording explicit")

	flags.Float64Var(&r.intro, "intro", 0, "Intro cue override in seconds")
	flags.Float64Var(&r.eom, "eom", 0, "End-of-message cue override in seconds")
	flags.Float64Var(&r.hookIn, "hook-in", 0, "Hook start override in seconds")
	flags.Float64Var(&r.hookOut, "hook-out", 0, "Hook end override in seconds")
	flags.StringVar(&r.isrc, "isrc", "", "ISRC code")
	flags.StringVar(&r.embargo, "embargo", "", "Embargo start (RFC 3339 or YYYY-MM-DD)")
	flags.StringVar(&r.expires, "expires", "", "Expiry (RFC 3339 or YYYY-MM-DD)")
	flags.StringVar(&r.notes, "notes", "", "Free-form notes")

	_ = cmd.MarkFlagRequired("id")
}

func (r *recordingFlags) build(cmd *cobra.Command, source, stationID string) (asset.Recording, asset.Overrides, error) {
	rec := asset.Recording{
		ID:           r.id,
		StationID:    stationID,
		SourcePath:   source,
		Title:        r.title,
		Artist:       r.artist,
		Category:     r.category,
		LoudnessLUFS: floatFlagPtr(cmd, "loudness", r.loudness),
		TruePeakDB:   floatFlagPtr(cmd, "true-peak", r.truePeak),
		TrimHeadSec:  floatFlagPtr(cmd, "trim-head", r.trimHead),
		DurationSec:  floatFlagPtr(cmd, "duration", r.duration),
		Explicit:     r.explicit,
	}

	embargo, err := parseTimeFlag("embargo", r.embargo)
	if err != nil {
		return asset.Recording{}, asset.Overrides{}, err
	}
	expires, err := parseTimeFlag("expires", r.expires)
	if err != nil {
		return asset.Recording{}, asset.Overrides{}, err
	}

	ov := asset.Overrides{
		IntroSec:     floatFlagPtr(cmd, "intro", r.intro),
		EOMSec:       floatFlagPtr(cmd, "eom", r.eom),
		HookIn:       floatFlagPtr(cmd, "hook-in", r.hookIn),
		HookOut:      floatFlagPtr(cmd, "hook-out", r.hookOut),
		Explicit:     boolFlagPtr(cmd, "explicit", r.explicit),
		ISRC:         stringFlagPtr(cmd, "isrc", r.isrc),
		EmbargoStart: embargo,
		ExpiresAt:    expires,
		Notes:        stringFlagPtr(cmd, "notes", r.notes),
	}
	return rec, ov, nil
}

func newDeliverCommand(ctx *commandContext) *cobra.Command {
	var rf recordingFlags

	cmd := &cobra.Command{
		Use:   "deliver <source-file>",
		Short: "Queue a recording for delivery to the station's playout system",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEngine(func(cfg *config.Config, store *queue.Store, eng *engine.Engine) error {
				source, err := config.ExpandPath(args[0])
				if err != nil {
					return err
				}
				rec, ov, err := rf.build(cmd, source, ctx.station())
				if err != nil {
					return err
				}

				job, err := eng.EnqueueDelivery(cmd.Context(), engine.DeliveryRequest{
					StationID: ctx.station(),
					Recording: rec,
					Overrides: ov,
				})
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Queued delivery job %d for station %s\n", job.ID, job.StationID)
				fmt.Fprintf(out, "Destination: %s\n", job.RemotePath)
				if job.SidecarName != "" {
					fmt.Fprintf(out, "Sidecar: %s\n", job.SidecarName)
				}
				return nil
			})
		},
	}

	rf.register(cmd)
	return cmd
}
