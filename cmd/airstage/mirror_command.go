package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"airstage/internal/config"
	"airstage/internal/engine"
	"airstage/internal/queue"
)

func newMirrorCommand(ctx *commandContext) *cobra.Command {
	var rf recordingFlags
	var subcategory string
	var tags []string

	cmd := &cobra.Command{
		Use:   "mirror <source-file>",
		Short: "Queue a recording for mirroring to long-term storage",
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

				job, err := eng.EnqueueMirror(cmd.Context(), engine.MirrorRequest{
					StationID:   ctx.station(),
					Recording:   rec,
					Overrides:   ov,
					Subcategory: subcategory,
					Tags:        tags,
				})
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Queued storage job %d for station %s\n", job.ID, job.StationID)
				fmt.Fprintf(out, "Destination: %s\n", job.RemotePath)
				return nil
			})
		},
	}

	rf.register(cmd)
	cmd.Flags().StringVar(&subcategory, "subcategory", "", "Optional subcategory for the export filename")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag for the export filename (repeatable, first three are kept)")
	return cmd
}
