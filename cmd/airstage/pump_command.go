package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"airstage/internal/config"
	"airstage/internal/engine"
	"airstage/internal/queue"
)

func newPumpCommand(ctx *commandContext) *cobra.Command {
	var queueFlag string
	var timeoutFlag int

	cmd := &cobra.Command{
		Use:   "pump",
		Short: "Process pending jobs through connect, upload, and verify",
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, err := kindsFromFlag(queueFlag)
			if err != nil {
				return err
			}

			return ctx.withEngine(func(cfg *config.Config, store *queue.Store, eng *engine.Engine) error {
				if cmd.Flags().Changed("timeout") {
					cfg.Pump.RunTimeout = timeoutFlag
				}

				out := cmd.OutOrStdout()
				for _, kind := range kinds {
					summary, err := eng.Pump(cmd.Context(), kind)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%s queue: processed %d, completed %d, failed %d, skipped %d\n",
						summary.Kind, summary.Processed, summary.Completed, summary.Failed, summary.Skipped)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&queueFlag, "queue", "q", "all", "Queue to pump: delivery, storage, or all")
	cmd.Flags().IntVar(&timeoutFlag, "timeout", 0, "Per-run deadline in seconds (0 disables)")
	return cmd
}

func kindsFromFlag(value string) ([]queue.Kind, error) {
	if value == "" || value == "all" {
		return queue.AllKinds(), nil
	}
	kind, ok := queue.ParseKind(value)
	if !ok {
		return nil, fmt.Errorf("unknown queue %q (want delivery, storage, or all)", value)
	}
	return []queue.Kind{kind}, nil
}
