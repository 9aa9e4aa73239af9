package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"airstage/internal/config"
	"airstage/internal/engine"
	"airstage/internal/queue"
	"airstage/internal/station"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the transfer queues",
	}

	queueCmd.AddCommand(newQueueListCommand(ctx))
	queueCmd.AddCommand(newQueueStatusCommand(ctx))
	queueCmd.AddCommand(newQueueRetryCommand(ctx))
	queueCmd.AddCommand(newQueueRemoveCommand(ctx))
	queueCmd.AddCommand(newQueueClearCommand(ctx))
	queueCmd.AddCommand(newQueuePauseCommand(ctx))
	queueCmd.AddCommand(newQueueResumeCommand(ctx))
	queueCmd.AddCommand(newQueueResetCommand(ctx))

	return queueCmd
}

func queueKindFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "queue", "q", "delivery", "Queue kind: delivery or storage")
}

func parseKindFlag(value string) (queue.Kind, error) {
	kind, ok := queue.ParseKind(value)
	if !ok {
		return "", fmt.Errorf("unknown queue %q (want delivery or storage)", value)
	}
	return kind, nil
}

func parseJobID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid job id %q", arg)
	}
	return id, nil
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	var kindFlag string
	var listStatuses []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queued jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKindFlag(kindFlag)
			if err != nil {
				return err
			}
			var statuses []queue.Status
			for _, raw := range listStatuses {
				status, ok := queue.ParseStatus(raw)
				if !ok {
					return fmt.Errorf("unknown status %q", raw)
				}
				statuses = append(statuses, status)
			}

			return ctx.withStores(func(cfg *config.Config, store *queue.Store, profiles *station.Store) error {
				jobs, err := store.List(cmd.Context(), kind, statuses...)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(jobs) == 0 {
					fmt.Fprintln(out, "Queue is empty")
					return nil
				}

				rows := make([][]string, 0, len(jobs))
				for _, job := range jobs {
					rows = append(rows, []string{
						strconv.FormatInt(job.ID, 10),
						job.StationID,
						job.RemotePath,
						string(job.Status),
						fmt.Sprintf("%3.0f%%", job.Progress*100),
						job.CreatedAt.Local().Format(time.DateTime),
						job.ErrorMessage,
					})
				}
				fmt.Fprintln(out, renderTable(out,
					[]string{"ID", "Station", "Destination", "Status", "Progress", "Created", "Error"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft}))
				return nil
			})
		},
	}

	queueKindFlag(cmd, &kindFlag)
	cmd.Flags().StringSliceVarP(&listStatuses, "status", "s", nil, "Filter by status (repeatable)")
	return cmd
}

func newQueueStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show per-status counts for both queues",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStores(func(cfg *config.Config, store *queue.Store, profiles *station.Store) error {
				out := cmd.OutOrStdout()
				rows := make([][]string, 0, len(queue.AllKinds()))
				for _, kind := range queue.AllKinds() {
					health, err := store.Health(cmd.Context(), kind)
					if err != nil {
						return err
					}
					rows = append(rows, []string{
						string(kind),
						strconv.Itoa(health.Total),
						strconv.Itoa(health.Pending),
						strconv.Itoa(health.InTransfer),
						strconv.Itoa(health.Paused),
						strconv.Itoa(health.Complete),
						strconv.Itoa(health.Failed),
					})
				}
				fmt.Fprintln(out, renderTable(out,
					[]string{"Queue", "Total", "Pending", "In transfer", "Paused", "Complete", "Failed"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight}))
				return nil
			})
		},
	}
}

func newQueueRetryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry <job-id>",
		Short: "Return a failed job to pending and pump its queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseJobID(args[0])
			if err != nil {
				return err
			}
			return ctx.withEngine(func(cfg *config.Config, store *queue.Store, eng *engine.Engine) error {
				job, err := store.Retry(cmd.Context(), id)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Job %d is pending again (retry %d)\n", job.ID, job.RetryCount)

				summary, err := eng.Pump(cmd.Context(), job.Kind)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s queue: processed %d, completed %d, failed %d, skipped %d\n",
					summary.Kind, summary.Processed, summary.Completed, summary.Failed, summary.Skipped)
				return nil
			})
		},
	}
}

func newQueueRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <job-id>",
		Short: "Delete a job from its queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseJobID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStores(func(cfg *config.Config, store *queue.Store, profiles *station.Store) error {
				removed, err := store.Remove(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("no job with id %d", id)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed job %d\n", id)
				return nil
			})
		},
	}
}

func newQueueClearCommand(ctx *commandContext) *cobra.Command {
	var kindFlag string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Prune complete jobs from a queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKindFlag(kindFlag)
			if err != nil {
				return err
			}
			return ctx.withStores(func(cfg *config.Config, store *queue.Store, profiles *station.Store) error {
				cleared, err := store.ClearCompleted(cmd.Context(), kind)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d complete jobs from the %s queue\n", cleared, kind)
				return nil
			})
		},
	}

	queueKindFlag(cmd, &kindFlag)
	return cmd
}

func newQueueResetCommand(ctx *commandContext) *cobra.Command {
	var kindFlag string

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Return jobs interrupted mid-transfer to pending",
		Long: "Jobs left at connecting, uploading, or verifying by an interrupted run " +
			"stay there until reset; pump never resumes them on its own.",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKindFlag(kindFlag)
			if err != nil {
				return err
			}
			return ctx.withStores(func(cfg *config.Config, store *queue.Store, profiles *station.Store) error {
				reset, err := store.ResetStranded(cmd.Context(), kind)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reset %d interrupted jobs in the %s queue; run 'airstage pump' to process them\n",
					reset, kind)
				return nil
			})
		},
	}

	queueKindFlag(cmd, &kindFlag)
	return cmd
}

func newQueuePauseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "pause <job-id>",
		Short: "Hold a pending storage job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseJobID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStores(func(cfg *config.Config, store *queue.Store, profiles *station.Store) error {
				job, err := store.Pause(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Paused job %d\n", job.ID)
				return nil
			})
		},
	}
}

func newQueueResumeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resume <job-id>",
		Short: "Return a paused storage job to pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseJobID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStores(func(cfg *config.Config, store *queue.Store, profiles *station.Store) error {
				job, err := store.Resume(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Resumed job %d\n", job.ID)
				return nil
			})
		},
	}
}
