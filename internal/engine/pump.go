package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"airstage/internal/backend"
	"airstage/internal/logging"
	"airstage/internal/queue"
	"airstage/internal/services"
	"airstage/internal/station"
)

// Summary reports the outcome of one pump run.
type Summary struct {
	Kind      queue.Kind
	Processed int
	Completed int
	Failed    int
	Skipped   int
}

// Pump drives every actionable job of one queue through its full lifecycle,
// strictly in insertion order, persisting after each transition. Failures are
// contained per job; a broken transfer never stops the run. Jobs left
// mid-transfer by an interrupted run are skipped, never resumed. Runs are
// serialized by an in-process mutex and a file lock so concurrent processes
// cannot race the same queue.
func (e *Engine) Pump(ctx context.Context, kind queue.Kind) (Summary, error) {
	e.pumpMu.Lock()
	defer e.pumpMu.Unlock()

	lock := flock.New(filepath.Join(e.cfg.Paths.DataDir, "pump.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return Summary{Kind: kind}, services.Wrap(services.ErrIO, "engine", "pump", "acquire pump lock", err)
	}
	if !locked {
		return Summary{Kind: kind}, services.Wrap(services.ErrIO, "engine", "pump", "another pump run holds the lock", nil)
	}
	defer func() { _ = lock.Unlock() }()

	if timeout := e.cfg.Pump.RunTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
		defer cancel()
	}

	ctx = services.WithQueue(ctx, string(kind))
	ctx = services.WithRequestID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, e.logger)

	jobs, err := e.store.List(ctx, kind)
	if err != nil {
		return Summary{Kind: kind}, services.Wrap(services.ErrIO, "engine", "pump", "list jobs", err)
	}

	summary := Summary{Kind: kind}
	backends := make(map[string]backend.Backend)
	for _, job := range jobs {
		if job.Status != queue.StatusPending {
			summary.Skipped++
			continue
		}
		summary.Processed++

		jobCtx := services.WithJobID(ctx, job.ID)
		jobLogger := logging.WithContext(jobCtx, e.logger)
		if err := e.process(jobCtx, job, backends); err != nil {
			job.SetFailed(services.UserMessage(err))
			if updateErr := e.store.Update(jobCtx, job); updateErr != nil {
				jobLogger.Error("persist failure state", logging.Error(updateErr))
			}
			jobLogger.Error("job failed", logging.String("reason", job.ErrorMessage))
			summary.Failed++
			continue
		}
		summary.Completed++
		jobLogger.Info("job complete", logging.String("remote_path", job.RemotePath))
	}

	logger.Info("pump run finished",
		logging.Int("processed", summary.Processed),
		logging.Int("completed", summary.Completed),
		logging.Int("failed", summary.Failed),
		logging.Int("skipped", summary.Skipped))
	return summary, nil
}

// process walks one job through connecting, uploading, and verifying. Every
// transition is persisted before the next phase starts.
func (e *Engine) process(ctx context.Context, job *queue.Job, backends map[string]backend.Backend) error {
	now := time.Now().UTC()
	job.Status = queue.StatusConnecting
	job.Progress = 0
	job.ErrorMessage = ""
	job.StartedAt = &now
	if err := e.store.Update(ctx, job); err != nil {
		return services.Wrap(services.ErrIO, "engine", "pump", "persist connecting state", err)
	}

	be, err := e.backendFor(ctx, job, backends)
	if err != nil {
		return err
	}

	job.Status = queue.StatusUploading
	if err := e.store.Update(ctx, job); err != nil {
		return services.Wrap(services.ErrIO, "engine", "pump", "persist uploading state", err)
	}

	if err := be.Put(ctx, job.RemotePath, backend.FromPath(job.SourcePath)); err != nil {
		return err
	}
	job.SetProgress(progressAudioDone)
	if err := e.store.Update(ctx, job); err != nil {
		return services.Wrap(services.ErrIO, "engine", "pump", "persist upload progress", err)
	}

	if job.SidecarName != "" {
		if err := be.Put(ctx, job.SidecarName, backend.FromBytes([]byte(job.SidecarBody))); err != nil {
			return err
		}
		job.SetProgress(progressSidecarDone)
		if err := e.store.Update(ctx, job); err != nil {
			return services.Wrap(services.ErrIO, "engine", "pump", "persist sidecar progress", err)
		}
	}

	job.Status = queue.StatusVerifying
	if err := e.store.Update(ctx, job); err != nil {
		return services.Wrap(services.ErrIO, "engine", "pump", "persist verifying state", err)
	}

	ok, err := be.Verify(ctx, job.RemotePath)
	if err != nil {
		return services.Wrap(services.ErrVerify, "engine", "verify", job.RemotePath, err)
	}
	if !ok {
		return services.Wrap(services.ErrVerify, "engine", "verify",
			fmt.Sprintf("%s is missing or empty at the destination", job.RemotePath), nil)
	}

	finished := time.Now().UTC()
	job.Status = queue.StatusComplete
	job.SetProgress(1)
	job.FinishedAt = &finished
	if err := e.store.Update(ctx, job); err != nil {
		return services.Wrap(services.ErrIO, "engine", "pump", "persist complete state", err)
	}
	return nil
}

const (
	progressAudioDone   = 0.8
	progressSidecarDone = 0.9
)

func (e *Engine) backendFor(ctx context.Context, job *queue.Job, backends map[string]backend.Backend) (backend.Backend, error) {
	if be, ok := backends[job.StationID]; ok {
		return be, nil
	}

	prof, err := e.profiles.Get(ctx, job.StationID)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "engine", "pump", "load station profile", err)
	}
	var delivery station.DeliveryConfig
	if prof != nil {
		delivery = prof.Delivery
	} else {
		// Profile deleted after enqueue; the staging fallback still lets the
		// payload land somewhere recoverable.
		delivery = station.DeliveryConfig{Method: station.MethodLocal}
	}

	be, err := backend.Resolve(delivery, backend.Options{
		LocalRoot: e.localRoot(job.Kind),
		Logger:    e.logger,
	})
	if err != nil {
		return nil, err
	}
	backends[job.StationID] = be
	return be, nil
}
