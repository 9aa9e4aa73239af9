package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"airstage/internal/asset"
	"airstage/internal/logging"
	"airstage/internal/naming"
	"airstage/internal/queue"
	"airstage/internal/services"
	"airstage/internal/sidecar"
	"airstage/internal/station"
)

// DeliveryRequest describes one recording headed for a station's playout
// system.
type DeliveryRequest struct {
	StationID string
	Recording asset.Recording
	Overrides asset.Overrides
}

// MirrorRequest describes one recording headed for long-term storage. Tags
// beyond the first three are dropped by the filename encoder.
type MirrorRequest struct {
	StationID   string
	Recording   asset.Recording
	Overrides   asset.Overrides
	Subcategory string
	Tags        []string
}

// EnqueueDelivery validates the request, builds the canonical asset and its
// vendor sidecar, and persists a pending delivery job. Validation and
// configuration failures reject the request without creating a job.
func (e *Engine) EnqueueDelivery(ctx context.Context, req DeliveryRequest) (*queue.Job, error) {
	prof, err := e.resolveProfile(ctx, req.StationID)
	if err != nil {
		return nil, err
	}
	if err := validateRecording(req.Recording); err != nil {
		return nil, err
	}
	if strings.TrimSpace(prof.Delivery.RemotePath) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "engine", "enqueue",
			fmt.Sprintf("station %s has no delivery remote path", prof.StationID), nil)
	}

	a := asset.Build(req.Recording, *prof, req.Overrides)
	relPath := naming.StagingPath(a.Category, a.Title, a.ExternalID, a.IntroSec, a.EOMSec, prof.Defaults.FileFormat, nil)
	remote := path.Join(prof.Delivery.RemotePath, relPath)

	sc := sidecar.Generate(*prof, path.Base(relPath), a)
	var sidecarRemote string
	if !sc.Empty() {
		sidecarRemote = path.Join(path.Dir(remote), sc.Name)
	}

	job, err := e.persist(ctx, queue.KindDelivery, prof.StationID, req.Recording.SourcePath, remote, sidecarRemote, sc.Body, a)
	if err != nil {
		return nil, err
	}

	e.logger.Info("delivery job enqueued",
		logging.Int64(logging.FieldJobID, job.ID),
		logging.String("station", prof.StationID),
		logging.String("remote_path", remote),
		logging.String("sidecar", sidecarRemote))
	return job, nil
}

// EnqueueMirror persists a pending storage job using the flat export
// filename. Mirror jobs carry no sidecar.
func (e *Engine) EnqueueMirror(ctx context.Context, req MirrorRequest) (*queue.Job, error) {
	prof, err := e.resolveProfile(ctx, req.StationID)
	if err != nil {
		return nil, err
	}
	if err := validateRecording(req.Recording); err != nil {
		return nil, err
	}

	a := asset.Build(req.Recording, *prof, req.Overrides)
	createdAt := req.Recording.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	remote := naming.ExportFilename(a.Category, req.Subcategory, req.Tags, a.Title, a.ExternalID, createdAt, prof.Defaults.FileFormat)

	job, err := e.persist(ctx, queue.KindStorage, prof.StationID, req.Recording.SourcePath, remote, "", "", a)
	if err != nil {
		return nil, err
	}

	e.logger.Info("storage job enqueued",
		logging.Int64(logging.FieldJobID, job.ID),
		logging.String("station", prof.StationID),
		logging.String("remote_path", remote))
	return job, nil
}

func (e *Engine) resolveProfile(ctx context.Context, stationID string) (*station.Profile, error) {
	id := strings.TrimSpace(stationID)
	if id == "" {
		id = strings.TrimSpace(e.cfg.Station.DefaultID)
	}
	if id == "" {
		return nil, services.Wrap(services.ErrValidation, "engine", "enqueue",
			"no station given and no default station configured", nil)
	}

	prof, err := e.profiles.Get(ctx, id)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "engine", "enqueue", "load station profile", err)
	}
	if prof == nil {
		return nil, services.Wrap(services.ErrConfiguration, "engine", "enqueue",
			fmt.Sprintf("station %s has no profile, run 'airstage profile init --station %s'", id, id), nil)
	}
	return prof, nil
}

func validateRecording(rec asset.Recording) error {
	if strings.TrimSpace(rec.ID) == "" {
		return services.Wrap(services.ErrValidation, "engine", "enqueue", "recording has no external id", nil)
	}
	if strings.TrimSpace(rec.SourcePath) == "" {
		return services.Wrap(services.ErrValidation, "engine", "enqueue", "recording has no source path", nil)
	}
	return nil
}

func (e *Engine) persist(ctx context.Context, kind queue.Kind, stationID, sourcePath, remote, sidecarName, sidecarBody string, a asset.Asset) (*queue.Job, error) {
	assetJSON, err := json.Marshal(a)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "engine", "enqueue", "encode asset payload", err)
	}

	job := &queue.Job{
		Kind:        kind,
		StationID:   stationID,
		SourcePath:  sourcePath,
		RemotePath:  remote,
		SidecarName: sidecarName,
		SidecarBody: sidecarBody,
		AssetJSON:   string(assetJSON),
	}
	if err := e.store.Enqueue(ctx, job); err != nil {
		return nil, services.Wrap(services.ErrIO, "engine", "enqueue", "persist job", err)
	}
	return job, nil
}
