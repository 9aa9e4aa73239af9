package engine_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"airstage/internal/asset"
	"airstage/internal/config"
	"airstage/internal/engine"
	"airstage/internal/queue"
	"airstage/internal/services"
	"airstage/internal/station"
	"airstage/internal/testsupport"
)

type fixture struct {
	cfg      *config.Config
	store    *queue.Store
	profiles *station.Store
	engine   *engine.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithStation("kxrn"))
	store := testsupport.MustOpenStore(t, cfg)
	profiles := testsupport.MustOpenProfileStore(t, cfg)
	return &fixture{
		cfg:      cfg,
		store:    store,
		profiles: profiles,
		engine:   engine.New(cfg, store, profiles, nil),
	}
}

func (f *fixture) seedProfile(t *testing.T, mutate func(*station.Profile)) {
	t.Helper()
	prof := station.NewProfile("kxrn")
	if mutate != nil {
		mutate(&prof)
	}
	if err := f.profiles.Save(context.Background(), &prof); err != nil {
		t.Fatalf("save profile: %v", err)
	}
}

func (f *fixture) recording(t *testing.T) asset.Recording {
	t.Helper()
	src := filepath.Join(testsupport.BaseDir(f.cfg), "source", "rec-123.wav")
	testsupport.WriteFile(t, src, []byte("RIFF fake audio"))
	trim := 2.0
	return asset.Recording{
		ID:          "rec-123",
		StationID:   "kxrn",
		SourcePath:  src,
		Title:       "Morning Show Intro",
		Artist:      "The Breakfast Crew",
		Category:    "links",
		TrimHeadSec: &trim,
	}
}

func TestEnqueueDeliveryBuildsJob(t *testing.T) {
	f := newFixture(t)
	f.seedProfile(t, func(p *station.Profile) {
		p.Vendor = station.VendorMyriad
		p.Sidecar = station.SidecarConfig{Type: station.SidecarCSV}
		p.CategoryAliases = map[string]string{"links": "Links"}
	})

	job, err := f.engine.EnqueueDelivery(context.Background(), engine.DeliveryRequest{
		Recording: f.recording(t),
	})
	if err != nil {
		t.Fatalf("EnqueueDelivery failed: %v", err)
	}

	if job.Kind != queue.KindDelivery || job.Status != queue.StatusPending {
		t.Fatalf("unexpected job state: %+v", job)
	}
	want := "import/Links/Morning-Show-Intro__rec-123__{intro=2.0,eom=0.5}.wav"
	if job.RemotePath != want {
		t.Fatalf("remote path = %q, want %q", job.RemotePath, want)
	}
	if !strings.HasSuffix(job.SidecarName, ".csv") {
		t.Fatalf("expected csv sidecar, got %q", job.SidecarName)
	}
	if !strings.Contains(job.SidecarBody, `"rec-123"`) {
		t.Fatalf("sidecar body missing external id: %q", job.SidecarBody)
	}

	var a asset.Asset
	if err := json.Unmarshal([]byte(job.AssetJSON), &a); err != nil {
		t.Fatalf("asset payload does not round-trip: %v", err)
	}
	if a.ExternalID != "rec-123" || a.Category != "Links" {
		t.Fatalf("unexpected asset payload: %+v", a)
	}
}

func TestEnqueueMirrorUsesExportFilename(t *testing.T) {
	f := newFixture(t)
	f.seedProfile(t, nil)

	job, err := f.engine.EnqueueMirror(context.Background(), engine.MirrorRequest{
		Recording:   f.recording(t),
		Subcategory: "weekday",
		Tags:        []string{"am", "live"},
	})
	if err != nil {
		t.Fatalf("EnqueueMirror failed: %v", err)
	}
	if job.Kind != queue.KindStorage {
		t.Fatalf("kind = %s, want storage", job.Kind)
	}
	if job.SidecarName != "" || job.SidecarBody != "" {
		t.Fatal("mirror jobs must not carry sidecars")
	}
	if !strings.HasPrefix(job.RemotePath, "links-weekday__Morning-Show-Intro__am,live__rec-123__") {
		t.Fatalf("unexpected export filename: %q", job.RemotePath)
	}
}

func TestEnqueueRejections(t *testing.T) {
	f := newFixture(t)

	// No profile saved yet.
	_, err := f.engine.EnqueueDelivery(context.Background(), engine.DeliveryRequest{
		Recording: f.recording(t),
	})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("missing profile: got %v, want ErrConfiguration", err)
	}

	f.seedProfile(t, func(p *station.Profile) {
		p.Delivery.RemotePath = ""
	})
	_, err = f.engine.EnqueueDelivery(context.Background(), engine.DeliveryRequest{
		Recording: f.recording(t),
	})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("empty remote path: got %v, want ErrConfiguration", err)
	}

	f.seedProfile(t, nil)
	rec := f.recording(t)
	rec.ID = ""
	_, err = f.engine.EnqueueDelivery(context.Background(), engine.DeliveryRequest{Recording: rec})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("missing external id: got %v, want ErrValidation", err)
	}

	jobs, listErr := f.store.List(context.Background(), queue.KindDelivery)
	if listErr != nil {
		t.Fatalf("List failed: %v", listErr)
	}
	if len(jobs) != 0 {
		t.Fatalf("rejected requests must not create jobs, found %d", len(jobs))
	}
}

func TestPumpDeliversAudioAndSidecar(t *testing.T) {
	f := newFixture(t)
	f.seedProfile(t, func(p *station.Profile) {
		p.Vendor = station.VendorMyriad
		p.Sidecar = station.SidecarConfig{Type: station.SidecarCSV}
		p.CategoryAliases = map[string]string{"links": "Links"}
	})

	ctx := context.Background()
	job, err := f.engine.EnqueueDelivery(ctx, engine.DeliveryRequest{Recording: f.recording(t)})
	if err != nil {
		t.Fatalf("EnqueueDelivery failed: %v", err)
	}

	summary, err := f.engine.Pump(ctx, queue.KindDelivery)
	if err != nil {
		t.Fatalf("Pump failed: %v", err)
	}
	if summary.Processed != 1 || summary.Completed != 1 || summary.Failed != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	loaded, err := f.store.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if loaded.Status != queue.StatusComplete || loaded.Progress != 1 {
		t.Fatalf("job not complete: %s %.2f", loaded.Status, loaded.Progress)
	}
	if loaded.StartedAt == nil || loaded.FinishedAt == nil {
		t.Fatal("expected started/finished timestamps")
	}

	audio := filepath.Join(f.cfg.Paths.StagingDir, filepath.FromSlash(job.RemotePath))
	if _, err := os.Stat(audio); err != nil {
		t.Fatalf("audio payload missing: %v", err)
	}
	sidecarPath := filepath.Join(f.cfg.Paths.StagingDir, filepath.FromSlash(job.SidecarName))
	body, err := os.ReadFile(sidecarPath)
	if err != nil {
		t.Fatalf("sidecar missing: %v", err)
	}
	if !strings.Contains(string(body), `"rec-123"`) {
		t.Fatalf("sidecar content wrong: %q", body)
	}
}

func TestPumpIsolatesFailures(t *testing.T) {
	f := newFixture(t)
	f.seedProfile(t, nil)
	ctx := context.Background()

	broken, err := f.engine.EnqueueDelivery(ctx, engine.DeliveryRequest{Recording: f.recording(t)})
	if err != nil {
		t.Fatalf("EnqueueDelivery failed: %v", err)
	}
	// Pull the source out from under the first job after it was accepted.
	if err := os.Remove(broken.SourcePath); err != nil {
		t.Fatalf("remove source: %v", err)
	}

	rec := f.recording(t)
	rec.ID = "rec-456"
	healthy, err := f.engine.EnqueueDelivery(ctx, engine.DeliveryRequest{Recording: rec})
	if err != nil {
		t.Fatalf("EnqueueDelivery failed: %v", err)
	}

	summary, err := f.engine.Pump(ctx, queue.KindDelivery)
	if err != nil {
		t.Fatalf("Pump failed: %v", err)
	}
	if summary.Failed != 1 || summary.Completed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	failed, _ := f.store.GetByID(ctx, broken.ID)
	if failed.Status != queue.StatusFailed || failed.ErrorMessage == "" {
		t.Fatalf("broken job state: %s %q", failed.Status, failed.ErrorMessage)
	}
	done, _ := f.store.GetByID(ctx, healthy.ID)
	if done.Status != queue.StatusComplete {
		t.Fatalf("healthy job state: %s", done.Status)
	}
}

func TestPumpSkipsPausedAndTerminalJobs(t *testing.T) {
	f := newFixture(t)
	f.seedProfile(t, nil)
	ctx := context.Background()

	active, err := f.engine.EnqueueMirror(ctx, engine.MirrorRequest{Recording: f.recording(t)})
	if err != nil {
		t.Fatalf("EnqueueMirror failed: %v", err)
	}
	rec := f.recording(t)
	rec.ID = "rec-456"
	held, err := f.engine.EnqueueMirror(ctx, engine.MirrorRequest{Recording: rec})
	if err != nil {
		t.Fatalf("EnqueueMirror failed: %v", err)
	}
	if _, err := f.store.Pause(ctx, held.ID); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}

	summary, err := f.engine.Pump(ctx, queue.KindStorage)
	if err != nil {
		t.Fatalf("Pump failed: %v", err)
	}
	if summary.Processed != 1 || summary.Skipped != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	loaded, _ := f.store.GetByID(ctx, held.ID)
	if loaded.Status != queue.StatusPaused {
		t.Fatalf("paused job was touched: %s", loaded.Status)
	}
	done, _ := f.store.GetByID(ctx, active.ID)
	if done.Status != queue.StatusComplete {
		t.Fatalf("active job state: %s", done.Status)
	}
	if _, err := os.Stat(filepath.Join(f.cfg.Paths.ExportDir, filepath.FromSlash(done.RemotePath))); err != nil {
		t.Fatalf("export payload missing: %v", err)
	}
}

func TestPumpLeavesInterruptedJobsAlone(t *testing.T) {
	f := newFixture(t)
	f.seedProfile(t, nil)
	ctx := context.Background()

	job, err := f.engine.EnqueueDelivery(ctx, engine.DeliveryRequest{Recording: f.recording(t)})
	if err != nil {
		t.Fatalf("EnqueueDelivery failed: %v", err)
	}
	// Simulate a run killed mid-transfer.
	job.Status = queue.StatusUploading
	job.Progress = 0.4
	if err := f.store.Update(ctx, job); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	summary, err := f.engine.Pump(ctx, queue.KindDelivery)
	if err != nil {
		t.Fatalf("Pump failed: %v", err)
	}
	if summary.Processed != 0 || summary.Skipped != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	stuck, _ := f.store.GetByID(ctx, job.ID)
	if stuck.Status != queue.StatusUploading || stuck.Progress != 0.4 {
		t.Fatalf("interrupted job was touched: %s %.2f", stuck.Status, stuck.Progress)
	}

	// Recovery happens only on an explicit reset.
	reset, err := f.store.ResetStranded(ctx, queue.KindDelivery)
	if err != nil || reset != 1 {
		t.Fatalf("ResetStranded = (%d, %v), want (1, nil)", reset, err)
	}
	if summary, err = f.engine.Pump(ctx, queue.KindDelivery); err != nil || summary.Completed != 1 {
		t.Fatalf("pump after reset: %+v, %v", summary, err)
	}
}

func TestRetryThenPumpRecovers(t *testing.T) {
	f := newFixture(t)
	f.seedProfile(t, nil)
	ctx := context.Background()

	job, err := f.engine.EnqueueDelivery(ctx, engine.DeliveryRequest{Recording: f.recording(t)})
	if err != nil {
		t.Fatalf("EnqueueDelivery failed: %v", err)
	}
	source := job.SourcePath
	if err := os.Rename(source, source+".hidden"); err != nil {
		t.Fatalf("hide source: %v", err)
	}

	if _, err := f.engine.Pump(ctx, queue.KindDelivery); err != nil {
		t.Fatalf("Pump failed: %v", err)
	}
	failed, _ := f.store.GetByID(ctx, job.ID)
	if failed.Status != queue.StatusFailed {
		t.Fatalf("expected failure, got %s", failed.Status)
	}

	if err := os.Rename(source+".hidden", source); err != nil {
		t.Fatalf("restore source: %v", err)
	}
	if _, err := f.store.Retry(ctx, job.ID); err != nil {
		t.Fatalf("Retry failed: %v", err)
	}
	summary, err := f.engine.Pump(ctx, queue.KindDelivery)
	if err != nil {
		t.Fatalf("Pump failed: %v", err)
	}
	if summary.Completed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	recovered, _ := f.store.GetByID(ctx, job.ID)
	if recovered.Status != queue.StatusComplete || recovered.RetryCount != 1 {
		t.Fatalf("recovered job state: %s retries=%d", recovered.Status, recovered.RetryCount)
	}
}
