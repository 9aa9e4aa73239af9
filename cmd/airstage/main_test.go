package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"airstage/internal/config"
	"airstage/internal/queue"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	stagingDir string
	exportDir  string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "airstage.toml"),
		stagingDir: filepath.Join(base, "staging"),
		exportDir:  filepath.Join(base, "export"),
	}

	content := fmt.Sprintf(`[paths]
data_dir = %q
staging_dir = %q
export_dir = %q
log_dir = %q

[station]
default_id = "kxrn"

[logging]
format = "console"
level = "error"
`,
		filepath.Join(base, "data"),
		env.stagingDir,
		env.exportDir,
		filepath.Join(base, "logs"),
	)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (e *cliTestEnv) writeSource(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(e.baseDir, "source", name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir source: %v", err)
	}
	if err := os.WriteFile(path, []byte("RIFF fake audio"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func TestCLIQueueStatusEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "queue", "status")
	if err != nil {
		t.Fatalf("queue status: %v", err)
	}
	if !strings.Contains(out, "delivery") || !strings.Contains(out, "storage") {
		t.Fatalf("unexpected status output: %q", out)
	}
}

func TestCLIDeliverPumpFlow(t *testing.T) {
	env := setupCLITestEnv(t)
	source := env.writeSource(t, "rec-123.wav")

	out, _, err := runCLI(t, env, "profile", "init")
	if err != nil {
		t.Fatalf("profile init: %v", err)
	}
	if !strings.Contains(out, "kxrn") {
		t.Fatalf("unexpected profile init output: %q", out)
	}

	out, _, err = runCLI(t, env,
		"profile", "set",
		"--vendor", "myriad",
		"--sidecar", "csv",
		"--remote-path", "import")
	if err != nil {
		t.Fatalf("profile set: %v", err)
	}
	if !strings.Contains(out, "Updated profile") {
		t.Fatalf("unexpected profile set output: %q", out)
	}

	out, _, err = runCLI(t, env, "profile", "alias", "links", "Links")
	if err != nil {
		t.Fatalf("profile alias: %v", err)
	}

	out, _, err = runCLI(t, env,
		"deliver", source,
		"--id", "rec-123",
		"--title", "Morning Show Intro",
		"--artist", "The Breakfast Crew",
		"--category", "links",
		"--trim-head", "2.0")
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if !strings.Contains(out, "Queued delivery job 1") {
		t.Fatalf("unexpected deliver output: %q", out)
	}
	if !strings.Contains(out, "import/Links/Morning-Show-Intro__rec-123__{intro=2.0,eom=0.5}.wav") {
		t.Fatalf("deliver destination wrong: %q", out)
	}

	out, _, err = runCLI(t, env, "queue", "list")
	if err != nil {
		t.Fatalf("queue list: %v", err)
	}
	if !strings.Contains(out, "pending") || !strings.Contains(out, "rec-123") {
		t.Fatalf("unexpected queue list output: %q", out)
	}

	out, _, err = runCLI(t, env, "pump", "--queue", "delivery")
	if err != nil {
		t.Fatalf("pump: %v", err)
	}
	if !strings.Contains(out, "completed 1") {
		t.Fatalf("unexpected pump output: %q", out)
	}

	audio := filepath.Join(env.stagingDir, "import", "Links",
		"Morning-Show-Intro__rec-123__{intro=2.0,eom=0.5}.wav")
	if _, err := os.Stat(audio); err != nil {
		t.Fatalf("delivered audio missing: %v", err)
	}
	sidecar := filepath.Join(env.stagingDir, "import", "Links",
		"Morning-Show-Intro__rec-123__{intro=2.0,eom=0.5}.csv")
	if _, err := os.Stat(sidecar); err != nil {
		t.Fatalf("delivered sidecar missing: %v", err)
	}

	out, _, err = runCLI(t, env, "queue", "clear", "--queue", "delivery")
	if err != nil {
		t.Fatalf("queue clear: %v", err)
	}
	if !strings.Contains(out, "Cleared 1") {
		t.Fatalf("unexpected clear output: %q", out)
	}

	out, _, err = runCLI(t, env, "queue", "list")
	if err != nil {
		t.Fatalf("queue list after clear: %v", err)
	}
	if !strings.Contains(out, "Queue is empty") {
		t.Fatalf("expected empty queue, got %q", out)
	}
}

func TestCLIMirrorPauseResume(t *testing.T) {
	env := setupCLITestEnv(t)
	source := env.writeSource(t, "rec-456.wav")

	if _, _, err := runCLI(t, env, "profile", "init"); err != nil {
		t.Fatalf("profile init: %v", err)
	}

	out, _, err := runCLI(t, env,
		"mirror", source,
		"--id", "rec-456",
		"--title", "Evening Wrap",
		"--tag", "pm", "--tag", "live")
	if err != nil {
		t.Fatalf("mirror: %v", err)
	}
	if !strings.Contains(out, "Queued storage job 1") {
		t.Fatalf("unexpected mirror output: %q", out)
	}

	if _, _, err := runCLI(t, env, "queue", "pause", "1"); err != nil {
		t.Fatalf("queue pause: %v", err)
	}

	out, _, err = runCLI(t, env, "pump", "--queue", "storage")
	if err != nil {
		t.Fatalf("pump: %v", err)
	}
	if !strings.Contains(out, "skipped 1") {
		t.Fatalf("paused job should be skipped: %q", out)
	}

	if _, _, err := runCLI(t, env, "queue", "resume", "1"); err != nil {
		t.Fatalf("queue resume: %v", err)
	}
	out, _, err = runCLI(t, env, "pump", "--queue", "storage")
	if err != nil {
		t.Fatalf("pump after resume: %v", err)
	}
	if !strings.Contains(out, "completed 1") {
		t.Fatalf("unexpected pump output: %q", out)
	}

	entries, err := os.ReadDir(env.exportDir)
	if err != nil {
		t.Fatalf("read export dir: %v", err)
	}
	if len(entries) != 1 || !strings.HasPrefix(entries[0].Name(), "Other__Evening-Wrap__pm,live__rec-456__") {
		t.Fatalf("unexpected export contents: %v", entries)
	}
}

func TestCLIRetryPumpsQueue(t *testing.T) {
	env := setupCLITestEnv(t)
	source := env.writeSource(t, "rec-123.wav")

	if _, _, err := runCLI(t, env, "profile", "init"); err != nil {
		t.Fatalf("profile init: %v", err)
	}
	if _, _, err := runCLI(t, env,
		"deliver", source,
		"--id", "rec-123",
		"--title", "Morning Show Intro"); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	// Break the job, then repair it before retrying.
	if err := os.Rename(source, source+".hidden"); err != nil {
		t.Fatalf("hide source: %v", err)
	}
	out, _, err := runCLI(t, env, "pump", "--queue", "delivery")
	if err != nil {
		t.Fatalf("pump: %v", err)
	}
	if !strings.Contains(out, "failed 1") {
		t.Fatalf("expected failure, got %q", out)
	}
	if err := os.Rename(source+".hidden", source); err != nil {
		t.Fatalf("restore source: %v", err)
	}

	out, _, err = runCLI(t, env, "queue", "retry", "1")
	if err != nil {
		t.Fatalf("queue retry: %v", err)
	}
	if !strings.Contains(out, "pending again (retry 1)") {
		t.Fatalf("unexpected retry output: %q", out)
	}
	if !strings.Contains(out, "completed 1") {
		t.Fatalf("retry must pump the queue itself: %q", out)
	}

	out, _, err = runCLI(t, env, "queue", "list", "--status", "complete")
	if err != nil {
		t.Fatalf("queue list: %v", err)
	}
	if !strings.Contains(out, "rec-123") {
		t.Fatalf("retried job not complete: %q", out)
	}
}

func TestCLIQueueResetRecoversInterruptedJobs(t *testing.T) {
	env := setupCLITestEnv(t)
	source := env.writeSource(t, "rec-456.wav")

	if _, _, err := runCLI(t, env, "profile", "init"); err != nil {
		t.Fatalf("profile init: %v", err)
	}
	if _, _, err := runCLI(t, env,
		"mirror", source,
		"--id", "rec-456",
		"--title", "Evening Wrap"); err != nil {
		t.Fatalf("mirror: %v", err)
	}

	// Strand the job mid-transfer, as a killed run would.
	env.strandJob(t, 1)

	out, _, err := runCLI(t, env, "pump", "--queue", "storage")
	if err != nil {
		t.Fatalf("pump: %v", err)
	}
	if !strings.Contains(out, "skipped 1") || !strings.Contains(out, "processed 0") {
		t.Fatalf("interrupted job must stay put: %q", out)
	}
	out, _, err = runCLI(t, env, "queue", "list", "--queue", "storage")
	if err != nil {
		t.Fatalf("queue list: %v", err)
	}
	if !strings.Contains(out, "uploading") {
		t.Fatalf("expected job still at uploading: %q", out)
	}

	out, _, err = runCLI(t, env, "queue", "reset", "--queue", "storage")
	if err != nil {
		t.Fatalf("queue reset: %v", err)
	}
	if !strings.Contains(out, "Reset 1 interrupted jobs") {
		t.Fatalf("unexpected reset output: %q", out)
	}

	out, _, err = runCLI(t, env, "pump", "--queue", "storage")
	if err != nil {
		t.Fatalf("pump after reset: %v", err)
	}
	if !strings.Contains(out, "completed 1") {
		t.Fatalf("unexpected pump output: %q", out)
	}
}

// strandJob rewrites a job's status to uploading directly in the store,
// simulating a run that died mid-transfer.
func (e *cliTestEnv) strandJob(t *testing.T, id int64) {
	t.Helper()
	cfg, _, _, err := config.Load(e.configPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	job, err := store.GetByID(ctx, id)
	if err != nil || job == nil {
		t.Fatalf("load job %d: %v", id, err)
	}
	job.Status = queue.StatusUploading
	job.Progress = 0.4
	if err := store.Update(ctx, job); err != nil {
		t.Fatalf("strand job: %v", err)
	}
}

func TestCLIProfileShow(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, env, "profile", "init"); err != nil {
		t.Fatalf("profile init: %v", err)
	}
	out, _, err := runCLI(t, env, "profile", "show")
	if err != nil {
		t.Fatalf("profile show: %v", err)
	}
	if !strings.Contains(out, "generic") || !strings.Contains(out, "local") {
		t.Fatalf("unexpected profile show output: %q", out)
	}

	if _, _, err := runCLI(t, env, "profile", "set", "--vendor", "winamp"); err == nil {
		t.Fatal("unknown vendor must fail")
	}
}

func TestCLIConfigInit(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(env.baseDir, "fresh", "config.toml")

	out, _, err := runCLI(t, env, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, "Wrote sample configuration") {
		t.Fatalf("unexpected config init output: %q", out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config missing: %v", err)
	}

	if _, _, err := runCLI(t, env, "config", "init", "--path", target); err == nil {
		t.Fatal("second init must refuse to overwrite")
	}
}
