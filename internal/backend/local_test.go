package backend_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"airstage/internal/backend"
	"airstage/internal/services"
	"airstage/internal/station"
	"airstage/internal/testsupport"
)

func TestLocalPutFromBytes(t *testing.T) {
	root := t.TempDir()
	b := backend.NewLocal(root)

	err := b.Put(context.Background(), "Links/intro.csv", backend.FromBytes([]byte("a,b\r\n")))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	body, err := os.ReadFile(filepath.Join(root, "Links", "intro.csv"))
	if err != nil || string(body) != "a,b\r\n" {
		t.Fatalf("read back: %q, %v", body, err)
	}
}

func TestLocalPutFromPath(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(t.TempDir(), "audio.wav")
	testsupport.WriteFile(t, src, []byte("RIFF"))

	b := backend.NewLocal(root)
	if err := b.Put(context.Background(), "drop/audio.wav", backend.FromPath(src)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	ok, err := b.Verify(context.Background(), "drop/audio.wav")
	if err != nil || !ok {
		t.Fatalf("Verify = (%v, %v), want (true, nil)", ok, err)
	}
}

func TestSourceValidation(t *testing.T) {
	b := backend.NewLocal(t.TempDir())
	ctx := context.Background()

	err := b.Put(ctx, "x", backend.Source{})
	if !errors.Is(err, services.ErrIO) {
		t.Fatalf("empty source: got %v, want ErrIO", err)
	}
	err = b.Put(ctx, "x", backend.Source{Path: "p", Bytes: []byte("b")})
	if !errors.Is(err, services.ErrIO) {
		t.Fatalf("double source: got %v, want ErrIO", err)
	}
}

func TestLocalRename(t *testing.T) {
	b := backend.NewLocal(t.TempDir())
	ctx := context.Background()

	if err := b.Put(ctx, "incoming/a.wav", backend.FromBytes([]byte("x"))); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := b.Rename(ctx, "incoming/a.wav", "done/a.wav"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}

	ok, err := b.Verify(ctx, "incoming/a.wav")
	if err != nil || ok {
		t.Fatalf("old path should be gone: (%v, %v)", ok, err)
	}
	ok, err = b.Verify(ctx, "done/a.wav")
	if err != nil || !ok {
		t.Fatalf("new path should verify: (%v, %v)", ok, err)
	}
}

func TestVerifyMissingIsCleanFalse(t *testing.T) {
	b := backend.NewLocal(t.TempDir())
	ok, err := b.Verify(context.Background(), "never/was.wav")
	if err != nil || ok {
		t.Fatalf("missing payload: (%v, %v), want (false, nil)", ok, err)
	}
}

func TestResolveFallsBackToLocal(t *testing.T) {
	root := t.TempDir()
	b, err := backend.Resolve(station.DeliveryConfig{Method: station.MethodDropbox},
		backend.Options{LocalRoot: root})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	local, ok := b.(*backend.Local)
	if !ok {
		t.Fatalf("expected local fallback, got %T", b)
	}
	if local.Root() != root {
		t.Fatalf("fallback rooted at %q, want %q", local.Root(), root)
	}
}

func TestResolveLocalMethod(t *testing.T) {
	b, err := backend.Resolve(station.DeliveryConfig{Method: station.MethodLocal},
		backend.Options{LocalRoot: t.TempDir()})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if _, ok := b.(*backend.Local); !ok {
		t.Fatalf("expected local backend, got %T", b)
	}
}
