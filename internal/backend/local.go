package backend

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"airstage/internal/fileutil"
	"airstage/internal/services"
)

// Local writes payloads under a root directory on the local filesystem. It is
// both the "local" delivery method and the staging fallback for methods that
// have no transfer implementation yet.
type Local struct {
	root string
}

// NewLocal returns a backend rooted at dir.
func NewLocal(dir string) *Local {
	return &Local{root: dir}
}

// Root exposes the backing directory, mostly for log output.
func (l *Local) Root() string {
	return l.root
}

func (l *Local) resolve(path string) string {
	return filepath.Join(l.root, filepath.FromSlash(path))
}

// Put stages the payload into a temp file and renames it into place so a
// watcher on the destination never observes a partial file.
func (l *Local) Put(ctx context.Context, destPath string, src Source) error {
	if err := src.validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return services.Wrap(services.ErrIO, "backend", "put", "canceled", err)
	}

	dst := l.resolve(destPath)
	var err error
	if src.Path != "" {
		err = fileutil.CopyAtomic(src.Path, dst)
	} else {
		err = fileutil.WriteAtomic(dst, src.Bytes)
	}
	if err != nil {
		return services.Wrap(services.ErrIO, "backend", "put", fmt.Sprintf("write %s", destPath), err)
	}
	return nil
}

// Rename moves a payload within the root. A cross-device rename falls back to
// copy and remove.
func (l *Local) Rename(ctx context.Context, fromPath, toPath string) error {
	if err := ctx.Err(); err != nil {
		return services.Wrap(services.ErrIO, "backend", "rename", "canceled", err)
	}

	from := l.resolve(fromPath)
	to := l.resolve(toPath)
	if err := os.MkdirAll(filepath.Dir(to), 0o755); err != nil {
		return services.Wrap(services.ErrIO, "backend", "rename", fmt.Sprintf("prepare %s", toPath), err)
	}
	if err := os.Rename(from, to); err != nil {
		if !errors.Is(err, syscall.EXDEV) {
			return services.Wrap(services.ErrIO, "backend", "rename", fmt.Sprintf("move %s to %s", fromPath, toPath), err)
		}
		if copyErr := fileutil.CopyAtomic(from, to); copyErr != nil {
			return services.Wrap(services.ErrIO, "backend", "rename", fmt.Sprintf("copy %s to %s", fromPath, toPath), copyErr)
		}
		if rmErr := os.Remove(from); rmErr != nil {
			return services.Wrap(services.ErrIO, "backend", "rename", fmt.Sprintf("remove %s", fromPath), rmErr)
		}
	}
	return nil
}

// Verify reports whether the payload landed with nonzero size.
func (l *Local) Verify(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, services.Wrap(services.ErrIO, "backend", "verify", "canceled", err)
	}

	ok, err := fileutil.NonEmpty(l.resolve(path))
	if err != nil {
		return false, services.Wrap(services.ErrIO, "backend", "verify", fmt.Sprintf("stat %s", path), err)
	}
	return ok, nil
}
