// Package fileutil provides the filesystem primitives backing the local
// delivery backend: atomic writes, streamed copies, and the existence checks
// used for post-write verification.
package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// CopyFile streams src to dst using io.Copy with default permissions (0o644).
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// WriteAtomic writes data to path via a temporary sibling file and rename, so
// the final path never holds a partially written file.
func WriteAtomic(path string, data []byte) error {
	return stageAndRename(path, func(tmp string) error {
		return os.WriteFile(tmp, data, 0o644)
	})
}

// CopyAtomic copies src to dst via a temporary sibling file and rename.
func CopyAtomic(src, dst string) error {
	return stageAndRename(dst, func(tmp string) error {
		return CopyFile(src, tmp)
	})
}

func stageAndRename(dst string, write func(tmp string) error) error {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	tmp := filepath.Join(dir, "."+filepath.Base(dst)+".part-"+uuid.NewString()[:8])
	if err := write(tmp); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("finalize %s: %w", dst, err)
	}
	return nil
}

// NonEmpty reports whether path exists as a regular file with nonzero size.
// A missing file is (false, nil); only unexpected stat failures return an
// error.
func NonEmpty(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular() && info.Size() > 0, nil
}
