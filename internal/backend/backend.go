package backend

import (
	"context"

	"airstage/internal/services"
)

// Backend delivers payloads to a destination. Implementations address paths
// relative to their own root (a staging directory, a bucket prefix).
type Backend interface {
	// Put writes the source payload to destPath, creating parents as needed.
	Put(ctx context.Context, destPath string, src Source) error
	// Rename moves a previously written payload to a new path.
	Rename(ctx context.Context, fromPath, toPath string) error
	// Verify reports whether a payload exists at path with nonzero size.
	// A clean "not there" is (false, nil); errors mean the check itself failed.
	Verify(ctx context.Context, path string) (bool, error)
}

// Source carries the payload for a Put. Exactly one of Path or Bytes must be
// set: Path streams a local file, Bytes writes an in-memory document.
type Source struct {
	Path  string
	Bytes []byte
}

// FromPath builds a Source backed by a local file.
func FromPath(path string) Source {
	return Source{Path: path}
}

// FromBytes builds a Source backed by an in-memory payload.
func FromBytes(body []byte) Source {
	return Source{Bytes: body}
}

func (s Source) validate() error {
	if s.Path == "" && s.Bytes == nil {
		return services.Wrap(services.ErrIO, "backend", "put", "source has neither path nor bytes", nil)
	}
	if s.Path != "" && s.Bytes != nil {
		return services.Wrap(services.ErrIO, "backend", "put", "source has both path and bytes", nil)
	}
	return nil
}
