// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attach

import (
	"os"
	"path/filepath"
	"sync"
)

// =============================================================================
// OWNED IMAGE TEMP FILE
// =============================================================================

// ImageRef is an owned temporary file holding the single image
// forwarded to the agent for one turn. Its lifetime is scoped to the
// agent invocation: Cleanup must run after the response stream is
// fully drained, on success and on error paths alike.
type ImageRef struct {
	// Path is the temp file location on disk.
	Path string

	// Name is the original upload filename.
	Name string

	once sync.Once
	err  error
}

// persistImage writes the upload to an owned temp file, preserving the
// extension so downstream consumers can infer the media type.
func persistImage(u Upload) (*ImageRef, error) {
	f, err := os.CreateTemp("", "rugrat-image-*"+filepath.Ext(u.Name))
	if err != nil {
		return nil, err
	}
	if _, err := f.Write(u.Data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, err
	}
	return &ImageRef{Path: f.Name(), Name: u.Name}, nil
}

// Cleanup deletes the temp file. Safe to call more than once; only the
// first call touches the filesystem.
func (r *ImageRef) Cleanup() error {
	if r == nil {
		return nil
	}
	r.once.Do(func() {
		r.err = os.Remove(r.Path)
	})
	return r.err
}
