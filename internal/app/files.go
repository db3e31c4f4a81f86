// Package app contains the top-level orchestration for the encode, decode,
// remove and print commands. It is the only layer that touches the file
// system; the chunk codec works on byte slices.
package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/1ureka/pngme/internal/png"
	"github.com/1ureka/pngme/internal/util"
)

// load reads and parses the container at path.
func load(path string) (*png.Png, error) {
	p, err := png.FromPath(path)
	if err != nil {
		return nil, err
	}
	util.LogDebug("parsed %s: %d chunks", path, len(p.Chunks()))
	return p, nil
}

// store replaces the contents of path with p. The data goes to a temporary
// file in the same directory which is then renamed over path, so a failed
// write leaves the original intact. An existing file keeps its mode.
func store(path string, p *png.Png) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once renamed

	data := p.Bytes()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}
	util.LogDebug("wrote %d bytes to %s", len(data), path)
	return nil
}

// storeNew writes p to a file that must not exist yet, unless force is set.
func storeNew(path string, p *png.Png, force bool) error {
	if force {
		return store(path, p)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("output file %s already exists (use --force to overwrite): %w", path, err)
		}
		return err
	}
	data := p.Bytes()
	if _, err := file.Write(data); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	util.LogDebug("wrote %d bytes to new file %s", len(data), path)
	return nil
}
