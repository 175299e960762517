// Package img is the build-integration layer. It owns the backing file for
// a disk image: it decides whether a rebuild is needed, creates and
// pre-sizes the file, and commits the partition table into it exactly once.
package img

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"gptstamp/disk"
	"gptstamp/gpt"
)

// Spec describes one disk image to stamp.
type Spec struct {
	Name       string
	Size       uint64
	SectorSize uint64
	Parts      []gpt.Partition

	// GUIDs overrides the identifier source used at commit time. Nil means
	// random. Deterministic sources defeat the cache on identity, not on
	// content, so they are mostly useful in tests.
	GUIDs gpt.GUIDSource
}

// manifest is the cache key: everything that determines the stamped bytes
// apart from the randomly assigned GUIDs.
func (s Spec) manifest() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s %d %d\n", s.Name, s.Size, s.SectorSize)
	for _, p := range s.Parts {
		fmt.Fprintf(h, "%s %d %d %d %s\n", p.Name, p.Start, p.End, p.Attributes, p.Type)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Build stamps the image described by spec into <Name>.img under dir and
// returns its path. When a manifest from a previous build matches and the
// image file still exists, the rebuild is skipped. The manifest is written
// only after a fully successful commit, so an interrupted build is redone
// on the next run.
func Build(dir string, spec Spec) (string, error) {
	path := filepath.Join(dir, spec.Name+".img")
	manifestPath := path + ".manifest"
	m := spec.manifest()

	if prev, err := os.ReadFile(manifestPath); err == nil && string(prev) == m {
		if _, err := os.Stat(path); err == nil {
			logrus.WithField("image", path).Debug("image up to date, skipping")
			return path, nil
		}
	}

	d, err := disk.New(spec.Size, spec.SectorSize)
	if err != nil {
		return "", err
	}

	table := &gpt.Table{GUIDs: spec.GUIDs}
	for _, p := range spec.Parts {
		if _, err := table.Append(d, p); err != nil {
			return "", err
		}
	}

	// a stale manifest must not survive a partial write
	if err := os.Remove(manifestPath); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("removing stale manifest: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating image file: %w", err)
	}
	defer f.Close()

	if err := preallocate(f, int64(d.Size())); err != nil {
		return "", fmt.Errorf("pre-sizing image to %d bytes: %w", d.Size(), err)
	}

	entries, err := table.Commit(d, f)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(manifestPath, []byte(m), 0644); err != nil {
		return "", fmt.Errorf("writing manifest: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"image":      path,
		"sectors":    d.Sectors,
		"partitions": len(entries),
	}).Info("stamped partition table")
	return path, nil
}
