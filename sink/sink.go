// Package sink writes generated units to a filesystem.
//
// All paths are relative to the root of the afero.Fs the sink wraps; the
// command line wraps the output directory in an afero.BasePathFs, tests use
// an in-memory filesystem.
package sink

import (
	"bytes"
	"context"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/logger"
	"github.com/teranos/bindgen/unit"
	"github.com/teranos/bindgen/version"
)

// DefaultUmbrella is the file name of the include-everything header.
const DefaultUmbrella = "GeneratedBinding.hpp"

// Layout places a run's output inside the sink's filesystem.
type Layout struct {
	// BindingDir holds one header per unit.
	BindingDir string
	// Umbrella is the include-everything header, next to BindingDir.
	Umbrella string
}

// Result lists what a write pass did, by path.
type Result struct {
	Written   []string
	Unchanged []string
	Pruned    []string
}

// Sink writes files atomically and skips files whose content is unchanged.
type Sink struct {
	Fs     afero.Fs
	Logger *zap.SugaredLogger
}

// New returns a sink over fs.
func New(fs afero.Fs, log *zap.SugaredLogger) *Sink {
	if log == nil {
		log = logger.ComponentLogger("sink")
	}
	return &Sink{Fs: fs, Logger: log}
}

// ValidatePath rejects absolute paths, unclean paths and paths that escape
// the sink root.
func ValidatePath(p string) error {
	if p == "" {
		return errors.New("empty path")
	}
	if filepath.IsAbs(p) || strings.HasPrefix(p, "/") {
		return errors.Newf("path %q must be relative", p)
	}
	slashed := filepath.ToSlash(p)
	if path.Clean(slashed) != slashed {
		return errors.Newf("path %q is not clean", p)
	}
	if slashed == ".." || strings.HasPrefix(slashed, "../") {
		return errors.Newf("path %q escapes the output directory", p)
	}
	return nil
}

// WriteFile writes content to p. It reports whether the file changed.
func (s *Sink) WriteFile(ctx context.Context, p, content string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := ValidatePath(p); err != nil {
		return false, err
	}

	existing, err := afero.ReadFile(s.Fs, p)
	if err == nil && bytes.Equal(existing, []byte(content)) {
		return false, nil
	}

	dir := filepath.Dir(p)
	if err := s.Fs.MkdirAll(dir, 0755); err != nil {
		return false, errors.Wrapf(err, "failed to create %s", dir)
	}

	tmp, err := afero.TempFile(s.Fs, dir, ".bindgen-*")
	if err != nil {
		return false, errors.Wrapf(err, "failed to create temp file for %s", p)
	}
	tmpName := filepath.Join(dir, filepath.Base(tmp.Name()))

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		_ = s.Fs.Remove(tmpName)
		return false, errors.Wrapf(err, "failed to write %s", p)
	}
	if err := tmp.Close(); err != nil {
		_ = s.Fs.Remove(tmpName)
		return false, errors.Wrapf(err, "failed to close %s", p)
	}
	if err := s.Fs.Rename(tmpName, p); err != nil {
		_ = s.Fs.Remove(tmpName)
		return false, errors.Wrapf(err, "failed to move %s into place", p)
	}
	return true, nil
}

// Prune removes headers in dir that are not in keep. It returns the
// removed paths.
func (s *Sink) Prune(ctx context.Context, dir string, keep map[string]struct{}) ([]string, error) {
	if err := ValidatePath(dir); err != nil {
		return nil, err
	}
	entries, err := afero.ReadDir(s.Fs, dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", dir)
	}

	var pruned []string
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return pruned, err
		}
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".hpp" {
			continue
		}
		if _, ok := keep[name]; ok {
			continue
		}
		p := filepath.Join(dir, name)
		if err := s.Fs.Remove(p); err != nil {
			return pruned, errors.Wrapf(err, "failed to remove stale header %s", p)
		}
		s.Logger.Infow("pruned stale header", logger.FieldPath, p)
		pruned = append(pruned, p)
	}
	sort.Strings(pruned)
	return pruned, nil
}

// UmbrellaContent is the include-everything header for out.
func UmbrellaContent(out *unit.Output) string {
	return "#pragma once\n// Source version: " + version.Get().Version + "\n\n" + out.Umbrella
}

// WriteOutput writes every unit of out and the umbrella header.
func (s *Sink) WriteOutput(ctx context.Context, out *unit.Output, layout Layout) (*Result, error) {
	if layout.Umbrella == "" {
		layout.Umbrella = DefaultUmbrella
	}
	result := &Result{}

	record := func(p string, changed bool) {
		if changed {
			result.Written = append(result.Written, p)
			s.Logger.Debugw("wrote header", logger.FieldPath, p)
		} else {
			result.Unchanged = append(result.Unchanged, p)
		}
	}

	for _, u := range out.Units {
		p := filepath.Join(layout.BindingDir, u.File)
		changed, err := s.WriteFile(ctx, p, u.Content)
		if err != nil {
			return result, errors.Wrapf(err, "failed to write unit %s", u.File)
		}
		record(p, changed)
	}

	changed, err := s.WriteFile(ctx, layout.Umbrella, UmbrellaContent(out))
	if err != nil {
		return result, errors.Wrap(err, "failed to write umbrella header")
	}
	record(layout.Umbrella, changed)

	s.Logger.Infow("wrote output",
		"written", len(result.Written),
		"unchanged", len(result.Unchanged))
	return result, nil
}
