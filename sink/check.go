package sink

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/teranos/bindgen/errors"
)

// CheckResult holds the result of comparing freshly generated headers with
// the headers on disk.
type CheckResult struct {
	UpToDate bool
	// Changed files exist in both trees with different content
	Changed []string
	// Missing files were generated but do not exist yet
	Missing []string
	// Stale headers exist but would no longer be generated
	Stale []string
}

// Err returns nil when up to date, otherwise ErrOutOfDate with the
// offending files as detail.
func (r *CheckResult) Err() error {
	if r.UpToDate {
		return nil
	}
	err := errors.WithHint(errors.ErrOutOfDate, "run 'bindgen generate' to refresh the headers")
	for _, group := range []struct {
		label string
		files []string
	}{{"changed", r.Changed}, {"missing", r.Missing}, {"stale", r.Stale}} {
		if len(group.files) > 0 {
			err = errors.WithDetailf(err, "%s: %s", group.label, strings.Join(group.files, ", "))
		}
	}
	return err
}

// Compare checks every file under the generated filesystem against the
// same path in existing, then looks for headers in existing's bindingDir
// that generation no longer produces. Metadata comment lines are ignored.
func Compare(generated, existing afero.Fs, bindingDir string) (*CheckResult, error) {
	result := &CheckResult{}
	produced := make(map[string]struct{})

	err := afero.Walk(generated, ".", func(p string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		produced[p] = struct{}{}

		want, err := afero.ReadFile(generated, p)
		if err != nil {
			return errors.Wrapf(err, "failed to read generated %s", p)
		}
		have, err := afero.ReadFile(existing, p)
		if os.IsNotExist(err) {
			result.Missing = append(result.Missing, p)
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "failed to read %s", p)
		}
		if filterMetadataLines(want) != filterMetadataLines(have) {
			result.Changed = append(result.Changed, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	entries, err := afero.ReadDir(existing, bindingDir)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "failed to list %s", bindingDir)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".hpp" {
			continue
		}
		p := filepath.Join(bindingDir, entry.Name())
		if _, ok := produced[p]; !ok {
			result.Stale = append(result.Stale, p)
		}
	}

	sort.Strings(result.Changed)
	sort.Strings(result.Missing)
	sort.Strings(result.Stale)
	result.UpToDate = len(result.Changed) == 0 && len(result.Missing) == 0 && len(result.Stale) == 0
	return result, nil
}

// filterMetadataLines removes the "// Source version:" stamp, which changes
// between builds without the headers changing.
// Returns empty string if scanner encounters an error.
func filterMetadataLines(content []byte) string {
	var result strings.Builder
	scanner := bufio.NewScanner(bytes.NewReader(content))

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "// Source version:") {
			continue
		}
		result.WriteString(line)
		result.WriteString("\n")
	}

	if err := scanner.Err(); err != nil {
		return ""
	}
	return result.String()
}
