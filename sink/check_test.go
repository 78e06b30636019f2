package sink

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/bindgen/errors"
)

func writeAll(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()
	for p, content := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, afero.WriteFile(fs, p, []byte(content), 0644))
	}
}

func TestCompareUpToDate(t *testing.T) {
	generated := afero.NewMemMapFs()
	existing := afero.NewMemMapFs()
	files := map[string]string{
		"binding/A.hpp":        "class A {};\n",
		"GeneratedBinding.hpp": "#pragma once\n",
	}
	writeAll(t, generated, files)
	writeAll(t, existing, files)

	result, err := Compare(generated, existing, "binding")
	require.NoError(t, err)
	assert.True(t, result.UpToDate)
	assert.NoError(t, result.Err())
}

func TestCompareDetectsDifferences(t *testing.T) {
	generated := afero.NewMemMapFs()
	existing := afero.NewMemMapFs()
	writeAll(t, generated, map[string]string{
		"binding/A.hpp": "class A { int x; };\n",
		"binding/B.hpp": "class B {};\n",
	})
	writeAll(t, existing, map[string]string{
		"binding/A.hpp":   "class A {};\n",
		"binding/Old.hpp": "class Old {};\n",
	})

	result, err := Compare(generated, existing, "binding")
	require.NoError(t, err)
	assert.False(t, result.UpToDate)
	assert.Equal(t, []string{filepath.Join("binding", "A.hpp")}, result.Changed)
	assert.Equal(t, []string{filepath.Join("binding", "B.hpp")}, result.Missing)
	assert.Equal(t, []string{filepath.Join("binding", "Old.hpp")}, result.Stale)

	err = result.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrOutOfDate))
	assert.Contains(t, errors.FlattenHints(err), "bindgen generate")
	assert.Len(t, errors.GetAllDetails(err), 3)
}

func TestCompareIgnoresVersionStamp(t *testing.T) {
	generated := afero.NewMemMapFs()
	existing := afero.NewMemMapFs()
	writeAll(t, generated, map[string]string{"GeneratedBinding.hpp": "#pragma once\n// Source version: 1.1.0\n"})
	writeAll(t, existing, map[string]string{"GeneratedBinding.hpp": "#pragma once\n// Source version: 1.0.0\n"})

	result, err := Compare(generated, existing, "binding")
	require.NoError(t, err)
	assert.True(t, result.UpToDate)
}

// A tree written by the sink compares equal to a fresh in-memory generation.
func TestCompareAfterWrite(t *testing.T) {
	ctx := context.Background()
	log := zaptest.NewLogger(t).Sugar()

	disk := New(afero.NewMemMapFs(), log)
	_, err := disk.WriteOutput(ctx, sampleOutput(), testLayout)
	require.NoError(t, err)

	fresh := New(afero.NewMemMapFs(), log)
	_, err = fresh.WriteOutput(ctx, sampleOutput(), testLayout)
	require.NoError(t, err)

	result, err := Compare(fresh.Fs, disk.Fs, testLayout.BindingDir)
	require.NoError(t, err)
	assert.True(t, result.UpToDate, "%+v", result)
}
