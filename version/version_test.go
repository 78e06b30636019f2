package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/bindgen/errors"
)

func TestInfoString(t *testing.T) {
	info := Info{CommitHash: "abcdef1234", BuildTime: "now", Version: "1.2.0"}
	assert.Equal(t, "bindgen 1.2.0 (commit abcdef1234, built now)", info.String())
	assert.Equal(t, "abcdef1", info.Short())

	info.Version = "dev"
	assert.True(t, strings.HasPrefix(info.String(), "bindgen dev"))

	info.CommitHash = "abc"
	assert.Equal(t, "abc", info.Short())
}

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}

func TestCheckCompatible(t *testing.T) {
	tests := []struct {
		name       string
		current    string
		constraint string
		wantErr    error
	}{
		{"no constraint", "1.0.0", "", nil},
		{"satisfied", "1.4.2", ">= 1.0.0, < 2", nil},
		{"too old", "0.9.0", ">= 1.0.0", errors.ErrIncompatibleSpec},
		{"too new", "2.0.0", "~1.4", errors.ErrIncompatibleSpec},
		{"dev build passes", "dev", ">= 9", nil},
		{"bad constraint", "1.0.0", "not a range", errors.ErrInvalidSpec},
		{"bad constraint on dev", "dev", "???", errors.ErrInvalidSpec},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkCompatible(tt.current, tt.constraint)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "%v", err)
		})
	}
}

func TestIncompatibleCarriesHint(t *testing.T) {
	err := checkCompatible("0.1.0", ">= 1")
	require.Error(t, err)
	assert.Contains(t, errors.FlattenHints(err), "upgrade bindgen")
}
