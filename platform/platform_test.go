package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/bindgen/errors"
)

func TestConcreteAreSingleBits(t *testing.T) {
	seen := None
	for _, p := range Concrete {
		assert.True(t, p.IsConcrete(), p.String())
		assert.False(t, seen.Has(p), "duplicate bit for %s", p)
		seen = seen.Union(p)
	}
	assert.Equal(t, All, seen)
}

func TestCompositesAreNotConcrete(t *testing.T) {
	assert.False(t, Mac.IsConcrete())
	assert.False(t, All.IsConcrete())
	assert.False(t, None.IsConcrete())
	assert.Equal(t, []Platform{MacArm, MacIntel}, Mac.Platforms())
}

func TestHas(t *testing.T) {
	assert.True(t, Mac.Has(MacIntel))
	assert.False(t, Mac.Has(Windows))
	assert.True(t, (Windows | Android).Has(Android|IOS))
	assert.False(t, None.Has(All))
}

func TestPlatformsFollowOutputOrder(t *testing.T) {
	set := Android | MacArm | Windows
	assert.Equal(t, []Platform{MacArm, Windows, Android}, set.Platforms())
}

func TestDisplayName(t *testing.T) {
	tests := map[Platform]string{
		MacArm:   "MacOS (ARM)",
		MacIntel: "MacOS (Intel)",
		Mac:      "MacOS",
		Windows:  "Windows",
		IOS:      "iOS",
		Android:  "Android",
	}
	for p, want := range tests {
		assert.Equal(t, want, p.DisplayName())
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "win", Windows.String())
	assert.Equal(t, "all", All.String())
	assert.Equal(t, "win|ios", (Windows | IOS).String())
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Platform
	}{
		{"win", Windows},
		{"Windows", Windows},
		{" m1 ", MacArm},
		{"imac", MacIntel},
		{"mac", Mac},
		{"ios", IOS},
		{"android", Android},
		{"all", All},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseUnknown(t *testing.T) {
	_, err := Parse("linux")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownPlatform))
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestParseConcreteRejectsComposites(t *testing.T) {
	_, err := ParseConcrete("mac")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownPlatform))

	p, err := ParseConcrete("android")
	require.NoError(t, err)
	assert.Equal(t, Android, p)
}

func TestParseSet(t *testing.T) {
	set, err := ParseSet(nil)
	require.NoError(t, err)
	assert.Equal(t, All, set)

	set, err = ParseSet([]string{"mac", "win"})
	require.NoError(t, err)
	assert.Equal(t, Mac|Windows, set)

	_, err = ParseSet([]string{"win", "bogus"})
	assert.Error(t, err)
}
