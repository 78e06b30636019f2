// Package platform models the target platforms bindings are generated for.
//
// A Platform value is a bit-set. The five concrete platforms are single
// bits; composites such as Mac are unions of those bits and are only ever
// used for applicability checks, never as a lookup key.
package platform

import (
	"sort"
	"strings"

	"github.com/teranos/bindgen/errors"
)

// Platform is a set of target platforms.
type Platform uint8

const (
	None     Platform = 0
	MacArm   Platform = 1 << 0
	MacIntel Platform = 1 << 1
	Windows  Platform = 1 << 2
	IOS      Platform = 1 << 3
	Android  Platform = 1 << 4

	// Mac is either desktop macOS variant
	Mac = MacArm | MacIntel
	// All is every concrete platform
	All = MacArm | MacIntel | Windows | IOS | Android
)

// Concrete lists the concrete platforms in output order.
// Every per-platform listing (documentation notes, status tables) follows it.
var Concrete = []Platform{MacArm, MacIntel, Windows, IOS, Android}

// Union returns the set of platforms in either p or other.
func (p Platform) Union(other Platform) Platform {
	return p | other
}

// Has reports whether p and other share at least one platform.
func (p Platform) Has(other Platform) bool {
	return p&other != None
}

// IsConcrete reports whether p is exactly one platform.
func (p Platform) IsConcrete() bool {
	return p != None && p&(p-1) == 0 && p&^All == None
}

// Platforms returns the concrete members of p in output order.
func (p Platform) Platforms() []Platform {
	var out []Platform
	for _, c := range Concrete {
		if p.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// DisplayName is the human readable name used in generated documentation.
func (p Platform) DisplayName() string {
	switch p {
	case MacArm:
		return "MacOS (ARM)"
	case MacIntel:
		return "MacOS (Intel)"
	case Mac:
		return "MacOS"
	case Windows:
		return "Windows"
	case IOS:
		return "iOS"
	case Android:
		return "Android"
	default:
		return p.String()
	}
}

var shortNames = map[Platform]string{
	None:     "none",
	MacArm:   "mac-arm",
	MacIntel: "mac-intel",
	Mac:      "mac",
	Windows:  "win",
	IOS:      "ios",
	Android:  "android",
	All:      "all",
}

// String returns the short key for p, e.g. "win" or "ios|android".
func (p Platform) String() string {
	if name, ok := shortNames[p]; ok {
		return name
	}
	parts := make([]string, 0, len(Concrete))
	for _, c := range p.Platforms() {
		parts = append(parts, shortNames[c])
	}
	return strings.Join(parts, "|")
}

var aliases = map[string]Platform{
	"mac-arm":   MacArm,
	"macarm":    MacArm,
	"armmac":    MacArm,
	"m1":        MacArm,
	"mac-intel": MacIntel,
	"macintel":  MacIntel,
	"intelmac":  MacIntel,
	"imac":      MacIntel,
	"mac":       Mac,
	"win":       Windows,
	"windows":   Windows,
	"ios":       IOS,
	"android":   Android,
	"all":       All,
}

// Parse resolves a platform key. Composite keys ("mac", "all") are accepted.
func Parse(s string) (Platform, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if p, ok := aliases[key]; ok {
		return p, nil
	}
	return None, errors.WithHintf(
		errors.Wrapf(errors.ErrUnknownPlatform, "%q", s),
		"valid platforms: %s", strings.Join(Keys(), ", "))
}

// ParseConcrete resolves a key that must name exactly one platform.
func ParseConcrete(s string) (Platform, error) {
	p, err := Parse(s)
	if err != nil {
		return None, err
	}
	if !p.IsConcrete() {
		return None, errors.WithHintf(
			errors.Wrapf(errors.ErrUnknownPlatform, "%q is a composite platform", s),
			"pick one of: %s", strings.Join(concreteKeys(), ", "))
	}
	return p, nil
}

// ParseSet unions every key. An empty list means All.
func ParseSet(keys []string) (Platform, error) {
	if len(keys) == 0 {
		return All, nil
	}
	set := None
	for _, k := range keys {
		p, err := Parse(k)
		if err != nil {
			return None, err
		}
		set = set.Union(p)
	}
	return set, nil
}

// Keys returns every accepted key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(aliases))
	for k := range aliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func concreteKeys() []string {
	keys := make([]string, len(Concrete))
	for i, c := range Concrete {
		keys[i] = shortNames[c]
	}
	return keys
}
