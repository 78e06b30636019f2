package layout

import "strings"

// Family classifies class names belonging to the pre-existing engine, which
// is declared elsewhere and never regenerated.
type Family struct {
	NativePrefixes []string
	NativeClasses  []string
	AudioPrefixes  []string
}

// DefaultFamily is the engine family of the cocos2d based game client.
func DefaultFamily() Family {
	return Family{
		NativePrefixes: []string{"cocos2d::", "pugi::"},
		NativeClasses:  []string{"DS_Dictionary", "ObjectDecoder", "ObjectDecoderDelegate"},
		AudioPrefixes:  []string{"FMOD::"},
	}
}

// IsNative reports whether name belongs to the native engine hierarchy.
func (f Family) IsNative(name string) bool {
	for _, prefix := range f.NativePrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	for _, exact := range f.NativeClasses {
		if name == exact {
			return true
		}
	}
	return false
}

// IsAudio reports whether name belongs to the audio engine.
func (f Family) IsAudio(name string) bool {
	for _, prefix := range f.AudioPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// IsEngine reports whether name belongs to either engine family.
func (f Family) IsEngine(name string) bool {
	return f.IsNative(name) || f.IsAudio(name)
}
