package unit

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/tools/txtar"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/layout"
	"github.com/teranos/bindgen/model"
	"github.com/teranos/bindgen/platform"
	"github.com/teranos/bindgen/version"
)

func newAssembler(t *testing.T, target platform.Platform) *Assembler {
	t.Helper()
	log := zaptest.NewLogger(t).Sugar()
	return &Assembler{
		Emitter:       layout.NewEmitter(target, false, log),
		BaseDirectory: "binding",
		Workers:       2,
		Logger:        log,
	}
}

func TestAssembleGolden(t *testing.T) {
	ar, err := txtar.ParseFile(filepath.Join("testdata", "windows.txtar"))
	require.NoError(t, err)

	files := make(map[string]string)
	for _, f := range ar.Files {
		files[f.Name] = string(f.Data)
	}

	root, err := model.Decode([]byte(files["spec.yaml"]), model.FormatYAML)
	require.NoError(t, err)

	out, err := newAssembler(t, platform.Windows).Assemble(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, out.Units, 3)
	for _, u := range out.Units {
		want, ok := files[u.File]
		require.True(t, ok, "unexpected unit %s", u.File)
		assert.Equal(t, want, u.Content, u.File)
	}
	assert.Equal(t, files["umbrella"], out.Umbrella)
}

func TestStandaloneComesFirst(t *testing.T) {
	out, err := newAssembler(t, platform.IOS).Assemble(context.Background(), &model.Root{
		Classes: []model.Class{{Name: "A"}, {Name: "B"}},
	})
	require.NoError(t, err)

	require.Len(t, out.Units, 3)
	assert.Equal(t, StandaloneFile, out.Units[0].File)
	assert.Empty(t, out.Units[0].Class)
	assert.True(t, out.Has("A.hpp"))
	assert.True(t, out.Has(StandaloneFile))
	assert.False(t, out.Has("C.hpp"))
}

func TestOrderIsStableUnderConcurrency(t *testing.T) {
	root := &model.Root{}
	var want []string
	for i := 0; i < 64; i++ {
		name := fmt.Sprintf("Class%02d", i)
		root.Classes = append(root.Classes, model.Class{Name: name})
		want = append(want, name+".hpp")
	}

	a := newAssembler(t, platform.Android)
	a.Workers = 8
	out, err := a.Assemble(context.Background(), root)
	require.NoError(t, err)

	var got []string
	for _, u := range out.Units[1:] {
		got = append(got, u.File)
	}
	assert.Equal(t, want, got)

	lines := strings.Split(strings.TrimSpace(out.Umbrella), "\n")
	require.Len(t, lines, 65)
	assert.Equal(t, `#include "binding/Class00.hpp"`, lines[1])
}

func TestEngineClassesNeverRegenerated(t *testing.T) {
	out, err := newAssembler(t, platform.MacArm).Assemble(context.Background(), &model.Root{
		Classes: []model.Class{{Name: "cocos2d::CCNode"}, {Name: "FMOD::System"}, {Name: "DS_Dictionary"}, {Name: "MenuLayer"}},
	})
	require.NoError(t, err)

	require.Len(t, out.Units, 2)
	assert.Equal(t, "MenuLayer.hpp", out.Units[1].File)
}

func TestPreambles(t *testing.T) {
	out, err := newAssembler(t, platform.Windows).Assemble(context.Background(), &model.Root{
		Classes: []model.Class{
			{Name: "GDString"},
			{Name: "FMODAudioEngine", Depends: []string{"FMOD::Channel", "GameManager"}},
		},
	})
	require.NoError(t, err)

	gdString := out.Units[1].Content
	assert.True(t, strings.HasPrefix(gdString, minimalIncludes))
	assert.NotContains(t, gdString, "cocos2d.h")

	audio := out.Units[2].Content
	assert.True(t, strings.HasPrefix(audio, fullIncludes+"#include <fmod.hpp>\n#include \"GameManager.hpp\"\n"))
}

func TestMissingGlobalSuppressedOnEveryPlatform(t *testing.T) {
	root := &model.Root{Functions: []model.Function{{
		Prototype: model.FunctionProto{Name: "ghost", Ret: model.Type{Name: "void"}},
		Binds:     model.Unbound,
		Platforms: platform.All,
	}}}
	for _, p := range platform.Concrete {
		out, err := newAssembler(t, p).Assemble(context.Background(), root)
		require.NoError(t, err)
		assert.NotContains(t, out.Units[0].Content, "ghost")
	}
}

func TestGlobalFunctionsHaveNoQualifiers(t *testing.T) {
	root := &model.Root{Functions: []model.Function{{
		Prototype: model.FunctionProto{Name: "f", Ret: model.Type{Name: "int"}, IsStatic: true, IsVirtual: true, IsConst: true},
		Binds:     model.Uniform(0x10),
		Platforms: platform.All,
	}}}
	out, err := newAssembler(t, platform.Windows).Assemble(context.Background(), root)
	require.NoError(t, err)
	assert.Contains(t, out.Units[0].Content, "\n    int f();\n")
}

func TestAssembleCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newAssembler(t, platform.Windows).Assemble(ctx, &model.Root{
		Classes: []model.Class{{Name: "A"}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestAssembleCancelledGlobalsOnly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := newAssembler(t, platform.Windows).Assemble(ctx, &model.Root{
		Functions: []model.Function{{
			Prototype: model.FunctionProto{Name: "f", Ret: model.Type{Name: "int"}},
			Binds:     model.Unbound.With(platform.Windows, 0x10),
			Platforms: platform.All,
		}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Nil(t, out)
}

func TestAssembleVersionGate(t *testing.T) {
	saved := version.Version
	defer func() { version.Version = saved }()
	version.Version = "0.5.0"

	_, err := newAssembler(t, platform.Windows).Assemble(context.Background(), &model.Root{Requires: ">= 1.0.0"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrIncompatibleSpec))

	_, err = newAssembler(t, platform.Windows).Assemble(context.Background(), &model.Root{Requires: "^0.5"})
	assert.NoError(t, err)
}
