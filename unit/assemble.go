// Package unit assembles complete header files: one per generated class and
// one for free-standing global functions, plus the umbrella include list.
package unit

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/bindgen/binding"
	"github.com/teranos/bindgen/decl"
	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/layout"
	"github.com/teranos/bindgen/logger"
	"github.com/teranos/bindgen/model"
	"github.com/teranos/bindgen/version"
)

// StandaloneFile holds every global function.
const StandaloneFile = "Standalones.hpp"

// stringClass is the one class that must not pull in the engine headers.
const stringClass = "GDString"

const fullIncludes = `#pragma once
#include <stdexcept>
#include <Geode/platform/platform.hpp>
#include <Geode/c++stl/gdstdlib.hpp>
#include <cocos2d.h>
#include <cocos-ext.h>
#include <Geode/GeneratedPredeclare.hpp>
#include <Geode/Enums.hpp>
#include <Geode/utils/SeedValue.hpp>

`

const minimalIncludes = `#pragma once
#include <Geode/platform/platform.hpp>
#include <stdexcept>

`

// Unit is one generated header.
type Unit struct {
	// File is the header's file name, relative to the binding directory.
	File string
	// Class is empty for the standalone unit.
	Class   string
	Content string
}

// Output is the result of one generation run.
type Output struct {
	Units []Unit
	// Umbrella has one include line per unit, in unit order.
	Umbrella string
	Files    map[string]struct{}
}

// Has reports whether file was generated in this run.
func (o *Output) Has(file string) bool {
	_, ok := o.Files[file]
	return ok
}

// Assembler turns a Root into units for the emitter's target platform.
type Assembler struct {
	Emitter *layout.Emitter
	// BaseDirectory prefixes every umbrella include.
	BaseDirectory string
	// Workers bounds concurrent class rendering; zero or less means unbounded.
	Workers int
	Logger  *zap.SugaredLogger
}

// Assemble renders every unit. Class units are rendered concurrently but
// returned in document order, after the standalone unit.
func (a *Assembler) Assemble(ctx context.Context, root *model.Root) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "assembly cancelled")
	}
	if err := version.CheckCompatible(root.Requires); err != nil {
		return nil, err
	}

	log := logger.LoggerFromContext(ctx, a.logger()).With(logger.FieldPlatform, a.Emitter.Target.String())
	start := time.Now()

	var classes []model.Class
	for _, class := range root.Classes {
		if a.Emitter.Family.IsEngine(class.Name) {
			log.Debugw("skipping engine class", logger.FieldClass, class.Name)
			continue
		}
		classes = append(classes, class)
	}

	units := make([]Unit, len(classes)+1)
	units[0] = a.standalone(root.Functions)

	g, gctx := errgroup.WithContext(ctx)
	if a.Workers > 0 {
		g.SetLimit(a.Workers)
	}
	for i, class := range classes {
		i, class := i, class
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			units[i+1] = a.classUnit(class)
			log.Debugw("rendered unit", logger.FieldClass, class.Name, logger.FieldUnit, units[i+1].File)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "assembly cancelled")
	}

	out := &Output{Units: units, Files: make(map[string]struct{}, len(units))}
	var umbrella strings.Builder
	for _, u := range units {
		umbrella.WriteString("#include \"" + a.BaseDirectory + "/" + u.File + "\"\n")
		out.Files[u.File] = struct{}{}
	}
	out.Umbrella = umbrella.String()

	log.Infow("assembled units",
		logger.FieldCount, len(units),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return out, nil
}

func (a *Assembler) standalone(functions []model.Function) Unit {
	var sb strings.Builder
	sb.WriteString(fullIncludes)

	for _, fn := range functions {
		res := binding.Resolve(fn.Binds, fn.Platforms)
		if res.Missing {
			continue
		}
		sb.WriteString(decl.Function{
			Docs:        decl.Docs(fn.Prototype.Docs),
			AddressDocs: res.AddressDocs(),
			Return:      fn.Prototype.Ret.Name,
			Name:        fn.Prototype.Name,
			Params:      fn.Prototype.Params,
		}.Render())
	}

	return Unit{File: StandaloneFile, Content: sb.String()}
}

func (a *Assembler) classUnit(class model.Class) Unit {
	var sb strings.Builder
	if class.Name == stringClass {
		sb.WriteString(minimalIncludes)
	} else {
		sb.WriteString(fullIncludes)
	}
	if strings.Contains(class.Name, "FMOD") {
		sb.WriteString("#include <fmod.hpp>\n")
	}
	for _, dep := range a.Emitter.Dependencies(class) {
		sb.WriteString("#include \"" + dep + "\"\n")
	}
	sb.WriteString(a.Emitter.Emit(class))

	return Unit{
		File:    decl.UnqualifiedName(class.Name) + ".hpp",
		Class:   class.Name,
		Content: sb.String(),
	}
}

func (a *Assembler) logger() *zap.SugaredLogger {
	if a.Logger == nil {
		return logger.ComponentLogger("unit")
	}
	return a.Logger
}
