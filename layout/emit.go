// Package layout emits class bodies for one target platform.
//
// Fields are walked strictly in declaration order. A pad whose size is not
// known on the target opens a layout gap; data members that follow are
// hidden behind a private section until a sized pad closes the gap, so
// callers cannot reach bytes whose offsets are untrusted.
package layout

import (
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/bindgen/binding"
	"github.com/teranos/bindgen/decl"
	"github.com/teranos/bindgen/logger"
	"github.com/teranos/bindgen/model"
	"github.com/teranos/bindgen/platform"
)

const (
	constructorMacro       = "GEODE_CUSTOM_CONSTRUCTOR_GD"
	constructorCutoffMacro = "GEODE_CUSTOM_CONSTRUCTOR_CUTOFF"
)

// Emitter renders class bodies for a single concrete target platform.
type Emitter struct {
	Target platform.Platform
	// ForcePublic keeps every member public even inside an open gap.
	ForcePublic bool
	Family      Family
	// Verbosity gates gap and omission traces (logger.OutputLayout).
	Verbosity int
	Logger    *zap.SugaredLogger
}

// NewEmitter returns an emitter for target using the default engine family.
func NewEmitter(target platform.Platform, forcePublic bool, log *zap.SugaredLogger) *Emitter {
	if log == nil {
		log = logger.ComponentLogger("layout")
	}
	return &Emitter{
		Target:      target,
		ForcePublic: forcePublic,
		Family:      DefaultFamily(),
		Logger:      log,
	}
}

// Emit returns the full class text: header, constructor macro, fields and
// closing brace.
func (e *Emitter) Emit(class model.Class) string {
	var sb strings.Builder
	e.writeHeader(&sb, class)

	w := &fieldWriter{
		emitter: e,
		class:   class,
		out:     &sb,
		log:     e.logger().With(logger.FieldClass, class.Name, logger.FieldPlatform, e.Target.String()),
	}
	for i, field := range class.Fields {
		w.index = i
		field.Accept(w)
	}

	sb.WriteString("};\n")
	return sb.String()
}

func (e *Emitter) writeHeader(sb *strings.Builder, class model.Class) {
	sb.WriteString("\nclass ")
	sb.WriteString(class.Name)
	if len(class.Superclasses) > 0 {
		sb.WriteString(" : public ")
		sb.WriteString(strings.Join(class.Superclasses, ", public "))
	}
	sb.WriteString(" {\npublic:\n")
	sb.WriteString("    static constexpr auto CLASS_NAME = \"" + class.Name + "\";\n")

	if len(class.Superclasses) == 0 {
		return
	}
	// Only the primary base decides the construction strategy.
	first := class.Superclasses[0]
	macro := constructorMacro
	if e.Family.IsEngine(first) {
		macro = constructorCutoffMacro
	}
	sb.WriteString("    " + macro + "(" + class.Name + ", " + first + ")\n")
}

// Dependencies returns the header names class must include, skipping
// engine classes, in declared order.
func (e *Emitter) Dependencies(class model.Class) []string {
	var deps []string
	for _, dep := range class.Depends {
		if e.Family.IsEngine(dep) {
			continue
		}
		deps = append(deps, decl.UnqualifiedName(dep)+".hpp")
	}
	return deps
}

func (e *Emitter) logger() *zap.SugaredLogger {
	if e.Logger == nil {
		return zap.NewNop().Sugar()
	}
	return e.Logger
}

// fieldWriter walks one class's fields, carrying the gap state.
type fieldWriter struct {
	emitter *Emitter
	class   model.Class
	out     *strings.Builder
	log     *zap.SugaredLogger

	index   int
	gapOpen bool
}

func (w *fieldWriter) write(d decl.Decl) {
	w.out.WriteString(d.Render())
}

func (w *fieldWriter) trace(msg string, keysAndValues ...interface{}) {
	if logger.ShouldOutput(w.emitter.Verbosity, logger.OutputLayout) {
		w.log.Debugw(msg, keysAndValues...)
	}
}

func (w *fieldWriter) setGap(open bool) {
	if w.gapOpen != open {
		w.trace("layout gap changed", "field", w.index, "open", open)
	}
	w.gapOpen = open
}

func (w *fieldWriter) VisitInline(f *model.InlineField) {
	w.write(decl.Inline{Text: f.Inner})
}

func (w *fieldWriter) VisitPad(f *model.PadField) {
	switch amount := f.Amount.Get(w.emitter.Target); {
	case amount == model.Inline:
		// A size that cannot be determined reserves nothing.
		w.setGap(true)
	case amount > 0:
		w.write(decl.Pad{Bytes: amount})
		w.setGap(false)
	case amount == 0:
		w.write(decl.NoPadding{})
		w.setGap(false)
	default:
		w.setGap(true)
	}
}

func (w *fieldWriter) VisitMember(f *model.MemberField) {
	if !f.Platforms.Has(w.emitter.Target) {
		return
	}
	private := w.gapOpen && !w.emitter.ForcePublic
	if private {
		w.trace("hiding member behind open gap", "member", f.Name)
	}
	w.write(decl.Member{
		Type:    f.Type.Name,
		Name:    f.Name,
		Count:   f.Count,
		Private: private,
	})
}

func (w *fieldWriter) VisitFunctionBind(f *model.FunctionBindField) {
	target := w.emitter.Target
	res := binding.Resolve(f.Binds, f.Platforms)
	if res.Missing {
		return
	}
	// Half bound special members are worse than none.
	if res.Value(target) < 0 &&
		res.Entity(target) != binding.Binded &&
		f.Prototype.Kind != model.Normal {
		w.trace("omitting unbound special member", logger.FieldFunction, f.Prototype.Name, "kind", f.Prototype.Kind.String())
		return
	}
	w.write(decl.ForPrototype(f.Prototype, w.class.Name, res.AddressDocs()))
}
