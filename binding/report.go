package binding

import (
	"github.com/teranos/bindgen/model"
	"github.com/teranos/bindgen/platform"
)

// Summary counts the function statuses of one class (or of the global
// functions, with an empty Class) on a target platform.
type Summary struct {
	Class  string
	Counts map[Status]int
	// Unbound lists functions that still need an address on the target.
	Unbound []string
}

// Total is the number of functions counted.
func (s Summary) Total() int {
	n := 0
	for _, c := range s.Counts {
		n += c
	}
	return n
}

func (s *Summary) add(name string, binds model.AddressTable, applicable, target platform.Platform) {
	status := Resolve(binds, applicable).Entity(target)
	s.Counts[status]++
	if status == NeedsBinding {
		s.Unbound = append(s.Unbound, name)
	}
}

// Summarize reports binding progress on target, globals first, then one
// entry per class in document order.
func Summarize(root *model.Root, target platform.Platform) []Summary {
	globals := Summary{Counts: make(map[Status]int)}
	for _, fn := range root.Functions {
		globals.add(fn.Prototype.Name, fn.Binds, fn.Platforms, target)
	}

	summaries := []Summary{globals}
	for _, class := range root.Classes {
		c := &classCounter{
			summary: Summary{Class: class.Name, Counts: make(map[Status]int)},
			target:  target,
		}
		for _, field := range class.Fields {
			field.Accept(c)
		}
		summaries = append(summaries, c.summary)
	}
	return summaries
}

type classCounter struct {
	summary Summary
	target  platform.Platform
}

func (c *classCounter) VisitInline(*model.InlineField) {}
func (c *classCounter) VisitMember(*model.MemberField) {}
func (c *classCounter) VisitPad(*model.PadField)       {}

func (c *classCounter) VisitFunctionBind(f *model.FunctionBindField) {
	c.summary.add(f.Prototype.Name, f.Binds, f.Platforms, c.target)
}
