package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/bindgen/model"
	"github.com/teranos/bindgen/platform"
)

func TestSummarize(t *testing.T) {
	root := &model.Root{
		Functions: []model.Function{
			{Prototype: model.FunctionProto{Name: "bound"}, Binds: model.Uniform(0x10), Platforms: platform.All},
			{Prototype: model.FunctionProto{Name: "gone"}, Binds: model.Unbound, Platforms: platform.All},
		},
		Classes: []model.Class{{
			Name: "PlayLayer",
			Fields: []model.Field{
				&model.MemberField{Name: "m_a", Platforms: platform.All},
				&model.FunctionBindField{
					Prototype: model.FunctionProto{Name: "init"},
					Binds:     model.Unbound.With(platform.Windows, 0x20),
					Platforms: platform.All,
				},
				&model.FunctionBindField{
					Prototype: model.FunctionProto{Name: "update"},
					Binds:     model.Unbound.With(platform.IOS, model.Inline),
					Platforms: platform.All,
				},
				&model.FunctionBindField{
					Prototype: model.FunctionProto{Name: "winOnly"},
					Binds:     model.Unbound.With(platform.Windows, 0x30),
					Platforms: platform.Windows,
				},
			},
		}},
	}

	summaries := Summarize(root, platform.IOS)
	require.Len(t, summaries, 2)

	globals := summaries[0]
	assert.Empty(t, globals.Class)
	assert.Equal(t, 1, globals.Counts[Binded])
	assert.Equal(t, 1, globals.Counts[Missing])
	assert.Equal(t, 2, globals.Total())

	class := summaries[1]
	assert.Equal(t, "PlayLayer", class.Class)
	assert.Equal(t, 1, class.Counts[NeedsBinding])
	assert.Equal(t, 1, class.Counts[Inlined])
	assert.Equal(t, 1, class.Counts[NotApplicable])
	assert.Equal(t, []string{"init"}, class.Unbound)
	assert.Equal(t, 3, class.Total())
}
