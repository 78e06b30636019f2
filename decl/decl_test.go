package decl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teranos/bindgen/model"
)

func TestFunctionQualifiers(t *testing.T) {
	tests := []struct {
		name string
		fn   Function
		want string
	}{
		{
			name: "plain",
			fn:   Function{Return: "void", Name: "update", Params: []model.Param{{Type: model.Type{Name: "float"}, Name: "dt"}}},
			want: "    void update(float dt);\n",
		},
		{
			name: "static",
			fn:   Function{Static: true, Return: "PlayLayer*", Name: "get"},
			want: "    static PlayLayer* get();\n",
		},
		{
			name: "virtual const",
			fn:   Function{Virtual: true, Const: true, Return: "int", Name: "getTag"},
			want: "    virtual int getTag() const;\n",
		},
		{
			name: "all qualifiers",
			fn:   Function{Static: true, Virtual: true, Const: true, Return: "bool", Name: "f"},
			want: "    static virtual bool f() const;\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.fn.Render()
			assert.True(t, strings.HasSuffix(out, tt.want), out)
			assert.NotContains(t, out, "  "+tt.fn.Name, "qualifiers never double spaces")
		})
	}
}

func TestFunctionDocBlock(t *testing.T) {
	fn := Function{
		Docs:        Docs(model.RawDocs("Restarts the level")),
		AddressDocs: "     * @note[short] Windows\n",
		Return:      "void",
		Name:        "resetLevel",
	}

	want := "\n" +
		"    /**\n" +
		"     * Restarts the level\n" +
		"     * @note[short] Windows\n" +
		"     */\n" +
		"    void resetLevel();\n"
	assert.Equal(t, want, fn.Render())
}

func TestStructorShape(t *testing.T) {
	ctor := ForPrototype(model.FunctionProto{
		Name:   "PlayLayer",
		Kind:   model.Constructor,
		Params: []model.Param{{Type: model.Type{Name: "int"}, Name: "id"}},
	}, "geode::PlayLayer", "")
	assert.IsType(t, Structor{}, ctor)
	assert.True(t, strings.HasSuffix(ctor.Render(), "    PlayLayer(int id);\n"))

	dtor := ForPrototype(model.FunctionProto{
		Name:      "~PlayLayer",
		Kind:      model.Destructor,
		IsVirtual: true,
	}, "PlayLayer", "")
	assert.True(t, strings.HasSuffix(dtor.Render(), "    virtual ~PlayLayer();\n"))
}

func TestForPrototypeNormal(t *testing.T) {
	d := ForPrototype(model.FunctionProto{
		Name:     "init",
		Ret:      model.Type{Name: "bool"},
		IsStatic: true,
		Docs:     model.RawDocs("Sets things up"),
	}, "PlayLayer", "     * @note[short] iOS: 0x-1\n")

	fn, ok := d.(Function)
	assert.True(t, ok)
	assert.Equal(t, "     * Sets things up\n", fn.Docs)
	assert.Contains(t, fn.Render(), "@note[short] iOS: 0x-1")
	assert.Contains(t, fn.Render(), "    static bool init();\n")
}

func TestMember(t *testing.T) {
	assert.Equal(t, "    int m_a;\n", Member{Type: "int", Name: "m_a"}.Render())
	assert.Equal(t, "    char m_buf[16];\n", Member{Type: "char", Name: "m_buf", Count: 16}.Render())
	assert.Equal(t, "private:\n    int m_b;\npublic:\n", Member{Type: "int", Name: "m_b", Private: true}.Render())
}

func TestPadAndInline(t *testing.T) {
	assert.Equal(t, "    GEODE_PAD(4);\n", Pad{Bytes: 4}.Render())
	assert.Equal(t, "    // no padding\n", NoPadding{}.Render())
	assert.Equal(t, "\tint x() { return 1; }\n", Inline{Text: "int x() { return 1; }"}.Render())
}

func TestParameters(t *testing.T) {
	assert.Equal(t, "", Parameters(nil))
	assert.Equal(t, "int a, char const* b, float", Parameters([]model.Param{
		{Type: model.Type{Name: "int"}, Name: "a"},
		{Type: model.Type{Name: "char const*"}, Name: "b"},
		{Type: model.Type{Name: "float"}},
	}))
}

func TestDocs(t *testing.T) {
	t.Run("short blobs degrade to nothing", func(t *testing.T) {
		for _, raw := range []string{"", "x", "\n   */"} {
			assert.Equal(t, "", Docs(raw))
		}
	})

	t.Run("multi line", func(t *testing.T) {
		raw := model.RawDocs("First line\nSecond line")
		assert.Equal(t, "     * First line\n     * Second line\n", Docs(raw))
	})
}

func TestUnqualifiedName(t *testing.T) {
	assert.Equal(t, "CCNode", UnqualifiedName("cocos2d::CCNode"))
	assert.Equal(t, "Foo", UnqualifiedName("Foo"))
}
