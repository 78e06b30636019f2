package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWrapf(t *testing.T) {
	original := New("original")
	wrapped := Wrapf(original, "class %s", "GJBaseGameLayer")

	assert.Contains(t, wrapped.Error(), "class GJBaseGameLayer")
	assert.Contains(t, wrapped.Error(), "original")
}

func TestWithHint(t *testing.T) {
	err := WithHint(New("error"), "try this fix")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "try this fix", hints[0])
}

func TestStackTrace(t *testing.T) {
	err := New("with stack")
	assert.Contains(t, fmt.Sprintf("%+v", err), "errors_test.go")
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithStack(nil))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.Nil(t, WithDetail(nil, "detail"))
}

func TestInvalidSpecError(t *testing.T) {
	err := NewInvalidSpecError("class %s: field %d", "PlayLayer", 3)

	assert.True(t, IsInvalidSpecError(err))
	assert.True(t, IsInvalidSpecError(Wrap(err, "bindings.yaml")))
	assert.Contains(t, err.Error(), "class PlayLayer: field 3")
	assert.False(t, IsInvalidSpecError(New("something else")))
	assert.False(t, IsInvalidSpecError(nil))
}

func TestInvalidConfigError(t *testing.T) {
	err := NewInvalidConfigError("platform %q", "mac")
	assert.True(t, Is(err, ErrInvalidConfig))
	assert.False(t, Is(err, ErrInvalidSpec))
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{ErrInvalidSpec, ErrUnknownPlatform, ErrIncompatibleSpec, ErrOutOfDate, ErrInvalidConfig}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.False(t, Is(a, b), "%v should not match %v", a, b)
			}
		}
	}
}

func ExampleWrap() {
	baseErr := New("unexpected field kind")
	err := Wrap(baseErr, "failed to load bindings.yaml")
	fmt.Println(err)
	// Output: failed to load bindings.yaml: unexpected field kind
}

func ExampleWithHint() {
	err := WithHint(ErrOutOfDate, "run 'bindgen generate' to refresh the headers")

	hints := GetAllHints(err)
	fmt.Println(hints[0])
	// Output: run 'bindgen generate' to refresh the headers
}
