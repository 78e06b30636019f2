package logger

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// stripANSI removes ANSI color codes from a string for testing
func stripANSI(str string) string {
	ansiRegex := regexp.MustCompile(`\x1b\[[0-9;]*m`)
	return ansiRegex.ReplaceAllString(str, "")
}

// The console encoder must never silently discard fields.
func TestMinimalEncoderNeverDiscardsFields(t *testing.T) {
	encoder := newMinimalEncoder()
	entry := zapcore.Entry{
		Level:      zapcore.InfoLevel,
		Time:       time.Now(),
		LoggerName: "unit",
		Message:    "wrote unit",
	}

	testFields := []struct {
		field    zapcore.Field
		mustFind string
	}{
		{zap.String(FieldClass, "PlayLayer"), "class=PlayLayer"},
		{zap.String(FieldPlatform, "win"), "platform=win"},
		{zap.Int(FieldCount, 12), "count=12"},
		{zap.Bool("open", true), "open=true"},
		{zap.Int64("address", 0x1400), "address=5120"},
		{zap.String("field.with.dots", "x"), "field.with.dots=x"},
		{zap.Error(nil), ""},
	}

	var fields []zapcore.Field
	for _, tf := range testFields {
		fields = append(fields, tf.field)
	}

	buf, err := encoder.EncodeEntry(entry, fields)
	require.NoError(t, err)
	clean := stripANSI(buf.String())

	for _, tf := range testFields {
		if tf.mustFind != "" {
			assert.Contains(t, clean, tf.mustFind)
		}
	}
	assert.Contains(t, clean, "  unit  wrote unit  ")
	assert.True(t, strings.HasSuffix(clean, "\n"))
}

func TestMinimalEncoderLevels(t *testing.T) {
	encoder := newMinimalEncoder()

	for level, want := range map[zapcore.Level]string{
		zapcore.InfoLevel:  "",
		zapcore.WarnLevel:  "WARN",
		zapcore.ErrorLevel: "ERROR",
		zapcore.DebugLevel: "DEBUG",
	} {
		buf, err := encoder.EncodeEntry(zapcore.Entry{Level: level, Message: "m"}, nil)
		require.NoError(t, err)
		clean := stripANSI(buf.String())
		if want == "" {
			assert.NotContains(t, clean, "WARN")
			assert.NotContains(t, clean, "ERROR")
		} else {
			assert.Contains(t, clean, want)
		}
	}
}

func TestMinimalEncoderKeepsContextFields(t *testing.T) {
	var out bytes.Buffer
	core := zapcore.NewCore(newMinimalEncoder(), zapcore.AddSync(&out), zapcore.DebugLevel)
	log := zap.New(core).Sugar().With(FieldRunID, "abc")

	log.Infow("first", FieldUnit, "A.hpp")
	log.Infow("second")

	lines := strings.Split(strings.TrimSpace(stripANSI(out.String())), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "run_id=abc")
	assert.Contains(t, lines[0], "unit=A.hpp")
	assert.Contains(t, lines[1], "run_id=abc")
	assert.NotContains(t, lines[1], "unit=")
}

func TestFormatFieldsSorted(t *testing.T) {
	got := stripANSI(formatFields(map[string]interface{}{"b": 2, "a": "x"}))
	assert.Equal(t, "a=x b=2", got)
	assert.Empty(t, formatFields(nil))
}
