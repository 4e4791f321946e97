package utils

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiagnosticLevels(t *testing.T) {
	tests := []struct {
		level DiagnosticLevel
		want  []string
		skip  []string
	}{
		{level: DiagnosticSilent, skip: []string{"[ERROR]", "[WARN]", "[INFO]"}},
		{level: DiagnosticError, want: []string{"[ERROR] e"}, skip: []string{"[WARN]"}},
		{level: DiagnosticWarn, want: []string{"[ERROR] e", "[WARN] w"}, skip: []string{"[INFO]"}},
		{level: DiagnosticInfo, want: []string{"[INFO] i", "[SUCCESS] s"}, skip: []string{"[VERBOSE]"}},
		{level: DiagnosticDebug, want: []string{"[VERBOSE] v", "[DEBUG] d"}},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		d := NewBufferedDiagnostics(tt.level, &buf)
		d.Error("e")
		d.Warn("w")
		d.Info("i")
		d.Success("s")
		d.Verbose("v")
		d.Debug("d")

		for _, want := range tt.want {
			assert.Contains(t, buf.String(), want, "level %d", tt.level)
		}
		for _, skip := range tt.skip {
			assert.NotContains(t, buf.String(), skip, "level %d", tt.level)
		}
	}
}

func TestDiagnosticPrefix(t *testing.T) {
	var buf bytes.Buffer
	d := NewBufferedDiagnostics(DiagnosticInfo, &buf).WithPrefix("[demo]")
	d.Warn("missing %s", "vue")

	assert.Equal(t, "[WARN] [demo] missing vue\n", buf.String())
	assert.Equal(t, DiagnosticInfo, d.Level())
}

func TestDiagnosticFormatting(t *testing.T) {
	var buf bytes.Buffer
	d := NewBufferedDiagnostics(DiagnosticInfo, &buf)

	d.Section("devbar")
	d.Subsection("Apps")
	d.List("%s", "demo")
	d.Check(true, "vue")
	d.Check(false, "react")
	d.Summary("Done", []string{"B", "A"}, map[string]interface{}{"A": 1, "B": 2})

	out := buf.String()
	assert.Contains(t, out, "devbar\n")
	assert.Contains(t, out, "\nApps:\n")
	assert.Contains(t, out, "- demo\n")
	assert.Contains(t, out, "✓ vue\n")
	assert.Contains(t, out, "✗ react\n")
	assert.Less(t, strings.Index(out, "B: 2"), strings.Index(out, "A: 1"))
}

func TestShouldUseColors(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	t.Setenv("FORCE_COLOR", "1")
	assert.False(t, shouldUseColors())

	t.Setenv("NO_COLOR", "")
	assert.True(t, shouldUseColors())

	t.Setenv("FORCE_COLOR", "")
	t.Setenv("TERM", "dumb")
	assert.False(t, shouldUseColors())
}
