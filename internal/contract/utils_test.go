package contract

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/whodunit/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeparatorFor(t *testing.T) {
	assert.Equal(t, "|", SeparatorFor(schema.PresentStatus))
	assert.Equal(t, "-", SeparatorFor(schema.DeletedStatus))
}

func TestGetColorSeparator(t *testing.T) {
	present := GetColorSeparator(schema.PresentStatus)
	deleted := GetColorSeparator(schema.DeletedStatus)

	assert.True(t, strings.HasPrefix(present, "\x1b["), "colors are forced even without a terminal")
	assert.Contains(t, present, "|")
	assert.Contains(t, deleted, "-")
	assert.NotEqual(t, present, deleted)
}

func TestGetColorOwner(t *testing.T) {
	colored := GetColorOwner("amy")
	assert.Contains(t, colored, "amy")
	assert.NotEqual(t, "amy", colored)
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
		wantErr  bool
	}{
		{input: "yes", expected: true},
		{input: "TRUE", expected: true},
		{input: "1", expected: true},
		{input: "no", expected: false},
		{input: "False", expected: false},
		{input: "0", expected: false},
		{input: "maybe", wantErr: true},
		{input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBoolString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		f, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, f)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.txt")
		f, err := SelectOutputFile(path)
		require.NoError(t, err)
		defer func() { _ = f.Close() }()
		assert.Equal(t, path, f.Name())
	})
}

func TestGetOwnerDBFilePath(t *testing.T) {
	assert.Equal(t, ".whodunit_owners.db", filepath.Base(GetOwnerDBFilePath()))
}

func TestLogger(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	t.Run("gated by verbosity", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewLogger(1, &buf)
		log.now = func() time.Time { return fixed }

		log.V(1, "file: %s", "foo.c")
		log.V(2, "change %d owner %s", 10, "amy")

		out := buf.String()
		assert.Contains(t, out, "2024-03-01 12:30:00 file: foo.c\n")
		assert.NotContains(t, out, "owner amy")
		assert.True(t, log.Enabled(1))
		assert.False(t, log.Enabled(2))
	})

	t.Run("infof always writes", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewLogger(0, &buf)
		log.Infof("hello %s", "world")
		assert.Contains(t, buf.String(), "INFO")
		assert.Contains(t, buf.String(), "hello world")
	})

	t.Run("nil logger discards", func(t *testing.T) {
		var log *Logger
		assert.NotPanics(t, func() { log.V(0, "ignored") })
		assert.False(t, log.Enabled(0))
	})
}
