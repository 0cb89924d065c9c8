package core

import (
	"testing"

	"github.com/huangsam/whodunit/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnnotation(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		expected *schema.Annotation
	}{
		{
			name: "trailing blank line after exit",
			output: "info: //depot/foo.c#3 - edit change 30 (text)\n" +
				"text: 10-30:alpha\n" +
				"text: 10-20:beta\n" +
				"exit: 0\n",
			expected: &schema.Annotation{
				Path:         "foo.c",
				Header:       "info: //depot/foo.c#3 - edit change 30 (text)",
				LatestChange: 30,
				Entries: []schema.RawEntry{
					{FromChange: 10, ToChange: 30, Text: "alpha"},
					{FromChange: 10, ToChange: 20, Text: "beta"},
				},
			},
		},
		{
			name: "exit on the last line",
			output: "info: file#1 - add change 7 (text)\n" +
				"text: 7-7:only\n" +
				"exit:",
			expected: &schema.Annotation{
				Path:         "foo.c",
				Header:       "info: file#1 - add change 7 (text)",
				LatestChange: 7,
				Entries:      []schema.RawEntry{{FromChange: 7, ToChange: 7, Text: "only"}},
			},
		},
		{
			name:   "empty file",
			output: "info: file#2 - edit change 5 (text)\nexit: 0\n",
			expected: &schema.Annotation{
				Path:         "foo.c",
				Header:       "info: file#2 - edit change 5 (text)",
				LatestChange: 5,
				Entries:      []schema.RawEntry{},
			},
		},
		{
			name: "payload keeps colons and leading spaces",
			output: "info: file#2 - edit change 5 (text)\n" +
				"  text: 3-5:  key: value:\n" +
				"exit: 0\n",
			expected: &schema.Annotation{
				Path:         "foo.c",
				Header:       "info: file#2 - edit change 5 (text)",
				LatestChange: 5,
				Entries:      []schema.RawEntry{{FromChange: 3, ToChange: 5, Text: "  key: value:"}},
			},
		},
		{
			name: "empty payload",
			output: "info: file#2 - edit change 5 (text)\n" +
				"text: 3-5:\n" +
				"exit: 0\n",
			expected: &schema.Annotation{
				Path:         "foo.c",
				Header:       "info: file#2 - edit change 5 (text)",
				LatestChange: 5,
				Entries:      []schema.RawEntry{{FromChange: 3, ToChange: 5, Text: ""}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ann, err := ParseAnnotation("foo.c", []byte(tt.output))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ann)
		})
	}
}

func TestParseAnnotationMalformed(t *testing.T) {
	tests := []struct {
		name   string
		output string
		errMsg string
	}{
		{
			name:   "empty output",
			output: "",
			errMsg: "cannot find info:",
		},
		{
			name:   "missing info header",
			output: "text: 1-2:a\nexit: 0\n",
			errMsg: "cannot find info:",
		},
		{
			name:   "missing exit terminator",
			output: "info: file#1 - edit change 2 (text)\ntext: 1-2:a\n",
			errMsg: "cannot find exit:",
		},
		{
			name:   "missing exit terminator without trailing newline",
			output: "info: file#1 - edit change 2 (text)\ntext: 1-2:a",
			errMsg: "cannot find exit:",
		},
		{
			name:   "two blank lines after exit",
			output: "info: file#1 - edit change 2 (text)\ntext: 1-2:a\nexit: 0\n\n",
			errMsg: "cannot find exit:",
		},
		{
			name:   "header only",
			output: "info: file#1 - edit change 2 (text)",
			errMsg: "cannot find exit:",
		},
		{
			name:   "no latest change in header",
			output: "info: file#1 - deleted\nexit: 0\n",
			errMsg: "cannot find the latest change number",
		},
		{
			name:   "body line is not a text record",
			output: "info: file#1 - edit change 2 (text)\ntext: 1-2:a\nwarning: something\nexit: 0\n",
			errMsg: `unrecognized line in foo.c: "warning: something"`,
		},
		{
			name:   "blank body line",
			output: "info: file#1 - edit change 2 (text)\n\ntext: 1-2:a\nexit: 0\n",
			errMsg: "unrecognized line",
		},
		{
			name:   "revision range is not numeric",
			output: "info: file#1 - edit change 2 (text)\ntext: a-b:a\nexit: 0\n",
			errMsg: "unrecognized line",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ann, err := ParseAnnotation("foo.c", []byte(tt.output))
			assert.Nil(t, ann)
			require.ErrorIs(t, err, ErrMalformedAnnotation)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
