package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type schemaFixture struct {
	Name     string   `json:"name" description:"Display name" validate:"required"`
	Count    int      `json:"count" description:"How many"`
	Ratio    float64  `json:"ratio"`
	Active   bool     `json:"active,omitempty"`
	Tags     []string `json:"tags"`
	Nested   *nested  `json:"nested"`
	Ignored  string   `json:"-"`
	internal string
}

type nested struct {
	Value string `json:"value" validate:"required"`
}

func TestFromStruct(t *testing.T) {
	s, err := FromStruct(schemaFixture{})
	require.NoError(t, err)

	assert.Equal(t, "object", s.Type)
	assert.Equal(t, []string{"name"}, s.Required)

	assert.Equal(t, "string", s.Properties["name"].Type)
	assert.Equal(t, "Display name", s.Properties["name"].Description)
	assert.Equal(t, "integer", s.Properties["count"].Type)
	assert.Equal(t, "number", s.Properties["ratio"].Type)
	assert.Equal(t, "boolean", s.Properties["active"].Type)

	require.NotNil(t, s.Properties["tags"].Items)
	assert.Equal(t, "array", s.Properties["tags"].Type)
	assert.Equal(t, "string", s.Properties["tags"].Items.Type)

	require.NotNil(t, s.Properties["nested"])
	assert.Equal(t, "object", s.Properties["nested"].Type)
	assert.Equal(t, []string{"value"}, s.Properties["nested"].Required)

	assert.NotContains(t, s.Properties, "-")
	assert.NotContains(t, s.Properties, "Ignored")
	assert.NotContains(t, s.Properties, "internal")
}

func TestFromStructPointer(t *testing.T) {
	s, err := FromStruct(&schemaFixture{})
	require.NoError(t, err)
	assert.Equal(t, "object", s.Type)
}

func TestFromStructNil(t *testing.T) {
	_, err := FromStruct(nil)
	assert.Error(t, err)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bare object",
			in:   `{"a":1}`,
			want: `{"a":1}`,
		},
		{
			name: "object wrapped in prose",
			in:   "Sure, here is the plan:\n{\"a\":1}\nLet me know!",
			want: `{"a":1}`,
		},
		{
			name: "nested objects",
			in:   `{"a":{"b":{"c":3}}}`,
			want: `{"a":{"b":{"c":3}}}`,
		},
		{
			name: "braces inside strings",
			in:   `{"text":"a } b { c"}`,
			want: `{"text":"a } b { c"}`,
		},
		{
			name: "escaped quotes inside strings",
			in:   `{"text":"say \"}\" loudly"}`,
			want: `{"text":"say \"}\" loudly"}`,
		},
		{
			name: "only first object returned",
			in:   `{"a":1} {"b":2}`,
			want: `{"a":1}`,
		},
		{
			name: "no object",
			in:   "just words",
			want: "",
		},
		{
			name: "unbalanced",
			in:   `{"a":1`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.in))
		})
	}
}
