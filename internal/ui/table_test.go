package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStyles() Styles {
	return NewStyles(DarkTheme())
}

func TestRenderTableBasic(t *testing.T) {
	raw := []byte(`[
		{"product": "Widget", "quantity": 12, "price": 3.5},
		{"product": "Gadget", "quantity": 7, "price": 14.25}
	]`)

	out, ok := RenderTable(raw, testStyles())
	require.True(t, ok)

	assert.Contains(t, out, "product")
	assert.Contains(t, out, "quantity")
	assert.Contains(t, out, "price")
	assert.Contains(t, out, "Widget")
	assert.Contains(t, out, "14.25")
	assert.Contains(t, out, "12")
}

func TestRenderTableSortsColumns(t *testing.T) {
	raw := []byte(`[{"zebra": 1, "apple": 2, "mango": 3}]`)

	out, ok := RenderTable(raw, testStyles())
	require.True(t, ok)

	apple := strings.Index(out, "apple")
	mango := strings.Index(out, "mango")
	zebra := strings.Index(out, "zebra")
	assert.Less(t, apple, mango)
	assert.Less(t, mango, zebra)
}

func TestRenderTableRejectsNonTabular(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", "hello there"},
		{"object", `{"a": 1}`},
		{"empty array", `[]`},
		{"nested value", `[{"a": {"b": 1}}]`},
		{"array value", `[{"a": [1, 2]}]`},
		{"mismatched columns", `[{"a": 1}, {"b": 2}]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := RenderTable([]byte(tc.raw), testStyles())
			assert.False(t, ok)
		})
	}
}

func TestRenderTableNullCell(t *testing.T) {
	raw := []byte(`[{"a": null, "b": "x"}, {"a": "y", "b": null}]`)

	out, ok := RenderTable(raw, testStyles())
	require.True(t, ok)
	assert.Contains(t, out, "x")
	assert.Contains(t, out, "y")
}
