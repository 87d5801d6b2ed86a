package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectSortedKeys(t *testing.T) {
	obj := Object{"zebra": Int(1), "alpha": Int(2), "beta": Int(3)}
	assert.Equal(t, []string{"alpha", "beta", "zebra"}, obj.SortedKeys())
	assert.Empty(t, Object{}.SortedKeys())
}

func TestCompareKeysUTF16(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"a", "b", -1},
		{"b", "a", 1},
		{"a", "a", 0},
		{"a", "ab", -1},
		{"\U00010000", "\uE000", -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, compareKeysUTF16(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}

func TestFromAny(t *testing.T) {
	got, err := FromAny(map[string]any{
		"title":  "Go",
		"read":   true,
		"count":  3,
		"big":    int64(1 << 40),
		"tags":   []any{"a", "b"},
		"nested": map[string]any{"x": 1},
		"typed":  String("kept"),
	})
	require.NoError(t, err)

	assert.Equal(t, Object{
		"title":  String("Go"),
		"read":   Bool(true),
		"count":  Int(3),
		"big":    Int(1 << 40),
		"tags":   Array{String("a"), String("b")},
		"nested": Object{"x": Int(1)},
		"typed":  String("kept"),
	}, got)
}

func TestFromAnyRejects(t *testing.T) {
	tests := []struct {
		name  string
		input any
		msg   string
	}{
		{"nil", nil, "null"},
		{"float", 1.5, "floats"},
		{"nested float", []any{1, 2.5}, "[1]"},
		{"nested nil", map[string]any{"k": nil}, `["k"]`},
		{"struct", struct{}{}, "unsupported"},
		{"uint overflow", uint64(1 << 63), "out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromAny(tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
