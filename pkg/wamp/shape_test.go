package wamp

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
)

func TestShapePredicates(t *testing.T) {
	assert.True(t, IsDict(map[string]any{}))
	assert.False(t, IsDict(nil))
	assert.False(t, IsDict([]any{}))
	assert.False(t, IsDict("x"))

	assert.True(t, IsArgs(nil))
	assert.True(t, IsArgs([]any{1}))
	assert.False(t, IsArgs(map[string]any{}))
	assert.False(t, IsArgs(3))

	assert.True(t, IsKwargs(nil))
	assert.True(t, IsKwargs(map[string]any{"a": 1}))
	assert.False(t, IsKwargs([]any{}))
}

func TestAsID(t *testing.T) {
	ok := []any{uint64(7), uint(7), uint32(7), uint16(7), uint8(7), 7, int64(7), int32(7), int16(7), int8(7), json.Number("7"), TypeCall}
	for _, v := range ok {
		id, good := AsID(v)
		assert.True(t, good, "%T", v)
		assert.NotZero(t, id, "%T", v)
	}

	bad := []any{-1, int64(-5), 7.0, float32(7), 1.5, -2.0, json.Number("-1"), json.Number("1.0"), "7", nil, true}
	for _, v := range bad {
		_, good := AsID(v)
		assert.False(t, good, "%T %v", v, v)
	}
}

func TestShapeNames(t *testing.T) {
	assert.Equal(t, "object", ShapeDict.String())
	assert.Equal(t, "array or null", ShapeArgs.String())
	assert.Equal(t, "object or null", ShapeKwargs.String())
	assert.Equal(t, "unknown", Shape(42).String())
}
