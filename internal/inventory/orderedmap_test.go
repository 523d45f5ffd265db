package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderedMapPreservesInsertionOrder(t *testing.T) {
	m := NewOrderedMap[string, int]()
	m.Set("b", 2)
	m.Set("a", 1)
	m.Set("b", 20) // update, must not move

	assert.Equal(t, []string{"b", "a"}, m.Keys())
	v, ok := m.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 20, v)
}

func TestOrderedMapDelete(t *testing.T) {
	m := NewOrderedMap[int, string]()
	m.Set(1, "x")
	m.Set(2, "y")
	m.Set(3, "z")
	m.Delete(2)

	assert.Equal(t, []int{1, 3}, m.Keys())
	_, ok := m.Get(2)
	assert.False(t, ok)
}

func TestOrderedMapMoveToEnd(t *testing.T) {
	m := NewOrderedMap[int, string]()
	m.Set(1, "x")
	m.Set(2, "y")
	m.Set(3, "z")
	m.MoveToEnd(1)

	assert.Equal(t, []int{2, 3, 1}, m.Keys())
}
