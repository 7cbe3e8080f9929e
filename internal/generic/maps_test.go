package generic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapKeys(t *testing.T) {
	mapA := map[string]bool{"key1": true, "key2": true}
	mapB := map[string]bool{"key2": true, "key3": true}
	keys := MapKeys(mapA, mapB)
	assert.ElementsMatch(t, keys, []string{"key1", "key2", "key3"})
}

func TestMapCopy(t *testing.T) {
	mapA := map[string]bool{"key1": true, "key2": true}
	mapB := make(map[string]bool)

	MapCopy(mapA, mapB)

	assert.Equal(t, mapA, mapB)
}

func TestSortSlice(t *testing.T) {
	arr := []string{"b", "c", "a"}
	SortSlice(arr, false)
	assert.Equal(t, []string{"a", "b", "c"}, arr)

	SortSlice(arr, true)
	assert.Equal(t, []string{"c", "b", "a"}, arr)
}

func TestMax(t *testing.T) {
	assert.Equal(t, 3, Max(2, 3))
	assert.Equal(t, 3, Max(3, 2))
}
