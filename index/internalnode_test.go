package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebrown2017/Project3-BPlusTree/internal/pagefile"
)

func fullInternal(t *testing.T, cap int, keys []int32, children []pagefile.PageID) InternalView {
	t.Helper()
	require.Len(t, keys, cap)
	require.Len(t, children, cap+1)
	iv := initEmptyInternal(newPage(), cap, 1)
	for i, k := range keys {
		iv.Keys[i] = k
	}
	for i, c := range children {
		iv.Children[i] = c
	}
	require.True(t, internalIsFull(iv.Keys))
	return iv
}

func TestInternalLocate(t *testing.T) {
	keys := []int32{10, 20, 30, 40}
	assert.Equal(t, 0, internalLocate(keys, 5))
	assert.Equal(t, 2, internalLocate(keys, 25))
	assert.Equal(t, 4, internalLocate(keys, 45))
}

func TestInternalSplitLeftOfMidpoint(t *testing.T) {
	iv := fullInternal(t, 4, []int32{10, 20, 30, 40}, []pagefile.PageID{0, 1, 2, 3, 4})
	sib := initEmptyInternal(newPage(), 4, iv.Level())

	promoted, sibID := internalSplit(iv, 77, sib, 1, 15, 100)

	assert.Equal(t, int32(20), promoted)
	assert.EqualValues(t, 77, sibID)
	assert.Equal(t, []int32{10, 15, MaxKey, MaxKey}, iv.Keys)
	assert.Equal(t, []pagefile.PageID{0, 1, 100, 2, 3}, iv.Children[:5])
	assert.Equal(t, []int32{30, 40, MaxKey, MaxKey}, sib.Keys)
	assert.Equal(t, []pagefile.PageID{2, 3, 4}, sib.Children[:3])
}

func TestInternalSplitLeftOfMidpointAtFrontShiftsSurvivors(t *testing.T) {
	iv := fullInternal(t, 4, []int32{10, 20, 30, 40}, []pagefile.PageID{0, 1, 2, 3, 4})
	sib := initEmptyInternal(newPage(), 4, iv.Level())

	promoted, _ := internalSplit(iv, 77, sib, 0, 5, 100)

	assert.Equal(t, int32(20), promoted)
	assert.Equal(t, []int32{5, 10, MaxKey, MaxKey}, iv.Keys)
	assert.Equal(t, []pagefile.PageID{0, 100, 1, 3}, iv.Children[:4])
}

func TestInternalSplitAtMidpoint(t *testing.T) {
	iv := fullInternal(t, 4, []int32{10, 20, 30, 40}, []pagefile.PageID{0, 1, 2, 3, 4})
	sib := initEmptyInternal(newPage(), 4, iv.Level())

	promoted, _ := internalSplit(iv, 77, sib, 2, 25, 100)

	assert.Equal(t, int32(25), promoted)
	assert.Equal(t, []int32{10, 20, MaxKey, MaxKey}, iv.Keys)
	assert.Equal(t, []int32{30, 40, MaxKey, MaxKey}, sib.Keys)
	assert.Equal(t, []pagefile.PageID{100, 3, 4}, sib.Children[:3])
}

func TestInternalSplitRightOfMidpoint(t *testing.T) {
	iv := fullInternal(t, 4, []int32{10, 20, 30, 40}, []pagefile.PageID{0, 1, 2, 3, 4})
	sib := initEmptyInternal(newPage(), 4, iv.Level())

	promoted, _ := internalSplit(iv, 77, sib, 3, 35, 100)

	assert.Equal(t, int32(30), promoted)
	assert.Equal(t, []int32{10, 20, MaxKey, MaxKey}, iv.Keys)
	assert.Equal(t, []int32{35, 40, MaxKey, MaxKey}, sib.Keys)
	assert.Equal(t, []pagefile.PageID{3, 100, 4}, sib.Children[:3])
}
