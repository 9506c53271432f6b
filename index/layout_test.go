package index

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ebrown2017/Project3-BPlusTree/internal/pagefile"
	"github.com/ebrown2017/Project3-BPlusTree/internal/relation"
)

func newPage() []byte {
	return make([]byte, pagefile.PageSize)
}

func TestMetaViewRoundTrip(t *testing.T) {
	data := newPage()
	m := asMeta(data)
	m.SetRelationName("widgets")
	m.SetAttrByteOffset(8)
	m.SetAttrType(AttrInteger)
	m.SetRootPageNo(3)
	m.SetRootIsLeaf(true)

	m2 := asMeta(data)
	assert.Equal(t, "widgets", m2.RelationName())
	assert.EqualValues(t, 8, m2.AttrByteOffset())
	assert.Equal(t, AttrInteger, m2.AttrType())
	assert.EqualValues(t, 3, m2.RootPageNo())
	assert.True(t, m2.RootIsLeaf())

	m2.SetRootIsLeaf(false)
	assert.False(t, asMeta(data).RootIsLeaf())
}

func TestInitEmptyLeafAllSentinel(t *testing.T) {
	lv := initEmptyLeaf(newPage(), 8)
	for _, k := range lv.Keys {
		assert.Equal(t, MaxKey, k)
	}
	assert.Equal(t, NoPage, lv.RightSibPageNo())
	assert.Equal(t, 0, leafOccupied(lv.Keys))
	assert.False(t, leafIsFull(lv.Keys))
}

func TestLeafViewKeysAndRidsIndependentOfOrder(t *testing.T) {
	lv := initEmptyLeaf(newPage(), 4)
	lv.Keys[0] = 5
	lv.Rids[0] = relation.RID{PageNo: 1, SlotNo: 2}
	lv.Keys[1] = 9
	lv.Rids[1] = relation.RID{PageNo: 3, SlotNo: 4}

	assert.EqualValues(t, 2, leafOccupied(lv.Keys))
	assert.Equal(t, relation.RID{PageNo: 1, SlotNo: 2}, lv.Rids[0])
	assert.Equal(t, relation.RID{PageNo: 3, SlotNo: 4}, lv.Rids[1])
}

func TestInitEmptyInternalSetsLevel(t *testing.T) {
	iv := initEmptyInternal(newPage(), 8, 1)
	assert.Equal(t, 1, iv.Level())
	for _, k := range iv.Keys {
		assert.Equal(t, MaxKey, k)
	}
	assert.False(t, internalIsFull(iv.Keys))
}

func TestDefaultCapacitiesFitWithinPage(t *testing.T) {
	leafCap, nodeCap := defaultCapacities()
	assert.Greater(t, leafCap, 2)
	assert.Greater(t, nodeCap, 2)
	assert.LessOrEqual(t, leafFixedSize+leafCap*leafEntrySize, pagefile.PageSize)
	assert.LessOrEqual(t, internalFixedSize+nodeCap*internalKeySize+(nodeCap+1)*internalChildSize, pagefile.PageSize)
}
