package index

import (
	"github.com/ebrown2017/Project3-BPlusTree/internal/pagefile"
	"github.com/ebrown2017/Project3-BPlusTree/internal/relation"
)

// leafLocate returns the smallest slot i such that keys[i] >= k, treating a
// MaxKey slot as empty and therefore as the end of the occupied range.
func leafLocate(keys []int32, k int32) int {
	i := 0
	for i < len(keys) && keys[i] < k {
		i++
	}
	return i
}

// leafInsertNonFull inserts (k, rid) into a leaf known to have at least one
// empty slot, shifting survivors right of the insertion point.
func leafInsertNonFull(lv LeafView, i int, k int32, rid relation.RID) {
	occupied := leafOccupied(lv.Keys)
	copy(lv.Keys[i+1:occupied+1], lv.Keys[i:occupied])
	copy(lv.Rids[i+1:occupied+1], lv.Rids[i:occupied])
	lv.Keys[i] = k
	lv.Rids[i] = rid
}

// leafSplit splits a full leaf lv into itself and a newly allocated right
// sibling sib (at page id sibID), inserting (k, rid) into whichever half
// its slot falls in. It returns the separator key promoted to the parent:
// the new sibling's first key.
//
// mid = (L-1)/2 is fixed regardless of which half receives the new entry,
// per spec.md §4.2 — this is why the i<=mid and i>mid cases split the
// array at different final points.
func leafSplit(lv LeafView, sibID pagefile.PageID, sib LeafView, i int, k int32, rid relation.RID) int32 {
	L := lv.Cap
	mid := (L - 1) / 2

	if i <= mid {
		n := copy(sib.Keys[:L-mid], lv.Keys[mid:L])
		copy(sib.Rids[:n], lv.Rids[mid:L])

		copy(lv.Keys[i+1:mid+1], lv.Keys[i:mid])
		copy(lv.Rids[i+1:mid+1], lv.Rids[i:mid])
		for j := mid + 1; j < L; j++ {
			lv.Keys[j] = MaxKey
		}
		lv.Keys[i] = k
		lv.Rids[i] = rid
	} else {
		mid++
		n := copy(sib.Keys[:i-mid], lv.Keys[mid:i])
		copy(sib.Rids[:n], lv.Rids[mid:i])
		sib.Keys[i-mid] = k
		sib.Rids[i-mid] = rid
		m := copy(sib.Keys[i-mid+1:], lv.Keys[i:L])
		copy(sib.Rids[i-mid+1:i-mid+1+m], lv.Rids[i:L])
		for j := mid; j < L; j++ {
			lv.Keys[j] = MaxKey
		}
	}

	sib.SetRightSibPageNo(lv.RightSibPageNo())
	lv.SetRightSibPageNo(sibID)
	return sib.Keys[0]
}
