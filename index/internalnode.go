package index

import "github.com/ebrown2017/Project3-BPlusTree/internal/pagefile"

// internalLocate returns the smallest slot i such that keys[i] >= k,
// treating MaxKey as empty. Children[i] is the child to descend into on
// insert/lookup.
func internalLocate(keys []int32, k int32) int {
	i := 0
	for i < len(keys) && keys[i] < k {
		i++
	}
	return i
}

// internalInsertNonFull inserts separator splitKey and right child
// splitPageNo at slot i of an internal node known to have at least one
// empty slot, shifting survivors right.
func internalInsertNonFull(iv InternalView, i int, splitKey int32, splitPageNo pagefile.PageID) {
	occupied := internalOccupied(iv.Keys)
	copy(iv.Keys[i+1:occupied+1], iv.Keys[i:occupied])
	copy(iv.Children[i+2:occupied+2], iv.Children[i+1:occupied+1])
	iv.Keys[i] = splitKey
	iv.Children[i+1] = splitPageNo
}

// internalSplit splits a full internal node iv into itself and a new right
// sibling sib (same level), inserting the incoming (splitKey, splitPageNo)
// child-split result at slot i. It returns the separator promoted to the
// grandparent and the new sibling's page id, per the three-case arithmetic
// of spec.md §4.3.
func internalSplit(iv InternalView, sibID pagefile.PageID, sib InternalView, i int, splitKey int32, splitPageNo pagefile.PageID) (promotedKey int32, promotedPageNo pagefile.PageID) {
	N := iv.Cap
	mid := N / 2

	switch {
	case i < mid:
		for j := mid; j < N; j++ {
			sib.Keys[j-mid] = iv.Keys[j]
			sib.Children[j-mid+1] = iv.Children[j+1]
		}
		sib.Children[0] = iv.Children[mid]
		promotedKey = iv.Keys[mid-1]

		for j := mid - 2; j >= i; j-- {
			iv.Keys[j+1] = iv.Keys[j]
			iv.Children[j+2] = iv.Children[j+1]
		}
		for j := mid; j < N; j++ {
			iv.Keys[j] = MaxKey
		}
		iv.Keys[i] = splitKey
		iv.Children[i+1] = splitPageNo

	case i == mid:
		for j := mid; j < N; j++ {
			sib.Keys[j-mid] = iv.Keys[j]
			sib.Children[j-mid+1] = iv.Children[j+1]
		}
		sib.Children[0] = splitPageNo
		promotedKey = splitKey
		for j := mid; j < N; j++ {
			iv.Keys[j] = MaxKey
		}

	default: // i > mid
		promotedKey = iv.Keys[mid]
		mid++
		sib.Children[0] = iv.Children[mid]
		for j := mid; j < i; j++ {
			sib.Keys[j-mid] = iv.Keys[j]
			sib.Children[j-mid+1] = iv.Children[j+1]
		}
		sib.Keys[i-mid] = splitKey
		sib.Children[i-mid+1] = splitPageNo
		for j := i; j < N; j++ {
			sib.Keys[j-mid+1] = iv.Keys[j]
			sib.Children[j-mid+2] = iv.Children[j+1]
		}
		for j := mid - 1; j < N; j++ {
			iv.Keys[j] = MaxKey
		}
	}

	return promotedKey, sibID
}
