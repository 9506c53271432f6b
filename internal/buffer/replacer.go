package buffer

import (
	lru "github.com/hashicorp/golang-lru"
)

// replacer picks an unpinned frame to evict when the free list is empty.
// Frames become victim-eligible on Unpin and ineligible again on Pin.
type replacer interface {
	victim() (int, bool)
	pin(frameID int)
	unpin(frameID int)
	size() int
}

// lruReplacer evicts the least-recently-unpinned frame first.
type lruReplacer struct {
	internal *lru.Cache
}

func newLRUReplacer(numFrames int) *lruReplacer {
	c, err := lru.New(numFrames)
	if err != nil {
		panic(err)
	}
	return &lruReplacer{internal: c}
}

func (r *lruReplacer) pin(frameID int) {
	r.internal.Remove(frameID)
}

func (r *lruReplacer) victim() (int, bool) {
	key, _, ok := r.internal.RemoveOldest()
	if !ok {
		return 0, false
	}
	return key.(int), true
}

func (r *lruReplacer) unpin(frameID int) {
	r.internal.ContainsOrAdd(frameID, struct{}{})
}

func (r *lruReplacer) size() int { return r.internal.Len() }
