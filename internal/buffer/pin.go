package buffer

import "github.com/ebrown2017/Project3-BPlusTree/internal/pagefile"

// Pinned wraps a fetched Frame with a single guaranteed-once Release,
// addressing the pin/unpin bug surface called out for this kind of code:
// every exit path (including early-return error paths) must release
// exactly the pins it acquired, with the correct dirty bit.
type Pinned struct {
	pool     *Pool
	id       pagefile.PageID
	frame    *Frame
	released bool
}

// Pin wraps an already-fetched frame so its release is tracked.
func Pin(pool *Pool, id pagefile.PageID, frame *Frame) *Pinned {
	return &Pinned{pool: pool, id: id, frame: frame}
}

// Frame returns the underlying pinned frame.
func (p *Pinned) Frame() *Frame { return p.frame }

// Release unpins the frame with the given dirty bit. It is a no-op if
// already released, so it is safe to call from both a normal return path
// and a deferred cleanup.
func (p *Pinned) Release(dirty bool) {
	if p.released {
		return
	}
	p.released = true
	_ = p.pool.UnpinPage(p.id, dirty)
}
