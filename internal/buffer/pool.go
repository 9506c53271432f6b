// Package buffer implements the buffered page cache that sits between the
// B+ tree index and the paged file: pinned frames, an LRU eviction policy,
// and a flushFile operation used on index close.
package buffer

import (
	"container/list"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ebrown2017/Project3-BPlusTree/internal/pagefile"
)

// Frame is a pinned reference to a page-sized buffer backed by the pool.
// Callers read and mutate GetData() in place; mutations are only durable
// once the frame is unpinned with dirty=true (or explicitly flushed).
type Frame struct {
	mu       *sync.RWMutex
	frameIdx int
	pageID   pagefile.PageID
	valid    bool
	pinCount int
	data     []byte
	dirty    bool
}

func (p *Frame) GetData() []byte          { return p.data }
func (p *Frame) GetLock() *sync.RWMutex   { return p.mu }
func (p *Frame) GetPageID() pagefile.PageID { return p.pageID }

func (p *Frame) reset() {
	for i := range p.data {
		p.data[i] = 0
	}
	p.dirty = false
	p.valid = false
	p.pinCount = 0
}

func (p *Frame) assign(id pagefile.PageID) {
	p.pageID = id
	p.valid = true
	p.dirty = false
	p.pinCount = 0
}

// Pool is a fixed-size pool of page frames backed by a single pagefile.File.
// It implements the allocPage / readPage / unPinPage / flushFile contract
// consumed by the B+ tree index.
type Pool struct {
	mu        sync.Mutex
	file      *pagefile.File
	frames    []Frame
	pageTable map[pagefile.PageID]*Frame
	freeList  *list.List
	replacer  replacer
	log       logrus.FieldLogger
}

// NewPool creates a buffer pool of the given frame capacity over file. log
// may be nil, in which case logrus.StandardLogger() is used.
func NewPool(size int, file *pagefile.File, log logrus.FieldLogger) *Pool {
	if log == nil {
		log = logrus.StandardLogger()
	}
	frames := make([]Frame, size)
	freeList := list.New()
	for i := range frames {
		frames[i].mu = &sync.RWMutex{}
		frames[i].frameIdx = i
		frames[i].data = make([]byte, pagefile.PageSize)
		freeList.PushBack(i)
	}
	return &Pool{
		file:      file,
		frames:    frames,
		pageTable: map[pagefile.PageID]*Frame{},
		freeList:  freeList,
		replacer:  newLRUReplacer(size),
		log:       log,
	}
}

// victimFrame picks a frame from the free list first, falling back to the
// LRU replacer. It must be called with mu held.
func (p *Pool) victimFrame() (*Frame, bool) {
	if p.freeList.Len() != 0 {
		elem := p.freeList.Front()
		p.freeList.Remove(elem)
		return &p.frames[elem.Value.(int)], true
	}
	frameIdx, ok := p.replacer.victim()
	if !ok {
		return nil, false
	}
	return &p.frames[frameIdx], true
}

func (p *Pool) evict(frame *Frame) error {
	if !frame.valid {
		return nil
	}
	delete(p.pageTable, frame.pageID)
	if frame.dirty {
		if err := p.file.WritePage(frame.pageID, frame.data); err != nil {
			return errors.Wrapf(err, "buffer: evict dirty page %d", frame.pageID)
		}
	}
	return nil
}

// NewPage allocates a fresh page in the backing file and returns it pinned
// and zeroed. It returns an error if every frame is pinned.
func (p *Pool) NewPage() (*Frame, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	frame, ok := p.victimFrame()
	if !ok {
		return nil, errors.New("buffer: no free frames, all pages pinned")
	}
	if err := p.evict(frame); err != nil {
		return nil, err
	}

	id := p.file.AllocPage()
	frame.reset()
	frame.assign(id)
	frame.pinCount = 1
	p.pageTable[id] = frame
	p.log.WithField("page", id).Debug("buffer: allocated new page")
	return frame, nil
}

// FetchPage pins and returns the frame for id, reading it from the backing
// file if it is not already cached.
func (p *Pool) FetchPage(id pagefile.PageID) (*Frame, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if frame, ok := p.pageTable[id]; ok {
		frame.pinCount++
		p.replacer.pin(frame.frameIdx)
		return frame, nil
	}

	frame, ok := p.victimFrame()
	if !ok {
		return nil, errors.New("buffer: no free frames, all pages pinned")
	}
	if err := p.evict(frame); err != nil {
		return nil, err
	}

	frame.reset()
	if err := p.file.ReadPage(id, frame.data); err != nil {
		return nil, errors.Wrapf(err, "buffer: fetch page %d", id)
	}
	frame.assign(id)
	frame.pinCount = 1
	p.pageTable[id] = frame
	return frame, nil
}

// UnpinPage releases one pin on id. dirty must be true iff the page was
// mutated while pinned; it is sticky across multiple concurrent pins (a
// later unpin with dirty=false does not clear an earlier dirty mark).
func (p *Pool) UnpinPage(id pagefile.PageID, dirty bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	frame, ok := p.pageTable[id]
	if !ok {
		return errors.Errorf("buffer: unpin of page %d not in pool", id)
	}
	if frame.pinCount == 0 {
		return errors.Errorf("buffer: unpin of page %d with zero pin count", id)
	}
	if dirty {
		frame.dirty = true
	}
	frame.pinCount--
	if frame.pinCount == 0 {
		p.replacer.unpin(frame.frameIdx)
	}
	return nil
}

// DeletePage drops id from the pool without writing it back, returning its
// frame to the free list. It fails if the page is still pinned.
func (p *Pool) DeletePage(id pagefile.PageID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	frame, ok := p.pageTable[id]
	if !ok {
		return true
	}
	if frame.pinCount != 0 {
		return false
	}
	delete(p.pageTable, id)
	frame.reset()
	p.freeList.PushBack(frame.frameIdx)
	return true
}

// FlushPage writes id back to the backing file immediately, regardless of
// its dirty bit.
func (p *Pool) FlushPage(id pagefile.PageID) error {
	p.mu.Lock()
	frame, ok := p.pageTable[id]
	p.mu.Unlock()
	if !ok {
		return nil
	}
	frame.mu.RLock()
	defer frame.mu.RUnlock()
	return errors.Wrapf(p.file.WritePage(id, frame.data), "buffer: flush page %d", id)
}

// FlushFile writes every dirty page currently resident in the pool back to
// the backing file, then fsyncs it.
func (p *Pool) FlushFile() error {
	p.mu.Lock()
	dirty := make([]*Frame, 0, len(p.pageTable))
	for _, frame := range p.pageTable {
		if frame.dirty {
			dirty = append(dirty, frame)
		}
	}
	p.mu.Unlock()

	for _, frame := range dirty {
		if err := p.file.WritePage(frame.pageID, frame.data); err != nil {
			return errors.Wrapf(err, "buffer: flushFile page %d", frame.pageID)
		}
		frame.dirty = false
	}
	return errors.Wrap(p.file.Flush(), "buffer: flushFile sync")
}

// Close flushes the file and releases the underlying OS handle.
func (p *Pool) Close() error {
	if err := p.FlushFile(); err != nil {
		return err
	}
	return p.file.Close()
}
