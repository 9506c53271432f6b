// Package pagefile implements the paged-file contract consumed by the
// buffer manager and the B+ tree index: a flat file of fixed-size pages,
// opened or created by name, with page numbers handed out by AllocPage.
package pagefile

import (
	"os"
	"sync"

	"github.com/pkg/errors"
)

// PageSize is the fixed frame size of every page in an index file.
const PageSize = 4096

// PageID identifies a page within a File. Page 0 is always the meta page.
type PageID uint32

// ErrFileNotFound is returned by Open when createIfMissing is false and the
// named file does not exist.
var ErrFileNotFound = errors.New("pagefile: file not found")

// File is a flat file of PageSize-byte pages, addressed by PageID.
type File struct {
	mu       sync.Mutex
	f        *os.File
	numPages PageID
}

// Open opens the named file. If it does not exist and createIfMissing is
// false, it returns ErrFileNotFound. If it does not exist and
// createIfMissing is true, an empty file is created.
func Open(path string, createIfMissing bool) (*File, error) {
	flags := os.O_RDWR
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "pagefile: stat %s", path)
		}
		if !createIfMissing {
			return nil, ErrFileNotFound
		}
		flags |= os.O_CREATE
	}
	f, err := os.OpenFile(path, flags, 0666)
	if err != nil {
		return nil, errors.Wrapf(err, "pagefile: open %s", path)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "pagefile: stat %s", path)
	}
	return &File{
		f:        f,
		numPages: PageID(info.Size() / PageSize),
	}, nil
}

// GetFirstPageNo returns the page id of the meta page, which is always 0.
func (pf *File) GetFirstPageNo() PageID {
	return 0
}

// NumPages reports how many pages have been allocated so far, as observed
// at Open time plus any AllocPage calls since. Zero means the file was
// just created and has no meta page yet.
func (pf *File) NumPages() PageID {
	pf.mu.Lock()
	defer pf.mu.Unlock()
	return pf.numPages
}

// AllocPage reserves the next unused page number. The caller is expected to
// write to it (directly or through the buffer manager) before the page is
// read back.
func (pf *File) AllocPage() PageID {
	pf.mu.Lock()
	defer pf.mu.Unlock()
	id := pf.numPages
	pf.numPages++
	return id
}

// ReadPage reads exactly PageSize bytes for id into dst.
func (pf *File) ReadPage(id PageID, dst []byte) error {
	if len(dst) != PageSize {
		return errors.Errorf("pagefile: read buffer must have size %d, got %d", PageSize, len(dst))
	}
	pf.mu.Lock()
	defer pf.mu.Unlock()
	offset := int64(id) * PageSize
	n, err := pf.f.ReadAt(dst, offset)
	if err != nil {
		return errors.Wrapf(err, "pagefile: read page %d", id)
	}
	if n != PageSize {
		return errors.Errorf("pagefile: short read of page %d: got %d bytes", id, n)
	}
	return nil
}

// WritePage writes exactly PageSize bytes for id from src.
func (pf *File) WritePage(id PageID, src []byte) error {
	if len(src) != PageSize {
		return errors.Errorf("pagefile: write buffer must have size %d, got %d", PageSize, len(src))
	}
	pf.mu.Lock()
	defer pf.mu.Unlock()
	n, err := pf.f.WriteAt(src, int64(id)*PageSize)
	if err != nil {
		return errors.Wrapf(err, "pagefile: write page %d", id)
	}
	if n != PageSize {
		return errors.Errorf("pagefile: short write of page %d: wrote %d bytes", id, n)
	}
	return nil
}

// Flush forces any OS-buffered writes to stable storage.
func (pf *File) Flush() error {
	pf.mu.Lock()
	defer pf.mu.Unlock()
	return errors.Wrap(pf.f.Sync(), "pagefile: sync")
}

// Close releases the underlying OS file handle.
func (pf *File) Close() error {
	pf.mu.Lock()
	defer pf.mu.Unlock()
	return errors.Wrap(pf.f.Close(), "pagefile: close")
}

// Remove deletes the named index file from disk.
func Remove(path string) error {
	return errors.Wrap(os.Remove(path), "pagefile: remove")
}
