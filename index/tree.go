// Package index implements a persistent B+ tree secondary index over
// fixed-width integer keys, mapping each key to the (page, slot) record
// identifier of the matching tuple in an upstream relation.
package index

import (
	"encoding/binary"
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ebrown2017/Project3-BPlusTree/internal/buffer"
	"github.com/ebrown2017/Project3-BPlusTree/internal/pagefile"
	"github.com/ebrown2017/Project3-BPlusTree/internal/relation"
)

// RID is a record identifier: the (page, slot) location of a tuple in the
// relation this index is built over.
type RID = relation.RID

// Index is a handle to one open B+ tree secondary index file. It is not
// safe for concurrent use by multiple goroutines beyond what the
// underlying buffer pool already serializes.
type Index struct {
	log  logrus.FieldLogger
	pool *buffer.Pool
	file *pagefile.File

	indexName      string
	relationName   string
	attrByteOffset int32
	attrType       AttrType

	leafCap int
	nodeCap int

	headerPageID pagefile.PageID
	rootPageNo   pagefile.PageID
	rootIsLeaf   bool

	scan scanState
}

// Open opens (or, if it does not already exist, constructs) the B+ tree
// index file for relationName's attribute at attrByteOffset. When the file
// is newly constructed and scanSrc is non-nil, every record scanSrc yields
// is bulk-loaded via InsertEntry, mirroring the upstream-relation-scan
// construction path of the original BTreeIndex constructor.
func Open(dir, relationName string, attrByteOffset int32, attrType AttrType, scanSrc relation.Scanner, cfg Config, log logrus.FieldLogger) (*Index, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if attrType != AttrInteger {
		return nil, errors.Errorf("index: unsupported attribute type %d, only AttrInteger is implemented", attrType)
	}
	if cfg.LeafOccupancy <= 0 || cfg.NodeOccupancy <= 0 {
		leafCap, nodeCap := defaultCapacities()
		if cfg.LeafOccupancy <= 0 {
			cfg.LeafOccupancy = leafCap
		}
		if cfg.NodeOccupancy <= 0 {
			cfg.NodeOccupancy = nodeCap
		}
	}

	indexName := fmt.Sprintf("%s.%d", relationName, attrByteOffset)
	path := filepath.Join(dir, indexName)

	file, err := pagefile.Open(path, true)
	if err != nil {
		return nil, errors.Wrapf(err, "index: open %s", indexName)
	}

	idx := &Index{
		log:            log.WithField("index", indexName),
		pool:           buffer.NewPool(cfg.BufferPoolSize, file, log),
		file:           file,
		indexName:      indexName,
		relationName:   relationName,
		attrByteOffset: attrByteOffset,
		attrType:       attrType,
		leafCap:        cfg.LeafOccupancy,
		nodeCap:        cfg.NodeOccupancy,
		headerPageID:   file.GetFirstPageNo(),
	}

	if file.NumPages() > 0 {
		if err := idx.loadMeta(); err != nil {
			return nil, err
		}
		idx.log.Info("index: opened existing index file")
		return idx, nil
	}

	if err := idx.construct(); err != nil {
		return nil, err
	}
	if scanSrc != nil {
		if err := idx.bulkLoad(scanSrc, cfg.BulkLoadLogEvery); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

func (idx *Index) loadMeta() error {
	frame, err := idx.pool.FetchPage(idx.headerPageID)
	if err != nil {
		return errors.Wrap(err, "index: fetch meta page")
	}
	p := buffer.Pin(idx.pool, idx.headerPageID, frame)
	defer p.Release(false)

	meta := asMeta(frame.GetData())
	idx.relationName = meta.RelationName()
	idx.attrByteOffset = meta.AttrByteOffset()
	idx.attrType = meta.AttrType()
	idx.rootPageNo = meta.RootPageNo()
	idx.rootIsLeaf = meta.RootIsLeaf()
	return nil
}

// construct allocates the meta page and an empty root leaf for a brand new
// index file. Page 0 is always the meta page; page 1 the initial root.
func (idx *Index) construct() error {
	metaFrame, err := idx.pool.NewPage()
	if err != nil {
		return errors.Wrap(err, "index: allocate meta page")
	}
	metaID := metaFrame.GetPageID()

	rootFrame, err := idx.pool.NewPage()
	if err != nil {
		idx.pool.UnpinPage(metaID, false)
		return errors.Wrap(err, "index: allocate root leaf")
	}
	rootID := rootFrame.GetPageID()

	initEmptyLeaf(rootFrame.GetData(), idx.leafCap)

	meta := asMeta(metaFrame.GetData())
	meta.SetRelationName(idx.relationName)
	meta.SetAttrByteOffset(idx.attrByteOffset)
	meta.SetAttrType(idx.attrType)
	meta.SetRootPageNo(rootID)
	meta.SetRootIsLeaf(true)

	idx.rootPageNo = rootID
	idx.rootIsLeaf = true

	if err := idx.pool.UnpinPage(metaID, true); err != nil {
		return err
	}
	return idx.pool.UnpinPage(rootID, true)
}

// bulkLoad drains scanSrc, inserting one entry per record. The key is read
// as a big-endian signed 32-bit integer at attrByteOffset within the
// record, matching the fixed-width integer key layout described in
// spec.md §1.
func (idx *Index) bulkLoad(scanSrc relation.Scanner, logEvery int) error {
	count := 0
	for {
		rid, err := scanSrc.ScanNext()
		if err != nil {
			if errors.Is(err, relation.ErrEndOfFile) {
				break
			}
			return errors.Wrap(err, "index: bulk load scan")
		}
		record := scanSrc.GetRecord()
		key := int32(binary.BigEndian.Uint32(record[idx.attrByteOffset:]))
		if err := idx.InsertEntry(key, rid); err != nil {
			return errors.Wrapf(err, "index: bulk load insert key %d", key)
		}
		count++
		if logEvery > 0 && count%logEvery == 0 {
			idx.log.WithField("inserted", count).Debug("index: bulk load progress")
		}
	}
	idx.log.WithField("count", count).Info("index: bulk load complete")
	return nil
}

// InsertEntry inserts one (key, rid) pair, descending from the root and
// propagating any split back up, growing the root by one level if the
// split reaches it. This is the only mutating entry point into the tree.
func (idx *Index) InsertEntry(key int32, rid RID) error {
	var (
		splitKey    int32
		splitPageNo pagefile.PageID
		split       bool
		err         error
	)
	if idx.rootIsLeaf {
		splitKey, splitPageNo, split, err = idx.insertLeaf(idx.rootPageNo, key, rid)
	} else {
		splitKey, splitPageNo, split, err = idx.insertInternal(idx.rootPageNo, key, rid)
	}
	if err != nil {
		return err
	}
	if !split {
		return nil
	}
	return idx.growRoot(splitKey, splitPageNo)
}

// growRoot allocates a new internal root with two children: the old root
// and the page promoted by its split.
func (idx *Index) growRoot(splitKey int32, splitPageNo pagefile.PageID) error {
	frame, err := idx.pool.NewPage()
	if err != nil {
		return errors.Wrap(err, "index: allocate new root")
	}
	newRootID := frame.GetPageID()

	level := 0
	if idx.rootIsLeaf {
		level = 1
	}
	niv := initEmptyInternal(frame.GetData(), idx.nodeCap, level)
	niv.Keys[0] = splitKey
	niv.Children[0] = idx.rootPageNo
	niv.Children[1] = splitPageNo

	idx.rootPageNo = newRootID
	idx.rootIsLeaf = false

	if err := idx.pool.UnpinPage(newRootID, true); err != nil {
		return err
	}
	return idx.updateMetaRoot()
}

func (idx *Index) updateMetaRoot() error {
	frame, err := idx.pool.FetchPage(idx.headerPageID)
	if err != nil {
		return errors.Wrap(err, "index: fetch meta page for root update")
	}
	meta := asMeta(frame.GetData())
	meta.SetRootPageNo(idx.rootPageNo)
	meta.SetRootIsLeaf(idx.rootIsLeaf)
	return idx.pool.UnpinPage(idx.headerPageID, true)
}

// insertLeaf inserts into the leaf at pageID, splitting it if full. It
// reports the promoted separator key and new sibling page id to its
// caller, per the recursive insert contract of spec.md §4.4.
func (idx *Index) insertLeaf(pageID pagefile.PageID, key int32, rid RID) (int32, pagefile.PageID, bool, error) {
	frame, err := idx.pool.FetchPage(pageID)
	if err != nil {
		return 0, 0, false, errors.Wrapf(err, "index: fetch leaf %d", pageID)
	}
	lv := asLeaf(frame.GetData(), idx.leafCap)
	i := leafLocate(lv.Keys, key)

	if !leafIsFull(lv.Keys) {
		leafInsertNonFull(lv, i, key, rid)
		if err := idx.pool.UnpinPage(pageID, true); err != nil {
			return 0, 0, false, err
		}
		return 0, 0, false, nil
	}

	sibFrame, err := idx.pool.NewPage()
	if err != nil {
		idx.pool.UnpinPage(pageID, false)
		return 0, 0, false, errors.Wrap(err, "index: allocate leaf sibling")
	}
	sibID := sibFrame.GetPageID()
	sib := initEmptyLeaf(sibFrame.GetData(), idx.leafCap)

	sepKey := leafSplit(lv, sibID, sib, i, key, rid)

	if err := idx.pool.UnpinPage(pageID, true); err != nil {
		return 0, 0, false, err
	}
	if err := idx.pool.UnpinPage(sibID, true); err != nil {
		return 0, 0, false, err
	}
	return sepKey, sibID, true, nil
}

// insertInternal descends to the chosen child, inserts the child's
// reported split (if any) into this node, and splits in turn if that
// insert overflows it.
func (idx *Index) insertInternal(pageID pagefile.PageID, key int32, rid RID) (int32, pagefile.PageID, bool, error) {
	frame, err := idx.pool.FetchPage(pageID)
	if err != nil {
		return 0, 0, false, errors.Wrapf(err, "index: fetch internal node %d", pageID)
	}
	iv := asInternal(frame.GetData(), idx.nodeCap)
	i := internalLocate(iv.Keys, key)
	childID := iv.Children[i]

	var (
		childSplitKey    int32
		childSplitPageNo pagefile.PageID
		childSplit       bool
	)
	if iv.Level() == 1 {
		childSplitKey, childSplitPageNo, childSplit, err = idx.insertLeaf(childID, key, rid)
	} else {
		childSplitKey, childSplitPageNo, childSplit, err = idx.insertInternal(childID, key, rid)
	}
	if err != nil {
		idx.pool.UnpinPage(pageID, false)
		return 0, 0, false, err
	}
	if !childSplit {
		if err := idx.pool.UnpinPage(pageID, false); err != nil {
			return 0, 0, false, err
		}
		return 0, 0, false, nil
	}

	if !internalIsFull(iv.Keys) {
		internalInsertNonFull(iv, i, childSplitKey, childSplitPageNo)
		if err := idx.pool.UnpinPage(pageID, true); err != nil {
			return 0, 0, false, err
		}
		return 0, 0, false, nil
	}

	sibFrame, err := idx.pool.NewPage()
	if err != nil {
		idx.pool.UnpinPage(pageID, true)
		return 0, 0, false, errors.Wrap(err, "index: allocate internal sibling")
	}
	sibID := sibFrame.GetPageID()
	sib := initEmptyInternal(sibFrame.GetData(), idx.nodeCap, iv.Level())

	promotedKey, promotedPageNo := internalSplit(iv, sibID, sib, i, childSplitKey, childSplitPageNo)

	if err := idx.pool.UnpinPage(pageID, true); err != nil {
		return 0, 0, false, err
	}
	if err := idx.pool.UnpinPage(sibID, true); err != nil {
		return 0, 0, false, err
	}
	return promotedKey, promotedPageNo, true, nil
}

// GetNodeStatus reports whether the current root is itself a leaf, i.e.
// whether the tree holds a single node.
func (idx *Index) GetNodeStatus() (rootIsLeaf bool) {
	return idx.rootIsLeaf
}

// Close ends any still-active scan, flushes every dirty page to disk, and
// releases the underlying file handle.
func (idx *Index) Close() error {
	if idx.scan.active {
		idx.pool.UnpinPage(idx.scan.currentPageNo, false)
		idx.scan = scanState{}
	}
	return idx.pool.Close()
}
