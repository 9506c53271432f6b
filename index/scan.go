package index

import (
	"github.com/pkg/errors"

	"github.com/ebrown2017/Project3-BPlusTree/internal/buffer"
	"github.com/ebrown2017/Project3-BPlusTree/internal/pagefile"
)

// Operator is a scan bound's comparison operator. Only GT/GTE are valid
// low operators and only LT/LTE are valid high operators, matching the
// original BTreeIndex::startScan contract.
type Operator int

const (
	GT  Operator = iota // strictly greater than
	GTE                 // greater than or equal to
	LT                  // strictly less than
	LTE                 // less than or equal to
)

// scanState holds the single in-flight range scan an Index may have open.
// Its zero value is an inactive scan.
type scanState struct {
	active        bool
	frame         *buffer.Frame
	currentPageNo pagefile.PageID
	nextEntry     int
	highVal       int32
	highOp        Operator
}

// StartScan positions the index at the first leaf entry satisfying
// lowVal lowOp key, validating that lowOp/highOp are of the right kind and
// that lowVal does not exceed highVal. Only one scan may be active on an Index at
// a time; a second StartScan without an intervening EndScan leaks the
// first scan's pin.
func (idx *Index) StartScan(lowVal int32, lowOp Operator, highVal int32, highOp Operator) error {
	if lowOp != GT && lowOp != GTE {
		return ErrBadOpcodes
	}
	if highOp != LT && highOp != LTE {
		return ErrBadOpcodes
	}
	if lowVal > highVal {
		return ErrBadScanrange
	}

	pageID := idx.rootPageNo
	frame, err := idx.pool.FetchPage(pageID)
	if err != nil {
		return errors.Wrapf(err, "index: fetch root %d for scan", pageID)
	}

	if !idx.rootIsLeaf {
		iv := asInternal(frame.GetData(), idx.nodeCap)
		for {
			i := 0
			for i < len(iv.Keys) && iv.Keys[i] <= lowVal {
				i++
			}
			childID := iv.Children[i]
			atLeafLevel := iv.Level() == 1

			if err := idx.pool.UnpinPage(pageID, false); err != nil {
				return err
			}
			pageID = childID
			frame, err = idx.pool.FetchPage(pageID)
			if err != nil {
				return errors.Wrapf(err, "index: fetch node %d for scan", pageID)
			}
			if atLeafLevel {
				break
			}
			iv = asInternal(frame.GetData(), idx.nodeCap)
		}
	}

	lv := asLeaf(frame.GetData(), idx.leafCap)
	i := leafLocate(lv.Keys, lowVal)
	if lowOp == GT {
		for i < len(lv.Keys) && lv.Keys[i] <= lowVal {
			i++
		}
	}

	if i >= len(lv.Keys) || lv.Keys[i] == MaxKey {
		idx.pool.UnpinPage(pageID, false)
		return ErrNoSuchKeyFound
	}
	if highOp == LT && lv.Keys[i] >= highVal {
		idx.pool.UnpinPage(pageID, false)
		return ErrNoSuchKeyFound
	}
	if highOp == LTE && lv.Keys[i] > highVal {
		idx.pool.UnpinPage(pageID, false)
		return ErrNoSuchKeyFound
	}

	idx.scan = scanState{
		active:        true,
		frame:         frame,
		currentPageNo: pageID,
		nextEntry:     i,
		highVal:       highVal,
		highOp:        highOp,
	}
	return nil
}

// ScanNext returns the RID of the next entry in the open scan, advancing
// across leaf boundaries via the right-sibling chain as needed. It returns
// ErrIndexScanCompleted once the high bound is crossed or the index is
// exhausted; the scan remains open (EndScan must still be called) after
// that error.
func (idx *Index) ScanNext() (RID, error) {
	if !idx.scan.active {
		return RID{}, ErrScanNotInitialized
	}

	lv := asLeaf(idx.scan.frame.GetData(), idx.leafCap)

	if idx.scan.nextEntry >= idx.leafCap || lv.Keys[idx.scan.nextEntry] == MaxKey {
		sib := lv.RightSibPageNo()
		if sib == NoPage {
			return RID{}, ErrIndexScanCompleted
		}
		if err := idx.pool.UnpinPage(idx.scan.currentPageNo, false); err != nil {
			return RID{}, err
		}
		newFrame, err := idx.pool.FetchPage(sib)
		if err != nil {
			return RID{}, errors.Wrapf(err, "index: fetch sibling leaf %d", sib)
		}
		idx.scan.frame = newFrame
		idx.scan.currentPageNo = sib
		idx.scan.nextEntry = 0
		lv = asLeaf(newFrame.GetData(), idx.leafCap)
		if lv.Keys[0] == MaxKey {
			return RID{}, ErrIndexScanCompleted
		}
	}

	key := lv.Keys[idx.scan.nextEntry]
	if idx.scan.highOp == LT && key >= idx.scan.highVal {
		return RID{}, ErrIndexScanCompleted
	}
	if idx.scan.highOp == LTE && key > idx.scan.highVal {
		return RID{}, ErrIndexScanCompleted
	}

	rid := lv.Rids[idx.scan.nextEntry]
	idx.scan.nextEntry++
	return rid, nil
}

// EndScan releases the pin held by the open scan and clears it. Calling
// EndScan without an active scan returns ErrScanNotInitialized.
func (idx *Index) EndScan() error {
	if !idx.scan.active {
		return ErrScanNotInitialized
	}
	err := idx.pool.UnpinPage(idx.scan.currentPageNo, false)
	idx.scan = scanState{}
	return err
}
