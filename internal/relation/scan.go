// Package relation provides the upstream relation-scan contract the B+ tree
// index bulk-loads from: a sequence of fixed-width records, each with a
// record identifier, yielded in insertion order.
package relation

import "github.com/pkg/errors"

// ErrEndOfFile is returned by Scanner.ScanNext once every record has been
// produced.
var ErrEndOfFile = errors.New("relation: end of file")

// RID locates a record within a relation: a page number and a slot within
// that page. The B+ tree index stores RIDs as its leaf payload.
type RID struct {
	PageNo  uint32
	SlotNo  uint32
}

// Scanner yields RID/record pairs in insertion order.
type Scanner interface {
	// ScanNext advances to the next record, returning its RID, or
	// ErrEndOfFile once exhausted.
	ScanNext() (RID, error)
	// GetRecord returns the raw bytes of the record the last ScanNext
	// call positioned on.
	GetRecord() []byte
}

// FixedWidthTable is an in-memory relation of fixed-width records, standing
// in for the on-disk heap file the original system scans from.
type FixedWidthTable struct {
	recordLen int
	records   [][]byte
	rids      []RID
}

// NewFixedWidthTable creates an empty table whose records are recordLen
// bytes each.
func NewFixedWidthTable(recordLen int) *FixedWidthTable {
	return &FixedWidthTable{recordLen: recordLen}
}

// Append adds one record with an explicit RID. len(data) must equal the
// table's record length.
func (t *FixedWidthTable) Append(data []byte, rid RID) {
	if len(data) != t.recordLen {
		panic("relation: record length mismatch")
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	t.records = append(t.records, cp)
	t.rids = append(t.rids, rid)
}

// Scan returns a fresh Scanner over the table's current contents, starting
// before the first record.
func (t *FixedWidthTable) Scan() Scanner {
	return &tableScanner{table: t, pos: -1}
}

type tableScanner struct {
	table *FixedWidthTable
	pos   int
}

func (s *tableScanner) ScanNext() (RID, error) {
	s.pos++
	if s.pos >= len(s.table.records) {
		return RID{}, ErrEndOfFile
	}
	return s.table.rids[s.pos], nil
}

func (s *tableScanner) GetRecord() []byte {
	return s.table.records[s.pos]
}
