package relation

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(key int32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(key))
	return buf
}

func TestScanYieldsInInsertionOrder(t *testing.T) {
	tbl := NewFixedWidthTable(4)
	tbl.Append(record(10), RID{PageNo: 0, SlotNo: 0})
	tbl.Append(record(20), RID{PageNo: 0, SlotNo: 1})
	tbl.Append(record(-5), RID{PageNo: 1, SlotNo: 0})

	scan := tbl.Scan()
	var got []int32
	for {
		rid, err := scan.ScanNext()
		if err != nil {
			assert.ErrorIs(t, err, ErrEndOfFile)
			break
		}
		got = append(got, int32(binary.BigEndian.Uint32(scan.GetRecord())))
		_ = rid
	}
	assert.Equal(t, []int32{10, 20, -5}, got)
}

func TestAppendRejectsWrongLength(t *testing.T) {
	tbl := NewFixedWidthTable(4)
	assert.Panics(t, func() {
		tbl.Append([]byte{1, 2, 3}, RID{})
	})
}

func TestFreshScanStartsFromBeginning(t *testing.T) {
	tbl := NewFixedWidthTable(4)
	tbl.Append(record(1), RID{PageNo: 0, SlotNo: 0})

	first := tbl.Scan()
	_, err := first.ScanNext()
	require.NoError(t, err)
	_, err = first.ScanNext()
	require.ErrorIs(t, err, ErrEndOfFile)

	second := tbl.Scan()
	_, err = second.ScanNext()
	assert.NoError(t, err)
}
