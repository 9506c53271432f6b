package index

import (
	"github.com/pkg/errors"

	"github.com/ebrown2017/Project3-BPlusTree/internal/pagefile"
	"github.com/ebrown2017/Project3-BPlusTree/internal/relation"
)

// ErrFileNotFound is pagefile's missing-file sentinel, re-exported so
// callers never need to import internal/pagefile themselves. Open always
// passes createIfMissing=true, so it never returns this error directly;
// it instead checks File.NumPages() to decide whether to load an existing
// index or construct (and bulk-load) a new one.
var ErrFileNotFound = pagefile.ErrFileNotFound

// ErrEndOfFile is the upstream relation scan's exhaustion signal, swallowed
// internally by bulk load.
var ErrEndOfFile = relation.ErrEndOfFile

var (
	// ErrBadOpcodes is returned by StartScan when lowOp is not GT/GTE or
	// highOp is not LT/LTE.
	ErrBadOpcodes = errors.New("index: bad scan opcodes")
	// ErrBadScanrange is returned by StartScan when lowVal > highVal.
	ErrBadScanrange = errors.New("index: low value greater than high value")
	// ErrNoSuchKeyFound is returned by StartScan when the leaf reached by
	// descending on the low bound holds no key satisfying both bounds.
	// Right-sibling leaves are not searched, so a qualifying key stored
	// only in a later leaf still yields this error.
	ErrNoSuchKeyFound = errors.New("index: no key found satisfying scan range")
	// ErrScanNotInitialized is returned by ScanNext/EndScan when called
	// without a preceding successful StartScan.
	ErrScanNotInitialized = errors.New("index: scan not initialized")
	// ErrIndexScanCompleted is returned by ScanNext once the high bound
	// is crossed or the last leaf is exhausted. The scan remains active
	// until EndScan is called.
	ErrIndexScanCompleted = errors.New("index: scan completed")
)
