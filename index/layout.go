package index

import (
	"unsafe"

	"github.com/ebrown2017/Project3-BPlusTree/internal/pagefile"
	"github.com/ebrown2017/Project3-BPlusTree/internal/relation"
)

// MaxKey is the sentinel that marks an empty key slot. It doubles as the
// "no right sibling" marker for a leaf's rightSibPageNo field.
const MaxKey int32 = 0x7FFFFFFF

// NoPage is the PageID-typed form of MaxKey, used as the "none" sibling
// pointer.
const NoPage = pagefile.PageID(MaxKey)

// AttrType mirrors the persisted key-type tag of the meta page. Only
// AttrInteger is implemented; the others are recorded for on-disk fidelity
// with the original format but rejected by Open.
type AttrType int32

const (
	AttrInteger AttrType = iota
	AttrDouble
	AttrString
)

const metaRelationNameLen = 20

// metaFields is the fixed, structural layout of page 0: the single source
// of truth for locating the root after restart.
type metaFields struct {
	RelationName   [metaRelationNameLen]byte
	AttrByteOffset int32
	AttrType       int32
	RootPageNo     uint32
	RootIsLeaf     uint8
	_              [3]byte
}

// MetaView is a structural view of the meta page over a live frame buffer;
// writes through it are visible in the frame immediately.
type MetaView struct {
	f *metaFields
}

func asMeta(data []byte) MetaView {
	return MetaView{f: (*metaFields)(unsafe.Pointer(&data[0]))}
}

func (m MetaView) RelationName() string {
	n := 0
	for n < len(m.f.RelationName) && m.f.RelationName[n] != 0 {
		n++
	}
	return string(m.f.RelationName[:n])
}

func (m MetaView) SetRelationName(name string) {
	var buf [metaRelationNameLen]byte
	copy(buf[:], name)
	m.f.RelationName = buf
}

func (m MetaView) AttrByteOffset() int32     { return m.f.AttrByteOffset }
func (m MetaView) SetAttrByteOffset(v int32) { m.f.AttrByteOffset = v }
func (m MetaView) AttrType() AttrType        { return AttrType(m.f.AttrType) }
func (m MetaView) SetAttrType(v AttrType)    { m.f.AttrType = int32(v) }
func (m MetaView) RootPageNo() pagefile.PageID {
	return pagefile.PageID(m.f.RootPageNo)
}
func (m MetaView) SetRootPageNo(id pagefile.PageID) { m.f.RootPageNo = uint32(id) }
func (m MetaView) RootIsLeaf() bool                 { return m.f.RootIsLeaf != 0 }
func (m MetaView) SetRootIsLeaf(v bool) {
	if v {
		m.f.RootIsLeaf = 1
	} else {
		m.f.RootIsLeaf = 0
	}
}

// leafFixed is the fixed header of every leaf node: the singly-linked
// pointer to the next leaf in key order, or NoPage.
type leafFixed struct {
	RightSib uint32
}

const (
	leafFixedSize = int(unsafe.Sizeof(leafFixed{}))
	leafEntrySize = int(unsafe.Sizeof(int32(0))) + int(unsafe.Sizeof(relation.RID{}))
)

// LeafView is a structural view of a leaf node: a sorted array of up to
// Cap keys, a parallel array of RIDs, and the right-sibling pointer.
type LeafView struct {
	fixed *leafFixed
	Keys  []int32
	Rids  []relation.RID
	Cap   int
}

func asLeaf(data []byte, cap int) LeafView {
	base := unsafe.Pointer(&data[0])
	fixed := (*leafFixed)(base)
	keysPtr := unsafe.Add(base, leafFixedSize)
	keys := unsafe.Slice((*int32)(keysPtr), cap)
	ridsPtr := unsafe.Add(keysPtr, cap*int(unsafe.Sizeof(int32(0))))
	rids := unsafe.Slice((*relation.RID)(ridsPtr), cap)
	return LeafView{fixed: fixed, Keys: keys, Rids: rids, Cap: cap}
}

func (l LeafView) RightSibPageNo() pagefile.PageID { return pagefile.PageID(l.fixed.RightSib) }
func (l LeafView) SetRightSibPageNo(id pagefile.PageID) { l.fixed.RightSib = uint32(id) }

// initEmptyLeaf clears all key slots to MaxKey and the sibling pointer to
// NoPage, as done atomically when the root leaf (or any new leaf) is
// allocated.
func initEmptyLeaf(data []byte, cap int) LeafView {
	lv := asLeaf(data, cap)
	for i := range lv.Keys {
		lv.Keys[i] = MaxKey
	}
	lv.SetRightSibPageNo(NoPage)
	return lv
}

// internalFixed is the fixed header of every internal node.
type internalFixed struct {
	Level uint32
}

const (
	internalFixedSize = int(unsafe.Sizeof(internalFixed{}))
	internalKeySize   = int(unsafe.Sizeof(int32(0)))
	internalChildSize = int(unsafe.Sizeof(pagefile.PageID(0)))
)

// InternalView is a structural view of an internal node: up to Cap
// separator keys and Cap+1 child pointers.
type InternalView struct {
	fixed    *internalFixed
	Keys     []int32
	Children []pagefile.PageID
	Cap      int
}

func asInternal(data []byte, cap int) InternalView {
	base := unsafe.Pointer(&data[0])
	fixed := (*internalFixed)(base)
	keysPtr := unsafe.Add(base, internalFixedSize)
	keys := unsafe.Slice((*int32)(keysPtr), cap)
	childrenPtr := unsafe.Add(keysPtr, cap*internalKeySize)
	children := unsafe.Slice((*pagefile.PageID)(childrenPtr), cap+1)
	return InternalView{fixed: fixed, Keys: keys, Children: children, Cap: cap}
}

func (n InternalView) Level() int     { return int(n.fixed.Level) }
func (n InternalView) SetLevel(l int) { n.fixed.Level = uint32(l) }

// initEmptyInternal clears all key slots to MaxKey, leaving children
// unset; callers fill in children[0] and children[1] plus keys[0] for a
// freshly split-promoted node.
func initEmptyInternal(data []byte, cap int, level int) InternalView {
	iv := asInternal(data, cap)
	for i := range iv.Keys {
		iv.Keys[i] = MaxKey
	}
	iv.SetLevel(level)
	return iv
}

// leafOccupied reports how many leading keys are real (non-sentinel).
func leafOccupied(keys []int32) int {
	for i, k := range keys {
		if k == MaxKey {
			return i
		}
	}
	return len(keys)
}

// internalOccupied reports how many leading separator keys are real.
func internalOccupied(keys []int32) int {
	return leafOccupied(keys)
}

// leafIsFull reports whether a leaf has no empty trailing slot.
func leafIsFull(keys []int32) bool {
	return keys[len(keys)-1] != MaxKey
}

// internalIsFull reports whether an internal node has no empty trailing
// separator slot.
func internalIsFull(keys []int32) bool {
	return keys[len(keys)-1] != MaxKey
}
