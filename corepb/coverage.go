// Package corepb defines the on-disk snapshot message used to persist and
// restore a k-mer table's good/good-for-iterative flags between rounds of
// iterative expansion, so a long-running expansion can resume from a
// checkpoint rather than restart from the merged table.
package corepb

import proto "github.com/gogo/protobuf/proto"

// CoverageMap is a snapshot of one round's worth of per-k-mer flag state.
// It deliberately omits the quality/count accumulators carried in
// kmermerge.Stat: those are immutable once the table is built, so only the
// flags that iterative expansion mutates round over round need to survive
// a checkpoint.
type CoverageMap struct {
	// K is the k-mer length the snapshot was built with, for a sanity
	// check on restore.
	K int32 `protobuf:"varint,1,opt,name=k" json:"k,omitempty"`
	// Round is the expansion round number this snapshot was taken after.
	Round int32 `protobuf:"varint,2,opt,name=round" json:"round,omitempty"`
	// Entries holds one record per k-mer table entry, in table order, so
	// restoring a snapshot is a simple Index-aligned replay of
	// table.Entries.
	Entries []*CoverageEntry `protobuf:"bytes,3,rep,name=entries" json:"entries,omitempty"`
}

func (m *CoverageMap) Reset()         { *m = CoverageMap{} }
func (m *CoverageMap) String() string { return proto.CompactTextString(m) }
func (*CoverageMap) ProtoMessage()    {}

// CoverageEntry is one k-mer's flag state as of the snapshot's round.
type CoverageEntry struct {
	// Canonical is the 2-bit-packed canonical k-mer value.
	Canonical     uint64 `protobuf:"varint,1,opt,name=canonical" json:"canonical,omitempty"`
	Good          bool   `protobuf:"varint,2,opt,name=good" json:"good,omitempty"`
	GoodIterative bool   `protobuf:"varint,3,opt,name=good_iterative,json=goodIterative" json:"good_iterative,omitempty"`
}

func (m *CoverageEntry) Reset()         { *m = CoverageEntry{} }
func (m *CoverageEntry) String() string { return proto.CompactTextString(m) }
func (*CoverageEntry) ProtoMessage()    {}

func init() {
	proto.RegisterType((*CoverageMap)(nil), "corepb.CoverageMap")
	proto.RegisterType((*CoverageEntry)(nil), "corepb.CoverageEntry")
}

// Marshal serializes m using gogo/protobuf's reflection-based encoder (no
// protoc-generated fast path here, since the message is hand-declared).
func Marshal(m *CoverageMap) ([]byte, error) {
	return proto.Marshal(m)
}

// Unmarshal decodes a CoverageMap previously produced by Marshal.
func Unmarshal(data []byte) (*CoverageMap, error) {
	m := &CoverageMap{}
	if err := proto.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}
