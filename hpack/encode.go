// Copyright 2014 The Go Authors.
// See https://code.google.com/p/go/source/browse/CONTRIBUTORS
// Licensed under the same terms as Go itself:
// https://code.google.com/p/go/source/browse/LICENSE

package hpack

import (
	"io"
	"strings"
)

// minNeverIndexCookieLen is the length below which a cookie value is
// encoded with the Never-Indexed representation and kept out of the
// dynamic table; cookie values of this length or longer are encoded
// as a Literal-With-Indexing and inserted.
const minNeverIndexCookieLen = 20

// An Encoder is the encoding context for one connection's header
// blocks. Like Decoder, it owns that connection's dynamic table and
// is not safe for concurrent use.
type Encoder struct {
	w      io.Writer
	buf    []byte
	dynTab headerFieldTable

	// pendingTableSize, when pendingTableSizeSet is true, is a
	// maximum-size change that hasn't yet been signaled to the peer
	// via a Table-Size-Update in the next WriteField call.
	pendingTableSize    uint32
	pendingTableSizeSet bool
}

// NewEncoder returns an Encoder that writes encoded header fields to
// w, one representation per WriteField call. Its dynamic table starts with the
// default capacity of 4096 bytes; call SetMaxDynamicTableSize to
// change it.
func NewEncoder(w io.Writer) *Encoder {
	e := &Encoder{w: w}
	e.dynTab.setMaxSize(4096)
	e.dynTab.enableReverseIndex()
	return e
}

// SetMaxDynamicTableSize changes the dynamic table's capacity. The
// change is signaled to the peer via a Table-Size-Update
// representation prepended to the next header block written.
func (e *Encoder) SetMaxDynamicTableSize(v uint32) {
	e.pendingTableSize = v
	e.pendingTableSizeSet = true
}

// MaxDynamicTableSize returns the current dynamic table capacity.
func (e *Encoder) MaxDynamicTableSize() uint32 {
	return e.dynTab.maxSize
}

// WriteField encodes f as a single representation and writes it to
// e's underlying Writer in one Write call.
//
// The representation is chosen in the order RFC 7541 7.1.3
// recommends: an exact static- or dynamic-table match becomes
// Indexed; a name-only match becomes a literal referencing that name;
// an unmatched field is encoded with a literal name string. A field
// marked Sensitive, or an authorization header of any length, or a
// cookie header shorter than minNeverIndexCookieLen, is always
// encoded Never-Indexed and never inserted into the dynamic table.
// Every other literal uses Incremental Indexing and is inserted.
func (e *Encoder) WriteField(f HeaderField) error {
	e.buf = e.buf[:0]

	if e.pendingTableSizeSet {
		e.pendingTableSizeSet = false
		first := len(e.buf)
		e.buf = appendVarInt(e.buf, 5, uint64(e.pendingTableSize))
		e.buf[first] |= 0x20
		e.dynTab.setMaxSize(e.pendingTableSize)
	}

	if e.neverIndex(f) {
		e.writeLiteral(f, true)
	} else {
		idx, kind := e.search(f.Name, f.Value)
		switch kind {
		case matchExact:
			e.writeIndexed(idx)
		case matchName:
			e.writeLiteralWithNameIndex(f, idx)
			e.dynTab.add(f)
		default:
			e.writeLiteral(f, false)
			e.dynTab.add(f)
		}
	}

	n, err := e.w.Write(e.buf)
	if err == nil && n != len(e.buf) {
		err = io.ErrShortWrite
	}
	return err
}

func (e *Encoder) neverIndex(f HeaderField) bool {
	if f.Sensitive {
		return true
	}
	if strings.EqualFold(f.Name, "authorization") {
		return true
	}
	if strings.EqualFold(f.Name, "cookie") && len(f.Value) < minNeverIndexCookieLen {
		return true
	}
	return false
}

// search looks for f.Name (and ideally f.Value) among both tables,
// preferring an exact match in either table, then a name-only match,
// with the static table checked first since a static hit never
// expires.
func (e *Encoder) search(name, value string) (idx uint64, kind matchKind) {
	if i, ok := staticTableExactIndex[name+"\x00"+value]; ok {
		return i, matchExact
	}
	if i, kind := e.dynTab.search(name, value); kind == matchExact {
		return i + uint64(len(staticTable)), matchExact
	}
	if i, ok := staticTableFirstIndex[name]; ok {
		return i, matchName
	}
	if i, kind := e.dynTab.search(name, value); kind == matchName {
		return i + uint64(len(staticTable)), matchName
	}
	return 0, matchNone
}

// writeIndexed appends an Indexed Header Field representation.
func (e *Encoder) writeIndexed(i uint64) {
	first := len(e.buf)
	e.buf = appendVarInt(e.buf, 7, i)
	e.buf[first] |= 0x80
}

// writeLiteralWithNameIndex appends a Literal Header Field with
// Incremental Indexing representation that references an existing
// name by index and encodes f.Value as a new string.
func (e *Encoder) writeLiteralWithNameIndex(f HeaderField, nameIdx uint64) {
	first := len(e.buf)
	e.buf = appendVarInt(e.buf, 6, nameIdx)
	e.buf[first] |= 0x40
	e.buf = appendHeaderString(e.buf, f.Value)
}

// writeLiteral appends a literal representation with both name and
// value encoded as new strings: Never-Indexed if neverIndexed is
// true, Incremental Indexing otherwise.
func (e *Encoder) writeLiteral(f HeaderField, neverIndexed bool) {
	first := len(e.buf)
	if neverIndexed {
		e.buf = appendVarInt(e.buf, 4, 0)
		e.buf[first] |= 0x10
	} else {
		e.buf = appendVarInt(e.buf, 6, 0)
		e.buf[first] |= 0x40
	}
	e.buf = appendHeaderString(e.buf, f.Name)
	e.buf = appendHeaderString(e.buf, f.Value)
}
