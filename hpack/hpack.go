// Copyright 2014 The Go Authors.
// See https://code.google.com/p/go/source/browse/CONTRIBUTORS
// Licensed under the same terms as Go itself:
// https://code.google.com/p/go/source/browse/LICENSE

// Package hpack implements HPACK, the header compression format used
// by HTTP/2 and QUIC (RFC 7541): variable-length integers and
// strings, a 61-entry static table, a per-connection dynamic table,
// and the block-level encoder/decoder built on top of them.
//
// Package hpack is deliberately ignorant of wire framing. Callers
// hand it one complete header block at a time (already reassembled
// from however many CONTINUATION-equivalent fragments the transport
// split it into) and get back, or hand it, a []HeaderField.
package hpack

import (
	"fmt"
)

// A HeaderField is a name-value pair, as used both by the decoder to
// report decoded fields and by the encoder to accept fields to
// encode. Sensitive marks a field that must always use the
// Never-Indexed literal representation, whether set explicitly by
// the caller or inferred by the encoder's own policy for fields such
// as authorization.
type HeaderField struct {
	Name, Value string
	Sensitive   bool
}

func (hf HeaderField) String() string {
	var suffix string
	if hf.Sensitive {
		suffix = " (sensitive)"
	}
	return fmt.Sprintf("header field %q = %q%s", hf.Name, hf.Value, suffix)
}

// Size returns the size of an entry per RFC 7541 4.1, as used for
// the dynamic table's eviction accounting. The header list size limit
// set with SetMaxHeaderListSize does not use it; see headerListSize.
func (hf HeaderField) Size() uint32 {
	return headerFieldSize(hf.Name, hf.Value)
}

// A Decoder is the decoding context for one connection's header
// blocks. It owns that connection's dynamic table, so blocks must be
// given to a single Decoder in the order they appear on the wire.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	dynTab headerFieldTable

	// maxSizeLimit is the ceiling an in-band Table-Size-Update may
	// not exceed: the value most recently negotiated out-of-band
	// (e.g. via an HTTP/2 SETTINGS frame). It is distinct from
	// dynTab.maxSize, which an update can lower below this ceiling at
	// any time.
	maxSizeLimit uint32

	emit func(f HeaderField)

	maxHeaderListSize uint32 // 0 means unbounded
}

// NewDecoder returns a Decoder that calls emit, if non-nil, for each
// field as it's decoded. maxDynamicTableSize sets the dynamic table's
// initial capacity and ceiling; use SetMaxDynamicTableSize to change
// it later, as happens when a connection's SETTINGS negotiate a new
// value.
func NewDecoder(maxDynamicTableSize uint32, emit func(f HeaderField)) *Decoder {
	d := &Decoder{emit: emit, maxSizeLimit: maxDynamicTableSize}
	d.dynTab.setMaxSize(maxDynamicTableSize)
	return d
}

// SetMaxDynamicTableSize changes the ceiling an in-band Table-Size-
// Update is allowed to request, and lowers the table's actual
// capacity to match if it's now above that ceiling.
func (d *Decoder) SetMaxDynamicTableSize(v uint32) {
	d.maxSizeLimit = v
	if d.dynTab.maxSize > v {
		d.dynTab.setMaxSize(v)
	}
}

// SetMaxHeaderListSize sets the limit, in bytes of name plus value
// summed over the whole decoded list (no per-entry overhead), past
// which Write and DecodeFull report ErrHeaderListTooLarge. A limit of
// 0 means no limit.
func (d *Decoder) SetMaxHeaderListSize(v uint32) {
	d.maxHeaderListSize = v
}

// at returns the header field addressed by the RFC 7541 2.3.3 unified
// index space: 1..len(staticTable) name the static table, and indexes
// beyond that name the dynamic table, counting from its most recently
// inserted entry.
func (d *Decoder) at(i uint64) (HeaderField, bool) {
	if i < 1 {
		return HeaderField{}, false
	}
	if i <= uint64(len(staticTable)) {
		return staticTable[i-1], true
	}
	return d.dynTab.at(i - uint64(len(staticTable)))
}

// representation classifies the leading byte of a header field
// representation, per RFC 7541 6.
type representation int

const (
	repIndexed representation = iota
	repLiteralIncremental
	repLiteralNeverIndexed
	repLiteralWithoutIndexing
	repTableSizeUpdate
)

func classifyRepresentation(b byte) representation {
	switch {
	case b&0x80 != 0:
		return repIndexed
	case b&0x40 != 0:
		return repLiteralIncremental
	case b&0x20 != 0:
		return repTableSizeUpdate
	case b&0x10 != 0:
		return repLiteralNeverIndexed
	default:
		return repLiteralWithoutIndexing
	}
}

// DecodeFull decodes one complete header block in a single call and
// returns the header fields it contains, in wire order.
func (d *Decoder) DecodeFull(p []byte) ([]HeaderField, error) {
	var got []HeaderField
	saved := d.emit
	d.emit = func(f HeaderField) {
		got = append(got, f)
		if saved != nil {
			saved(f)
		}
	}
	_, err := d.Write(p)
	d.emit = saved
	if got == nil {
		got = []HeaderField{}
	}
	return got, err
}

// Write decodes one complete header block, emitting each field to the
// callback given to NewDecoder as it's decoded. It always consumes
// the entire block or fails outright: unlike a transport-facing
// io.Writer, there is no partial-block state carried between calls.
//
// A non-nil error is either an *ErrCompressionError, meaning the
// dynamic table state is no longer trustworthy and the connection
// should be abandoned, ErrHeaderListTooLarge, meaning decoding stopped
// at the field that crossed the limit and the block should be
// rejected, or ErrHTTP2Violation, a soft
// violation the caller may choose to tolerate; in the last two cases
// every field that did decode is still delivered to emit.
func (d *Decoder) Write(p []byte) (int, error) {
	cursor := p
	var tableSizeUpdateAllowed = true
	var totalSize uint32
	var http2Violation bool

	for len(cursor) > 0 {
		rep := classifyRepresentation(cursor[0])

		if rep == repTableSizeUpdate {
			if !tableSizeUpdateAllowed {
				return len(p) - len(cursor), &ErrCompressionError{Err: fmt.Errorf("dynamic table size update after a header field")}
			}
			size, rest, err := readVarInt(5, cursor)
			if err != nil {
				return len(p) - len(cursor), &ErrCompressionError{Err: err}
			}
			if size > uint64(d.maxSizeLimit) {
				return len(p) - len(cursor), &ErrCompressionError{Err: fmt.Errorf("dynamic table size update %d exceeds negotiated limit %d", size, d.maxSizeLimit)}
			}
			d.dynTab.setMaxSize(uint32(size))
			cursor = rest
			continue
		}
		tableSizeUpdateAllowed = false

		switch rep {
		case repIndexed:
			idx, rest, err := readVarInt(7, cursor)
			if err != nil {
				return len(p) - len(cursor), &ErrCompressionError{Err: err}
			}
			if idx == 0 {
				return len(p) - len(cursor), &ErrCompressionError{Err: fmt.Errorf("indexed representation with index 0")}
			}
			hf, ok := d.at(idx)
			if !ok {
				return len(p) - len(cursor), &ErrCompressionError{Err: fmt.Errorf("invalid indexed representation index %d", idx)}
			}
			cursor = rest
			totalSize += headerListSize(hf)
			d.doEmit(hf)

		default:
			prefixBits := byte(4)
			if rep == repLiteralIncremental {
				prefixBits = 6
			}
			idx, rest, err := readVarInt(prefixBits, cursor)
			if err != nil {
				return len(p) - len(cursor), &ErrCompressionError{Err: err}
			}
			cursor = rest

			var name string
			if idx == 0 {
				n, rest, err := readString(cursor)
				if err != nil {
					return len(p) - len(cursor), &ErrCompressionError{Err: err}
				}
				if hasUpperASCII(n) {
					http2Violation = true
				}
				name = n
				cursor = rest
			} else {
				hf, ok := d.at(idx)
				if !ok {
					return len(p) - len(cursor), &ErrCompressionError{Err: fmt.Errorf("invalid literal name index %d", idx)}
				}
				name = hf.Name
			}

			value, rest, err := readString(cursor)
			if err != nil {
				return len(p) - len(cursor), &ErrCompressionError{Err: err}
			}
			cursor = rest

			hf := HeaderField{Name: name, Value: value, Sensitive: rep == repLiteralNeverIndexed}
			if rep == repLiteralIncremental {
				d.dynTab.add(hf)
			}
			totalSize += headerListSize(hf)
			d.doEmit(hf)
		}

		if d.maxHeaderListSize != 0 && totalSize > d.maxHeaderListSize {
			return len(p) - len(cursor), ErrHeaderListTooLarge
		}
	}

	if http2Violation {
		return len(p), ErrHTTP2Violation
	}
	return len(p), nil
}

func (d *Decoder) doEmit(f HeaderField) {
	if d.emit != nil {
		d.emit(f)
	}
}

// headerListSize is a decoded field's contribution to the
// SetMaxHeaderListSize accounting: just the name and value bytes, with
// none of HeaderField.Size's RFC 7541 4.1 per-entry dynamic-table
// overhead, per the ErrHeaderListTooLarge contract above.
func headerListSize(hf HeaderField) uint32 {
	return uint32(len(hf.Name) + len(hf.Value))
}

func hasUpperASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			return true
		}
	}
	return false
}
