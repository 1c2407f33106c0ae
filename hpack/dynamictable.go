// Copyright 2014 The Go Authors.
// See https://code.google.com/p/go/source/browse/CONTRIBUTORS
// Licensed under the same terms as Go itself:
// https://code.google.com/p/go/source/browse/LICENSE

package hpack

// headerFieldSize is the size an entry occupies in the dynamic table,
// per RFC 7541 4.1: the length of its name and value plus 32 bytes of
// per-entry overhead.
func headerFieldSize(name, value string) uint32 {
	return uint32(len(name) + len(value) + 32)
}

// nameEntry is one occurrence of a name in the encoder's reverse
// index: the value it was paired with and the absolute insertion
// sequence number assigned to that entry.
type nameEntry struct {
	value string
	seq   uint64
}

// headerFieldTable is the dynamic table shared by the decoder and
// encoder sides (RFC 7541 2.3.2). ents holds entries oldest-first;
// the most recently inserted entry is always ents[len(ents)-1].
//
// The encoder additionally maintains byName, a reverse index from
// header name to the sequence of values inserted under it, so that
// WriteField can find a prior entry to reference without a linear
// scan. absSeq and offset let that index translate a surviving
// entry's insertion sequence back into the table's current relative
// addressing once older entries have been evicted.
type headerFieldTable struct {
	ents    []HeaderField
	size    uint32
	maxSize uint32

	byName map[string][]nameEntry
	absSeq uint64
	offset uint64
}

// enableReverseIndex turns on the byName index used by the encoder.
// The decoder side never calls this; it only ever looks entries up by
// position, never by name.
func (t *headerFieldTable) enableReverseIndex() {
	t.byName = make(map[string][]nameEntry)
}

// len returns the number of entries currently held.
func (t *headerFieldTable) len() int {
	return len(t.ents)
}

// add inserts f as the newest entry, evicting older entries first to
// make room. An entry whose own size exceeds maxSize empties the
// table instead of being inserted (RFC 7541 4.4).
func (t *headerFieldTable) add(f HeaderField) {
	size := headerFieldSize(f.Name, f.Value)
	if size > t.maxSize {
		t.evictTo(0)
		return
	}
	t.evictTo(t.maxSize - size)
	t.ents = append(t.ents, f)
	t.size += size
	if t.byName != nil {
		t.absSeq++
		t.byName[f.Name] = append(t.byName[f.Name], nameEntry{f.Value, t.absSeq})
	}
}

// evictTo removes oldest entries until the table's size is at most
// max.
func (t *headerFieldTable) evictTo(max uint32) {
	for t.size > max && len(t.ents) > 0 {
		evicted := t.ents[0]
		t.size -= headerFieldSize(evicted.Name, evicted.Value)
		t.ents = t.ents[1:]
		if t.byName != nil {
			t.offset++
			// The evicted entry is the oldest, so it is the first
			// record under its name.
			if s := t.byName[evicted.Name]; len(s) > 1 {
				t.byName[evicted.Name] = s[1:]
			} else {
				delete(t.byName, evicted.Name)
			}
		}
	}
	if len(t.ents) == 0 {
		t.ents = nil
		if t.byName != nil {
			t.byName = make(map[string][]nameEntry)
		}
	}
}

// setMaxSize changes the table's capacity, evicting entries as
// necessary to satisfy it.
func (t *headerFieldTable) setMaxSize(v uint32) {
	t.maxSize = v
	t.evictTo(v)
}

// at returns the entry at 1-based relative index i, where 1 is the
// most recently inserted entry. ok is false if i is out of range.
func (t *headerFieldTable) at(i uint64) (HeaderField, bool) {
	if i < 1 || i > uint64(len(t.ents)) {
		return HeaderField{}, false
	}
	return t.ents[uint64(len(t.ents))-i], true
}

// matchKind describes how closely a candidate dynamic table entry
// matched an encoder's lookup request.
type matchKind int

const (
	matchNone matchKind = iota
	matchName
	matchExact
)

// search looks for name (and ideally value) among entries inserted
// under the reverse index. It favors the most recently inserted exact
// match, falling back to the most recent name-only match.
func (t *headerFieldTable) search(name, value string) (idx uint64, kind matchKind) {
	entries := t.byName[name]
	if len(entries) == 0 {
		return 0, matchNone
	}
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].value == value {
			return t.relativeIndex(entries[i].seq), matchExact
		}
	}
	freshest := entries[len(entries)-1]
	return t.relativeIndex(freshest.seq), matchName
}

// relativeIndex converts an entry's absolute insertion sequence
// number into its current 1-based relative index (1 = newest). It
// assumes the entry has not been evicted.
func (t *headerFieldTable) relativeIndex(seq uint64) uint64 {
	total := t.offset + uint64(len(t.ents))
	return total - seq + 1
}
