package hpack

import (
	"bytes"
	"testing"
)

// TestEncoderMatchesRFCHuffmanSession replays RFC 7541 Appendix C.4's
// three-request session through the real Encoder, across one
// persistent dynamic table, and checks the wire bytes exactly against
// the vectors TestDecodeC4_Huffman decodes.
func TestEncoderMatchesRFCHuffmanSession(t *testing.T) {
	var buf bytes.Buffer
	e := NewEncoder(&buf)

	steps := []struct {
		fields []HeaderField
		want   []byte
	}{
		{
			[]HeaderField{
				pair(":method", "GET"),
				pair(":scheme", "http"),
				pair(":path", "/"),
				pair(":authority", "www.example.com"),
			},
			dehex("8286 8441 8cf1 e3c2 e5f2 3a6b a0ab 90f4 ff"),
		},
		{
			[]HeaderField{
				pair(":method", "GET"),
				pair(":scheme", "http"),
				pair(":path", "/"),
				pair(":authority", "www.example.com"),
				pair("cache-control", "no-cache"),
			},
			dehex("8286 84be 5886 a8eb 1064 9cbf"),
		},
		{
			[]HeaderField{
				pair(":method", "GET"),
				pair(":scheme", "https"),
				pair(":path", "/index.html"),
				pair(":authority", "www.example.com"),
				pair("custom-key", "custom-value"),
			},
			dehex("8287 85bf 4088 25a8 49e9 5ba9 7d7f 8925 a849 e95b b8e8 b4bf"),
		},
	}

	for i, step := range steps {
		buf.Reset()
		for _, f := range step.fields {
			if err := e.WriteField(f); err != nil {
				t.Fatalf("step %d: WriteField(%v): %v", i, f, err)
			}
		}
		if got := buf.Bytes(); !bytes.Equal(got, step.want) {
			t.Errorf("step %d: got % x; want % x", i, got, step.want)
		}
	}
}

// TestEncoderDecoderRoundTrip feeds the Encoder's output for an
// assortment of fields straight back into a Decoder and checks the
// fields survive unchanged, including ones that must take the
// Never-Indexed path.
func TestEncoderDecoderRoundTrip(t *testing.T) {
	fields := []HeaderField{
		pair(":method", "POST"),
		pair(":path", "/upload"),
		pair("content-type", "application/json"),
		{Name: "authorization", Value: "Bearer secret-token", Sensitive: false},
		pair("cookie", "short"),
		pair("cookie", "this-cookie-value-is-long-enough-to-be-indexed"),
		{Name: "x-trace-id", Value: "abc123", Sensitive: true},
	}

	var buf bytes.Buffer
	e := NewEncoder(&buf)
	for _, f := range fields {
		if err := e.WriteField(f); err != nil {
			t.Fatalf("WriteField(%v): %v", f, err)
		}
	}

	var got []HeaderField
	d := NewDecoder(4096, func(f HeaderField) { got = append(got, f) })
	if _, err := d.Write(buf.Bytes()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if len(got) != len(fields) {
		t.Fatalf("got %d fields; want %d", len(got), len(fields))
	}
	for i, want := range fields {
		if got[i].Name != want.Name || got[i].Value != want.Value {
			t.Errorf("field %d: got %q=%q; want %q=%q", i, got[i].Name, got[i].Value, want.Name, want.Value)
		}
	}
}

// TestEncoderNeverIndexesAuthorization checks that an authorization
// header is always encoded Never-Indexed, regardless of Sensitive,
// and is never inserted into the dynamic table.
func TestEncoderNeverIndexesAuthorization(t *testing.T) {
	var buf bytes.Buffer
	e := NewEncoder(&buf)
	if err := e.WriteField(pair("authorization", "Basic dXNlcjpwYXNz")); err != nil {
		t.Fatalf("WriteField: %v", err)
	}
	if got := buf.Bytes()[0] & 0xf0; got != 0x10 {
		t.Errorf("leading byte high nibble = %#x; want 0x10 (Literal Never Indexed)", got)
	}
	if e.dynTab.len() != 0 {
		t.Errorf("dynamic table length = %d; want 0, authorization must never be inserted", e.dynTab.len())
	}
}

// TestEncoderShortCookieNeverIndexed checks the short-cookie
// Never-Indexed heuristic and its complement.
func TestEncoderShortCookieNeverIndexed(t *testing.T) {
	var buf bytes.Buffer
	e := NewEncoder(&buf)

	if err := e.WriteField(pair("cookie", "a=1")); err != nil {
		t.Fatalf("WriteField: %v", err)
	}
	if got := buf.Bytes()[0] & 0xf0; got != 0x10 {
		t.Errorf("short cookie: leading byte high nibble = %#x; want 0x10", got)
	}

	buf.Reset()
	long := "session=aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	if err := e.WriteField(pair("cookie", long)); err != nil {
		t.Fatalf("WriteField: %v", err)
	}
	if got := buf.Bytes()[0] & 0xf0; got == 0x10 {
		t.Errorf("long cookie was encoded Never-Indexed; want Literal With Incremental Indexing")
	}
}

// TestDynamicTableEvictsUnderSmallMax exercises eviction the way RFC
// 7541 Appendix C.5's small-table session does, but with sizes chosen
// so the expected survivors can be computed directly rather than
// transcribed from the RFC's raw response byte sequence.
func TestDynamicTableEvictsUnderSmallMax(t *testing.T) {
	const maxSize = 100 // each entry costs 70 or 71 bytes, so only one fits

	var got []HeaderField
	d := NewDecoder(maxSize, func(f HeaderField) { got = append(got, f) })

	var buf bytes.Buffer
	e := NewEncoder(&buf)
	e.dynTab.setMaxSize(maxSize)

	entries := []HeaderField{
		pair("x-first", "1111111111111111111111111111111"),
		pair("x-second", "2222222222222222222222222222222"),
		pair("x-third", "3333333333333333333333333333333"),
	}
	for _, f := range entries {
		if err := e.WriteField(f); err != nil {
			t.Fatalf("WriteField(%v): %v", f, err)
		}
	}
	if _, err := d.Write(buf.Bytes()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(got) != len(entries) {
		t.Fatalf("decoded %d fields; want %d", len(got), len(entries))
	}

	// x-first's entry must have been evicted to make room for the
	// later entries; a reference to it by name must now miss the
	// encoder's dynamic table (it's still in neither table by exact
	// value). Only the encoder's table keeps the reverse index that
	// search reads.
	if _, kind := e.dynTab.search("x-first", entries[0].Value); kind != matchNone {
		t.Errorf("x-first should have been evicted under a %d-byte max", maxSize)
	}
	if _, kind := e.dynTab.search("x-third", entries[2].Value); kind != matchExact {
		t.Errorf("x-third, the most recently inserted entry, should still be present")
	}

	var total uint32
	for _, f := range d.dynTab.ents {
		total += f.Size()
	}
	if total > maxSize {
		t.Errorf("dynamic table size %d exceeds its max of %d", total, maxSize)
	}
}

func TestDecoderRejectsTableSizeUpdateAfterField(t *testing.T) {
	d := NewDecoder(4096, nil)
	var buf []byte
	buf = append(buf, 0x82)                  // Indexed: :method GET
	buf = append(buf, 0x3f, 0x01)            // Table-Size-Update(32), illegal here
	_, err := d.Write(buf)
	if _, ok := err.(*ErrCompressionError); !ok {
		t.Fatalf("Write error = %v (%T); want *ErrCompressionError", err, err)
	}
}

func TestDecoderRejectsTableSizeUpdateAboveCeiling(t *testing.T) {
	d := NewDecoder(100, nil)
	var buf []byte
	buf = appendVarInt(buf, 5, 200)
	buf[0] |= 0x20
	_, err := d.Write(buf)
	if _, ok := err.(*ErrCompressionError); !ok {
		t.Fatalf("Write error = %v (%T); want *ErrCompressionError", err, err)
	}
}

func TestDecoderRejectsInvalidIndex(t *testing.T) {
	d := NewDecoder(4096, nil)
	_, err := d.Write([]byte{0xff, 0x00}) // Indexed with a huge out-of-range index
	if _, ok := err.(*ErrCompressionError); !ok {
		t.Fatalf("Write error = %v (%T); want *ErrCompressionError", err, err)
	}
}

func TestDecoderHeaderListTooLarge(t *testing.T) {
	d := NewDecoder(4096, nil)
	d.SetMaxHeaderListSize(40) // smaller than even one typical field

	var buf bytes.Buffer
	e := NewEncoder(&buf)
	if err := e.WriteField(pair("x-long-name-header", "a reasonably long value here")); err != nil {
		t.Fatalf("WriteField: %v", err)
	}

	_, err := d.Write(buf.Bytes())
	if err != ErrHeaderListTooLarge {
		t.Fatalf("Write error = %v; want ErrHeaderListTooLarge", err)
	}
}

func TestDecoderFlagsUpperASCIIName(t *testing.T) {
	var buf []byte
	buf = append(buf, 0x40) // Literal With Incremental Indexing, new name
	buf = appendHeaderString(buf, "X-Custom")
	buf = appendHeaderString(buf, "v")

	var got []HeaderField
	d := NewDecoder(4096, func(f HeaderField) { got = append(got, f) })
	_, err := d.Write(buf)
	if err != ErrHTTP2Violation {
		t.Fatalf("Write error = %v; want ErrHTTP2Violation", err)
	}
	if len(got) != 1 || got[0].Name != "X-Custom" {
		t.Errorf("expected the field to still be delivered despite the soft violation, got %v", got)
	}
}
