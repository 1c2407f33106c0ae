// Copyright 2014 The Go Authors.
// See https://code.google.com/p/go/source/browse/CONTRIBUTORS
// Licensed under the same terms as Go itself:
// https://code.google.com/p/go/source/browse/LICENSE

package hpack

// pair is a convenience constructor for a non-sensitive HeaderField.
func pair(name, value string) HeaderField {
	return HeaderField{Name: name, Value: value}
}

// staticTable holds the 61 entries of the HPACK static table, defined
// in RFC 7541 Appendix A. Index i (1-based, as used on the wire) maps
// to staticTable[i-1].
var staticTable = [...]HeaderField{
	pair(":authority", ""),
	pair(":method", "GET"),
	pair(":method", "POST"),
	pair(":path", "/"),
	pair(":path", "/index.html"),
	pair(":scheme", "http"),
	pair(":scheme", "https"),
	pair(":status", "200"),
	pair(":status", "204"),
	pair(":status", "206"),
	pair(":status", "304"),
	pair(":status", "400"),
	pair(":status", "404"),
	pair(":status", "500"),
	pair("accept-charset", ""),
	pair("accept-encoding", "gzip, deflate"),
	pair("accept-language", ""),
	pair("accept-ranges", ""),
	pair("accept", ""),
	pair("access-control-allow-origin", ""),
	pair("age", ""),
	pair("allow", ""),
	pair("authorization", ""),
	pair("cache-control", ""),
	pair("content-disposition", ""),
	pair("content-encoding", ""),
	pair("content-language", ""),
	pair("content-length", ""),
	pair("content-location", ""),
	pair("content-range", ""),
	pair("content-type", ""),
	pair("cookie", ""),
	pair("date", ""),
	pair("etag", ""),
	pair("expect", ""),
	pair("expires", ""),
	pair("from", ""),
	pair("host", ""),
	pair("if-match", ""),
	pair("if-modified-since", ""),
	pair("if-none-match", ""),
	pair("if-range", ""),
	pair("if-unmodified-since", ""),
	pair("last-modified", ""),
	pair("link", ""),
	pair("location", ""),
	pair("max-forwards", ""),
	pair("proxy-authenticate", ""),
	pair("proxy-authorization", ""),
	pair("range", ""),
	pair("referer", ""),
	pair("refresh", ""),
	pair("retry-after", ""),
	pair("server", ""),
	pair("set-cookie", ""),
	pair("strict-transport-security", ""),
	pair("transfer-encoding", ""),
	pair("user-agent", ""),
	pair("vary", ""),
	pair("via", ""),
	pair("www-authenticate", ""),
}

// staticTableFirstIndex maps a header name to the lowest 1-based
// static table index holding that name, for the Name-only match used
// when the encoder can't find an exact Name+Value hit.
var staticTableFirstIndex = map[string]uint64{}

// staticTableExactIndex maps "name\x00value" to the 1-based static
// table index for an exact match.
var staticTableExactIndex = map[string]uint64{}

func init() {
	for i, hf := range staticTable {
		idx := uint64(i + 1)
		if _, ok := staticTableFirstIndex[hf.Name]; !ok {
			staticTableFirstIndex[hf.Name] = idx
		}
		staticTableExactIndex[hf.Name+"\x00"+hf.Value] = idx
	}
}
