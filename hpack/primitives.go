// Copyright 2014 The Go Authors.
// See https://code.google.com/p/go/source/browse/CONTRIBUTORS
// Licensed under the same terms as Go itself:
// https://code.google.com/p/go/source/browse/LICENSE

package hpack

import "bytes"

// readVarInt reads an integer encoded with an n-bit prefix, per RFC
// 7541 5.1. n must be between 1 and 8; it is the number of low bits
// of p[0] that belong to the prefix, with any remaining high bits
// reserved for a representation flag the caller has already
// classified.
//
// It returns the parsed value and the slice of p following the
// integer's last byte. On error, remain is p unchanged, so that a
// caller using len(p)-len(remain) to measure bytes consumed sees 0.
func readVarInt(n byte, p []byte) (i uint64, remain []byte, err error) {
	if n < 1 || n > 8 {
		panic("hpack: readVarInt called with bad n")
	}
	if len(p) == 0 {
		return 0, p, errNeedMore
	}
	i = uint64(p[0])
	if n < 8 {
		i &= 1<<uint64(n) - 1
	}
	if i < 1<<uint64(n)-1 {
		return i, p[1:], nil
	}

	orig := p
	p = p[1:]
	var m uint64
	for len(p) > 0 {
		b := p[0]
		p = p[1:]
		i += uint64(b&127) << m
		if b&128 == 0 {
			return i, p, nil
		}
		m += 7
		if m >= 63 {
			return 0, orig, errVarintOverflow
		}
	}
	return 0, orig, errNeedMore
}

// appendVarInt appends i to dst using an n-bit prefix integer
// encoding, per RFC 7541 5.1. The caller is responsible for OR-ing any
// representation flag bits into the first byte written, which is
// always dst[len(dst)]-before-the-call: appendVarInt never sets bits
// outside the low n bits of that byte.
func appendVarInt(dst []byte, n byte, i uint64) []byte {
	k := uint64(1<<n - 1)
	if i < k {
		return append(dst, byte(i))
	}
	dst = append(dst, byte(k))
	i -= k
	for i >= 128 {
		dst = append(dst, byte(0x80|(i&0x7f)))
		i >>= 7
	}
	return append(dst, byte(i))
}

// readString reads a string literal: a 1-bit Huffman flag, a 7-bit
// prefix length, and that many octets of either raw or Huffman-coded
// data (RFC 7541 5.2).
func readString(p []byte) (s string, remain []byte, err error) {
	if len(p) == 0 {
		return "", p, errNeedMore
	}
	huff := p[0]&0x80 != 0
	l, rest, err := readVarInt(7, p)
	if err != nil {
		return "", p, err
	}
	if uint64(len(rest)) < l {
		return "", p, errStringUnderflow
	}
	strBytes := rest[:l]
	rest = rest[l:]
	if !huff {
		return string(strBytes), rest, nil
	}
	var buf bytes.Buffer
	if _, err := HuffmanDecode(&buf, strBytes); err != nil {
		return "", p, err
	}
	return buf.String(), rest, nil
}

// appendHeaderString appends a string literal, choosing the Huffman
// encoding over the raw one whenever it is strictly smaller (RFC 7541
// doesn't require this, but never picking a larger encoding is always
// legal and is what every real encoder does).
func appendHeaderString(dst []byte, s string) []byte {
	huffLen := HuffmanEncodeLength(s)
	if huffLen < uint64(len(s)) {
		first := len(dst)
		dst = appendVarInt(dst, 7, huffLen)
		dst[first] |= 0x80
		return AppendHuffmanString(dst, s)
	}
	dst = appendVarInt(dst, 7, uint64(len(s)))
	return append(dst, s...)
}
