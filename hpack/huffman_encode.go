// Copyright 2014 The Go Authors.
// See https://code.google.com/p/go/source/browse/CONTRIBUTORS
// Licensed under the same terms as Go itself:
// https://code.google.com/p/go/source/browse/LICENSE

package hpack

import "io"

// HuffmanEncodeLength returns the number of bytes the Huffman
// encoding of s would occupy, without producing it. Callers use it to
// decide whether Huffman coding beats a raw literal before spending
// the work to build it.
func HuffmanEncodeLength(s string) uint64 {
	var n uint64
	for i := 0; i < len(s); i++ {
		n += uint64(huffmanCodeLen[s[i]])
	}
	return (n + 7) / 8
}

// AppendHuffmanString appends the Huffman encoding of s to dst,
// padding the final byte with the high bits of the EOS code (all
// ones), per RFC 7541 5.2.
func AppendHuffmanString(dst []byte, s string) []byte {
	rembits := uint8(8)
	for i := 0; i < len(s); i++ {
		c := s[i]
		code := huffmanCodes[c]
		nbits := huffmanCodeLen[c]
		for nbits >= rembits {
			if len(dst) == 0 || rembits == 8 {
				dst = append(dst, 0)
			}
			dst[len(dst)-1] |= byte(code >> (nbits - rembits))
			nbits -= rembits
			rembits = 8
		}
		if nbits > 0 {
			if rembits == 8 {
				dst = append(dst, 0)
			}
			dst[len(dst)-1] |= byte(code << (rembits - nbits))
			rembits -= nbits
		}
	}
	if rembits < 8 {
		// Pad with the high-order bits of the EOS symbol (all ones).
		dst[len(dst)-1] |= (1 << rembits) - 1
	}
	return dst
}

// HuffmanEncode writes the Huffman encoding of s to w.
func HuffmanEncode(w io.Writer, s []byte) (int, error) {
	dst := AppendHuffmanString(nil, string(s))
	return w.Write(dst)
}
