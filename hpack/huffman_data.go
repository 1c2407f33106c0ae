// Copyright 2014 The Go Authors.
// See https://code.google.com/p/go/source/browse/CONTRIBUTORS
// Licensed under the same terms as Go itself:
// https://code.google.com/p/go/source/browse/LICENSE

package hpack

// huffmanCodeLen holds the bit length of the canonical Huffman code
// assigned to each byte value, per RFC 7541 Appendix B. The codes
// themselves are derived at init time by the loop below rather than
// hand-transcribed, since a canonical Huffman code is fully determined
// by its length sequence: symbols are ordered first by code length,
// then by symbol value, and codes are assigned consecutively,
// left-shifting whenever the length increases.
var huffmanCodeLen = [256]uint8{
	13, 23, 28, 28, 28, 28, 28, 28, 28, 24, 30, 28, 28, 30, 28, 28,
	28, 28, 28, 28, 28, 28, 30, 28, 28, 28, 28, 28, 28, 28, 28, 28,
	6, 10, 10, 12, 13, 6, 8, 11, 10, 10, 8, 11, 8, 6, 6, 6,
	5, 5, 5, 6, 6, 6, 6, 6, 6, 6, 7, 8, 15, 6, 12, 10,
	13, 6, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
	7, 7, 7, 7, 7, 7, 7, 7, 8, 7, 8, 13, 19, 13, 14, 6,
	15, 5, 6, 5, 6, 5, 6, 6, 6, 5, 7, 7, 6, 6, 6, 5,
	6, 7, 6, 5, 5, 6, 7, 7, 7, 7, 7, 15, 11, 14, 13, 28,
	20, 22, 20, 20, 22, 22, 22, 23, 22, 23, 23, 23, 23, 23, 24, 23,
	24, 24, 22, 23, 24, 23, 23, 23, 23, 21, 22, 23, 22, 23, 23, 24,
	22, 21, 20, 22, 22, 23, 23, 21, 23, 22, 22, 24, 21, 22, 23, 23,
	21, 21, 22, 21, 23, 22, 23, 23, 20, 22, 22, 22, 23, 22, 22, 23,
	26, 26, 20, 19, 22, 23, 22, 25, 26, 26, 26, 27, 27, 26, 24, 25,
	19, 21, 26, 27, 27, 26, 27, 24, 21, 21, 26, 26, 28, 27, 27, 27,
	20, 24, 20, 21, 22, 21, 21, 23, 22, 22, 25, 25, 24, 24, 26, 23,
	26, 27, 26, 26, 27, 27, 27, 27, 27, 28, 27, 27, 27, 27, 27, 26,
}

// huffmanCodes holds the canonical Huffman code for each byte, built
// from huffmanCodeLen at package init.
var huffmanCodes [256]uint32

func init() {
	buildHuffmanCodes()
}

// buildHuffmanCodes populates huffmanCodes from huffmanCodeLen.
func buildHuffmanCodes() {
	type sym struct {
		ch  int
		len uint8
	}
	syms := make([]sym, 256)
	for i := range syms {
		syms[i] = sym{i, huffmanCodeLen[i]}
	}
	// Canonical ordering: ascending length, then ascending symbol.
	for i := 1; i < len(syms); i++ {
		for j := i; j > 0 && (syms[j].len < syms[j-1].len ||
			(syms[j].len == syms[j-1].len && syms[j].ch < syms[j-1].ch)); j-- {
			syms[j], syms[j-1] = syms[j-1], syms[j]
		}
	}
	var code uint32
	prevLen := syms[0].len
	for _, s := range syms {
		code <<= s.len - prevLen
		huffmanCodes[s.ch] = code
		prevLen = s.len
		code++
	}
}
