// Copyright 2014 The Go Authors.
// See https://code.google.com/p/go/source/browse/CONTRIBUTORS
// Licensed under the same terms as Go itself:
// https://code.google.com/p/go/source/browse/LICENSE

package hpack

import "errors"

// errNeedMore and errVarintOverflow are internal to readVarInt; a
// caller always has the whole header block in hand; there is nothing
// to wait for, so these surface to callers wrapped in
// ErrCompressionError.
var (
	errNeedMore        = errors.New("hpack: need more data")
	errVarintOverflow  = errors.New("hpack: varint overflow")
	errStringUnderflow = errors.New("hpack: string literal runs past end of block")
	errInvalidHuffman  = errors.New("hpack: invalid Huffman-encoded data")
)

// ErrCompressionError is returned when a header block violates the
// HPACK wire format: an indexed representation naming an index
// outside either table, a Huffman-coded string with invalid padding
// or an incomplete symbol, a dynamic table size update that exceeds
// the bound the peer negotiated, or a malformed integer.
//
// A decoder that returns ErrCompressionError must not be used again;
// RFC 7541 7.3 requires the connection be torn down, since the peer's
// dynamic table state can no longer be trusted to match the sender's.
type ErrCompressionError struct {
	Err error
}

func (e *ErrCompressionError) Error() string { return "hpack: " + e.Err.Error() }
func (e *ErrCompressionError) Unwrap() error { return e.Err }

// ErrHeaderListTooLarge is returned when the cumulative size of the
// header list (name length + value length per field, RFC 7541 4.1's
// accounting applied to the emitted list rather than the table) would
// exceed the limit configured with SetMaxHeaderListSize. Unlike
// ErrCompressionError this is not a framing violation. Decoding stops
// at the field that crossed the limit: representations after it in
// the block are not processed, and any dynamic table insertions they
// carry are not made.
var ErrHeaderListTooLarge = errors.New("hpack: header list larger than configured maximum")

// ErrHTTP2Violation reports a header block that is valid HPACK but
// violates an HTTP/2-specific rule layered on top of it, currently
// just the ban on uppercase ASCII in header field names. It is
// returned alongside a fully decoded header list: the caller decides
// whether a violation severe enough to prompt tearing down the stream
// rather than continuing.
var ErrHTTP2Violation = errors.New("hpack: uppercase letter in header field name")
