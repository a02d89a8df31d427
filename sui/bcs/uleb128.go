// MIT License
//
// Copyright 2018 Canonical Ledgers, LLC
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS
// IN THE SOFTWARE.

// Package bcs implements the Binary Canonical Serialization used by the Sui
// execution engine for transaction data, call arguments and return values.
//
// Integers are fixed width little endian. Variable length values, such as
// byte vectors and strings, are prefixed by their length encoded as ULEB128:
// the low 7 bits of each byte carry data, least significant group first, and
// the top bit (0x80) is set on every byte except the last. A canonical
// ULEB128 never ends in a zero byte unless it is the single byte 0x00.
//
// https://github.com/diem/bcs
package bcs

import (
	"errors"
	"math/bits"
)

const continuationBitMask = 0x80

// MaxSequenceLength is the largest length prefix accepted when decoding.
const MaxSequenceLength = 1<<31 - 1

// ErrDecode is wrapped by all errors returned by Decoder.
var ErrDecode = errors.New("decode error")

// ULEB128 encodes x.
func ULEB128(x uint64) []byte {
	bitlen := bits.Len64(x)
	buflen := bitlen / 7
	if bitlen == 0 || bitlen%7 > 0 {
		buflen++
	}
	buf := make([]byte, buflen)
	for i := range buf {
		buf[i] = continuationBitMask | uint8(x>>uint(i*7))
	}
	// Unset continuation bit in last byte.
	buf[buflen-1] &^= continuationBitMask
	return buf
}

// DecodeULEB128 decodes a canonical ULEB128 from the front of buf and returns
// the number of bytes used. If buf is truncated, not minimally encoded or
// encodes a number larger than 64 bits, 0 and -1 is returned.
func DecodeULEB128(buf []byte) (uint64, int) {
	var x uint64
	for i, b := range buf {
		if i == 10 || (i == 9 && b > 1) {
			return 0, -1
		}
		x |= uint64(b&^continuationBitMask) << uint(i*7)
		if b&continuationBitMask == 0 {
			if i > 0 && b == 0 {
				return 0, -1
			}
			return x, i + 1
		}
	}
	return 0, -1
}
