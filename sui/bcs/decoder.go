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

package bcs

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// Decoder reads BCS encoded values from the front of a buffer.
type Decoder struct {
	buf []byte
	off int
}

func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.off
}

// Done returns an error if any bytes remain unread.
func (d *Decoder) Done() error {
	if r := d.Remaining(); r > 0 {
		return fmt.Errorf("%w: %v trailing bytes", ErrDecode, r)
	}
	return nil
}

func (d *Decoder) next(n int) ([]byte, error) {
	if n < 0 || d.Remaining() < n {
		return nil, fmt.Errorf("%w: unexpected end of data: need %v, have %v",
			ErrDecode, n, d.Remaining())
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b, nil
}

func (d *Decoder) U8() (uint8, error) {
	b, err := d.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Decoder) U16() (uint16, error) {
	b, err := d.next(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (d *Decoder) U32() (uint32, error) {
	b, err := d.next(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *Decoder) U64() (uint64, error) {
	b, err := d.next(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (d *Decoder) Bool() (bool, error) {
	v, err := d.U8()
	if err != nil {
		return false, err
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, fmt.Errorf("%w: invalid bool: %#x", ErrDecode, v)
}

func (d *Decoder) ULEB128() (uint64, error) {
	x, n := DecodeULEB128(d.buf[d.off:])
	if n < 0 {
		return 0, fmt.Errorf("%w: invalid uleb128", ErrDecode)
	}
	d.off += n
	return x, nil
}

// Length reads a sequence length prefix.
func (d *Decoder) Length() (int, error) {
	l, err := d.ULEB128()
	if err != nil {
		return 0, err
	}
	if l > MaxSequenceLength {
		return 0, fmt.Errorf("%w: sequence length %v too large", ErrDecode, l)
	}
	return int(l), nil
}

// Vec reads a sequence length and then calls elem for each index in order.
// It stops at the first error.
func (d *Decoder) Vec(elem func(i int) error) (int, error) {
	n, err := d.Length()
	if err != nil {
		return 0, err
	}
	for i := 0; i < n; i++ {
		if err := elem(i); err != nil {
			return i, err
		}
	}
	return n, nil
}

// FixedBytes reads exactly n bytes. The returned slice aliases the
// underlying buffer.
func (d *Decoder) FixedBytes(n int) ([]byte, error) {
	return d.next(n)
}

// ByteVector reads a length prefixed byte vector.
func (d *Decoder) ByteVector() ([]byte, error) {
	l, err := d.Length()
	if err != nil {
		return nil, err
	}
	return d.next(l)
}

func (d *Decoder) String() (string, error) {
	b, err := d.ByteVector()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: invalid utf-8 string", ErrDecode)
	}
	return string(b), nil
}

// DecodeString decodes buf as exactly one string.
func DecodeString(buf []byte) (string, error) {
	d := NewDecoder(buf)
	s, err := d.String()
	if err != nil {
		return "", err
	}
	return s, d.Done()
}

// DecodeU64 decodes buf as exactly one u64.
func DecodeU64(buf []byte) (uint64, error) {
	d := NewDecoder(buf)
	v, err := d.U64()
	if err != nil {
		return 0, err
	}
	return v, d.Done()
}

// DecodeBool decodes buf as exactly one bool.
func DecodeBool(buf []byte) (bool, error) {
	d := NewDecoder(buf)
	v, err := d.Bool()
	if err != nil {
		return false, err
	}
	return v, d.Done()
}
