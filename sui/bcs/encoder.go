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
)

// Encoder appends BCS encoded values to an internal buffer.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an Encoder with capacity for n bytes.
func NewEncoder(n int) *Encoder {
	return &Encoder{buf: make([]byte, 0, n)}
}

// Bytes returns the encoded data.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

func (e *Encoder) Len() int {
	return len(e.buf)
}

func (e *Encoder) U8(v uint8) {
	e.buf = append(e.buf, v)
}

func (e *Encoder) U16(v uint16) {
	e.buf = binary.LittleEndian.AppendUint16(e.buf, v)
}

func (e *Encoder) U32(v uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
}

func (e *Encoder) U64(v uint64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, v)
}

func (e *Encoder) Bool(v bool) {
	if v {
		e.U8(1)
		return
	}
	e.U8(0)
}

// ULEB128 appends x as a ULEB128. It is used for sequence lengths and enum
// variant indexes.
func (e *Encoder) ULEB128(x uint64) {
	e.buf = append(e.buf, ULEB128(x)...)
}

// FixedBytes appends b without a length prefix.
func (e *Encoder) FixedBytes(b []byte) {
	e.buf = append(e.buf, b...)
}

// ByteVector appends b with a ULEB128 length prefix.
func (e *Encoder) ByteVector(b []byte) {
	e.ULEB128(uint64(len(b)))
	e.FixedBytes(b)
}

func (e *Encoder) String(s string) {
	e.ULEB128(uint64(len(s)))
	e.buf = append(e.buf, s...)
}

// Vec appends the ULEB128 length n and then calls elem for each index in
// order. elem must append exactly one element.
func (e *Encoder) Vec(n int, elem func(i int)) {
	e.ULEB128(uint64(n))
	for i := 0; i < n; i++ {
		elem(i)
	}
}

// Option appends the presence tag of an Option value. If some is true the
// caller must append the value itself.
func (e *Encoder) Option(some bool) {
	e.Bool(some)
}

// Marshaler is implemented by types that know their own BCS encoding.
type Marshaler interface {
	MarshalBCS(e *Encoder)
}

// Marshal returns the encoding of m.
func Marshal(m Marshaler) []byte {
	e := NewEncoder(64)
	m.MarshalBCS(e)
	return e.Bytes()
}

// EncodeString returns the encoding of s.
func EncodeString(s string) []byte {
	e := NewEncoder(len(s) + 5)
	e.String(s)
	return e.Bytes()
}

// EncodeBytes returns the encoding of the byte vector b.
func EncodeBytes(b []byte) []byte {
	e := NewEncoder(len(b) + 5)
	e.ByteVector(b)
	return e.Bytes()
}

func EncodeU64(v uint64) []byte {
	return binary.LittleEndian.AppendUint64(nil, v)
}

func EncodeU8(v uint8) []byte {
	return []byte{v}
}

func EncodeBool(v bool) []byte {
	if v {
		return []byte{1}
	}
	return []byte{0}
}
