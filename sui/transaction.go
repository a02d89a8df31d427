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

package sui

import (
	"golang.org/x/crypto/blake2b"

	"github.com/canary-registry/canaryd/sui/bcs"
)

// GasData funds a transaction. The total fee is at most Price * units
// consumed, capped by Budget.
type GasData struct {
	Payment []ObjectRef
	Owner   Address
	Price   uint64
	Budget  uint64
}

func (g GasData) MarshalBCS(e *bcs.Encoder) {
	e.ULEB128(uint64(len(g.Payment)))
	for _, ref := range g.Payment {
		ref.MarshalBCS(e)
	}
	e.FixedBytes(g.Owner[:])
	e.U64(g.Price)
	e.U64(g.Budget)
}

// TransactionData is a finalized, unsigned transaction. It has no expiration.
// Do not modify it after it has been signed.
type TransactionData struct {
	Kind   ProgrammableTransaction
	Sender Address
	Gas    GasData
}

func (tx *TransactionData) MarshalBCS(e *bcs.Encoder) {
	e.ULEB128(0) // TransactionData::V1
	e.ULEB128(0) // TransactionKind::ProgrammableTransaction
	tx.Kind.MarshalBCS(e)
	e.FixedBytes(tx.Sender[:])
	tx.Gas.MarshalBCS(e)
	e.ULEB128(0) // TransactionExpiration::None
}

// Bytes returns the BCS encoding of tx, which is what is signed and
// submitted.
func (tx *TransactionData) Bytes() []byte {
	return bcs.Marshal(tx)
}

// Digest returns the transaction digest that the network will assign to tx.
func (tx *TransactionData) Digest() Digest {
	h, _ := blake2b.New256(nil)
	h.Write([]byte("TransactionData::"))
	h.Write(tx.Bytes())
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}
