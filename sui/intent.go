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
)

// Intent is the domain separation prefix of every signed message. A
// signature over one intent can not be replayed as a signature over a
// message of a different scope, version or application.
type Intent struct {
	Scope   IntentScope
	Version uint8
	AppID   uint8
}

type IntentScope uint8

const (
	TransactionDataScope IntentScope = 0
	PersonalMessageScope IntentScope = 3
)

// TransactionIntent returns the intent used to sign transaction data.
func TransactionIntent() Intent {
	return Intent{Scope: TransactionDataScope}
}

// PersonalMessageIntent returns the intent used to sign arbitrary messages.
// The message must be BCS encoded as a byte vector before signing.
func PersonalMessageIntent() Intent {
	return Intent{Scope: PersonalMessageScope}
}

// Bytes returns the three byte intent prefix.
func (i Intent) Bytes() []byte {
	return []byte{byte(i.Scope), i.Version, i.AppID}
}

// Digest returns blake2b-256(intent || msg), the bytes that are actually
// signed.
func (i Intent) Digest(msg []byte) [32]byte {
	h, _ := blake2b.New256(nil)
	h.Write(i.Bytes())
	h.Write(msg)
	var d [32]byte
	copy(d[:], h.Sum(nil))
	return d
}
