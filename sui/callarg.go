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
	"fmt"

	"github.com/canary-registry/canaryd/sui/bcs"
)

// ObjectKind is the reference kind of an object argument. Passing an object
// with the wrong kind causes the transaction to be rejected.
type ObjectKind uint8

const (
	// OwnedObjectKind references an account owned or immutable object
	// by exact version and digest.
	OwnedObjectKind ObjectKind = iota
	// SharedMutableKind references a shared object for writing.
	SharedMutableKind
	// SharedImmutableKind references a shared object for reading only.
	SharedImmutableKind
)

func (k ObjectKind) String() string {
	switch k {
	case OwnedObjectKind:
		return "owned"
	case SharedMutableKind:
		return "shared-mutable"
	case SharedImmutableKind:
		return "shared-immutable"
	}
	return fmt.Sprintf("ObjectKind(%d)", uint8(k))
}

func (k ObjectKind) IsShared() bool {
	return k == SharedMutableKind || k == SharedImmutableKind
}

// ObjectArg is an object passed to a transaction.
type ObjectArg struct {
	Kind ObjectKind
	ID   ObjectID
	// Version is the exact current version of an owned object or the
	// initial shared version of a shared object.
	Version uint64
	// Digest is only used by owned objects.
	Digest Digest
}

func (o ObjectArg) MarshalBCS(e *bcs.Encoder) {
	if o.Kind == OwnedObjectKind {
		e.ULEB128(0)
		ObjectRef{ObjectID: o.ID, Version: BigInt(o.Version),
			Digest: o.Digest}.MarshalBCS(e)
		return
	}
	e.ULEB128(1)
	e.FixedBytes(o.ID[:])
	e.U64(o.Version)
	e.Bool(o.Kind == SharedMutableKind)
}

// CallArg is a transaction input: either the BCS encoding of a pure value or
// an object reference.
type CallArg struct {
	Pure   []byte
	Object *ObjectArg
}

func (a CallArg) IsObject() bool {
	return a.Object != nil
}

func (a CallArg) validate() error {
	if a.Object == nil && a.Pure == nil {
		return fmt.Errorf("%w: empty argument", ErrBuild)
	}
	if a.Object != nil && a.Object.Kind > SharedImmutableKind {
		return fmt.Errorf("%w: invalid object kind: %v", ErrBuild, a.Object.Kind)
	}
	return nil
}

func (a CallArg) MarshalBCS(e *bcs.Encoder) {
	if a.Object == nil {
		e.ULEB128(0)
		e.ByteVector(a.Pure)
		return
	}
	e.ULEB128(1)
	a.Object.MarshalBCS(e)
}

func (CallArg) isInput() {}

// PureBytes passes a Move vector<u8>.
func PureBytes(b []byte) CallArg {
	return CallArg{Pure: bcs.EncodeBytes(b)}
}

// PureString passes a Move String. The value is BCS encoded with a length
// prefix, not as raw UTF-8.
func PureString(s string) CallArg {
	return CallArg{Pure: bcs.EncodeString(s)}
}

// PureAddress passes a Move address or ID as exactly 32 bytes.
func PureAddress(a Address) CallArg {
	return CallArg{Pure: append([]byte(nil), a[:]...)}
}

func PureU8(v uint8) CallArg {
	return CallArg{Pure: bcs.EncodeU8(v)}
}

func PureU64(v uint64) CallArg {
	return CallArg{Pure: bcs.EncodeU64(v)}
}

func PureBool(v bool) CallArg {
	return CallArg{Pure: bcs.EncodeBool(v)}
}

// PureAddressVector passes a Move vector<address>.
func PureAddressVector(adrs ...Address) CallArg {
	e := bcs.NewEncoder(1 + len(adrs)*AddressLength)
	e.Vec(len(adrs), func(i int) { e.FixedBytes(adrs[i][:]) })
	return CallArg{Pure: e.Bytes()}
}

// OwnedObject passes an account owned or immutable object at exactly ref.
func OwnedObject(ref ObjectRef) CallArg {
	return CallArg{Object: &ObjectArg{
		Kind:    OwnedObjectKind,
		ID:      ref.ObjectID,
		Version: uint64(ref.Version),
		Digest:  ref.Digest,
	}}
}

// SharedObject passes a shared object by its initial shared version.
func SharedObject(id ObjectID, initialSharedVersion uint64, mutable bool) CallArg {
	kind := SharedImmutableKind
	if mutable {
		kind = SharedMutableKind
	}
	return CallArg{Object: &ObjectArg{
		Kind:    kind,
		ID:      id,
		Version: initialSharedVersion,
	}}
}
