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
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/canary-registry/canaryd/sui/bcs"
)

// ObjectRef names one exact version of an object. A transaction that uses a
// stale ObjectRef is rejected by the network.
type ObjectRef struct {
	ObjectID ObjectID `json:"objectId"`
	Version  BigInt   `json:"version"`
	Digest   Digest   `json:"digest"`
}

func (r ObjectRef) MarshalBCS(e *bcs.Encoder) {
	e.FixedBytes(r.ObjectID[:])
	e.U64(uint64(r.Version))
	e.ByteVector(r.Digest[:])
}

// OwnerKind classifies who may use an object.
type OwnerKind uint8

const (
	// AddressOwner objects are single writer, owned by an account.
	AddressOwner OwnerKind = iota + 1
	// ObjectOwner objects are owned by another object and can not be
	// passed to a transaction directly.
	ObjectOwner
	// Shared objects may be used by anyone and are sequenced by
	// consensus.
	Shared
	// Immutable objects can never change.
	Immutable
)

func (k OwnerKind) String() string {
	switch k {
	case AddressOwner:
		return "AddressOwner"
	case ObjectOwner:
		return "ObjectOwner"
	case Shared:
		return "Shared"
	case Immutable:
		return "Immutable"
	}
	return "Unknown"
}

// Owner is the ownership classification of an object.
type Owner struct {
	Kind OwnerKind
	// Address is the owning account or object.
	Address Address
	// InitialSharedVersion is the version at which a Shared object was
	// shared. It does not change when the object is mutated.
	InitialSharedVersion uint64
}

// UnmarshalJSON accepts the fullnode owner encodings:
//
//	{"AddressOwner": "0x..."}
//	{"ObjectOwner": "0x..."}
//	{"Shared": {"initial_shared_version": 1}}
//	"Immutable"
func (o *Owner) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "Immutable" {
			return fmt.Errorf("unknown owner: %q", s)
		}
		*o = Owner{Kind: Immutable}
		return nil
	}
	var v struct {
		AddressOwner *Address `json:"AddressOwner"`
		ObjectOwner  *Address `json:"ObjectOwner"`
		Shared       *struct {
			InitialSharedVersion BigInt `json:"initial_shared_version"`
		} `json:"Shared"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch {
	case v.AddressOwner != nil:
		*o = Owner{Kind: AddressOwner, Address: *v.AddressOwner}
	case v.ObjectOwner != nil:
		*o = Owner{Kind: ObjectOwner, Address: *v.ObjectOwner}
	case v.Shared != nil:
		*o = Owner{Kind: Shared,
			InitialSharedVersion: uint64(v.Shared.InitialSharedVersion)}
	default:
		return fmt.Errorf("unknown owner: %s", data)
	}
	return nil
}

func (o Owner) MarshalJSON() ([]byte, error) {
	switch o.Kind {
	case AddressOwner:
		return json.Marshal(map[string]Address{"AddressOwner": o.Address})
	case ObjectOwner:
		return json.Marshal(map[string]Address{"ObjectOwner": o.Address})
	case Shared:
		return json.Marshal(map[string]interface{}{
			"Shared": map[string]uint64{
				"initial_shared_version": o.InitialSharedVersion}})
	case Immutable:
		return json.Marshal("Immutable")
	}
	return nil, fmt.Errorf("unknown owner kind: %v", o.Kind)
}

// Object is the current state of an on-chain object, as needed to reference
// it from a transaction.
type Object struct {
	Ref                 ObjectRef
	Type                string
	Owner               Owner
	PreviousTransaction Digest
}

// Package returns the address of the package that defines the object's
// type.
func (obj Object) Package() (Address, error) {
	return PackageFromType(obj.Type)
}

// Arg returns the CallArg that references obj by its ownership kind. Shared
// objects are referenced by their initial shared version, either mutably or
// immutably. Account owned and immutable objects are referenced by their
// exact current version.
func (obj Object) Arg(mutable bool) (CallArg, error) {
	switch obj.Owner.Kind {
	case Shared:
		return SharedObject(obj.Ref.ObjectID,
			obj.Owner.InitialSharedVersion, mutable), nil
	case AddressOwner, Immutable:
		return OwnedObject(obj.Ref), nil
	}
	return CallArg{}, fmt.Errorf("%w: object %v with owner %v can not be a transaction input",
		ErrBuild, obj.Ref.ObjectID, obj.Owner.Kind)
}

// PackageFromType extracts the package address from a fully qualified Move
// type such as "0x2::coin::Coin<0x2::sui::SUI>".
func PackageFromType(typ string) (Address, error) {
	i := strings.Index(typ, "::")
	if i < 0 {
		return Address{}, fmt.Errorf("%w: %q: missing \"::\"", ErrMalformedType, typ)
	}
	pkg, err := ParseAddress(typ[:i])
	if err != nil {
		return Address{}, fmt.Errorf("%w: %q: %v", ErrMalformedType, typ, err)
	}
	return pkg, nil
}

// Clock is the id of the shared system clock object.
var Clock = MustParseAddress("0x6")

// ClockArg references the system clock. It is always shared at version 1
// and may only be used immutably.
func ClockArg() CallArg {
	return SharedObject(Clock, 1, false)
}

type objectResponse struct {
	Data  *objectData          `json:"data"`
	Error *objectResponseError `json:"error"`
}

type objectData struct {
	ObjectID            ObjectID `json:"objectId"`
	Version             BigInt   `json:"version"`
	Digest              Digest   `json:"digest"`
	Type                string   `json:"type"`
	Owner               *Owner   `json:"owner"`
	PreviousTransaction *Digest  `json:"previousTransaction"`
}

type objectResponseError struct {
	Code     string `json:"code"`
	ObjectID string `json:"object_id"`
	Error    string `json:"error"`
}

var getObjectOptions = map[string]bool{
	"showType":                true,
	"showOwner":               true,
	"showPreviousTransaction": true,
}

// GetObject fetches the current version of the object id. ErrNotFound is
// returned if it does not exist or was deleted.
func (c *Client) GetObject(ctx context.Context, id ObjectID) (Object, error) {
	var res objectResponse
	err := c.Request(ctx, "sui_getObject",
		[]interface{}{id, getObjectOptions}, &res)
	if err != nil {
		return Object{}, err
	}
	if res.Error != nil {
		switch res.Error.Code {
		case "notExists", "deleted", "dynamicFieldNotFound":
			return Object{}, fmt.Errorf("%w: object %v: %v",
				ErrNotFound, id, res.Error.Code)
		}
		return Object{}, fmt.Errorf("%w: object %v: %v %v",
			ErrDecode, id, res.Error.Code, res.Error.Error)
	}
	if res.Data == nil {
		return Object{}, fmt.Errorf("%w: object %v", ErrNotFound, id)
	}
	if res.Data.Owner == nil {
		return Object{}, fmt.Errorf("%w: object %v: missing owner", ErrDecode, id)
	}
	obj := Object{
		Ref: ObjectRef{
			ObjectID: res.Data.ObjectID,
			Version:  res.Data.Version,
			Digest:   res.Data.Digest,
		},
		Type:  res.Data.Type,
		Owner: *res.Data.Owner,
	}
	if res.Data.PreviousTransaction != nil {
		obj.PreviousTransaction = *res.Data.PreviousTransaction
	}
	return obj, nil
}

// InitialSharedVersion returns the version at which the object id was
// shared. ErrBuild is returned if it is not a shared object.
func (c *Client) InitialSharedVersion(ctx context.Context, id ObjectID) (uint64, error) {
	obj, err := c.GetObject(ctx, id)
	if err != nil {
		return 0, err
	}
	if obj.Owner.Kind != Shared {
		return 0, fmt.Errorf("%w: object %v is not shared: %v",
			ErrBuild, id, obj.Owner.Kind)
	}
	return obj.Owner.InitialSharedVersion, nil
}
