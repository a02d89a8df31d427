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

// Package canarytest serves a registry and its canary blobs from a
// suitest.Fullnode.
package canarytest

import (
	"fmt"
	"sync"

	"github.com/canary-registry/canaryd/canary"
	"github.com/canary-registry/canaryd/sui"
	"github.com/canary-registry/canaryd/sui/bcs"
	"github.com/canary-registry/canaryd/sui/suitest"
	"golang.org/x/crypto/blake2b"
)

// Registry is the on chain state of a registry package. The contract views
// read it at request time, so it may be changed between queries.
type Registry struct {
	Package sui.Address
	ID      sui.ObjectID

	f *suitest.Fullnode

	mu      sync.Mutex
	admin   sui.Address
	fee     uint64
	members map[sui.Address]canary.MemberInfo
	blobs   map[sui.ObjectID]canary.CanaryBlobInfo
}

const registryISV = 5

// NewRegistry adds a shared Registry object with the given id to f and
// handles all contract views.
func NewRegistry(f *suitest.Fullnode, pkg sui.Address, id sui.ObjectID,
	admin sui.Address, fee uint64) *Registry {
	r := &Registry{
		Package: pkg,
		ID:      id,
		f:       f,
		admin:   admin,
		fee:     fee,
		members: make(map[sui.Address]canary.MemberInfo),
		blobs:   make(map[sui.ObjectID]canary.CanaryBlobInfo),
	}
	f.AddShared(id, r.Type(canary.MemberRegistry, "Registry"), registryISV, registryISV)

	f.HandleView(string(canary.MemberRegistry), "get_admin", r.getAdmin)
	f.HandleView(string(canary.MemberRegistry), "get_fee", r.getFee)
	f.HandleView(string(canary.MemberRegistry), "get_member_count", r.getMemberCount)
	f.HandleView(string(canary.MemberRegistry), "is_member", r.isMember)
	f.HandleView(string(canary.MemberRegistry), "get_member_info", r.getMemberInfo)
	f.HandleView(string(canary.PkgStorage), "get_full_info", r.getFullInfo)
	f.HandleView(string(canary.PkgStorage), "derive_canary_address", r.deriveAddress)
	return r
}

// Type returns the fully qualified type of a struct declared by the
// registry package.
func (r *Registry) Type(module canary.Module, name string) string {
	return fmt.Sprintf("%v::%v::%v", r.Package, module, name)
}

func (r *Registry) SetFee(fee uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fee = fee
}

func (r *Registry) SetAdmin(admin sui.Address) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.admin = admin
}

func (r *Registry) AddMember(member sui.Address, info canary.MemberInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[member] = info
}

func (r *Registry) RemoveMember(member sui.Address) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, member)
}

// PutBlob stores info as a shared CanaryBlob object, replacing any blob with
// the same ID.
func (r *Registry) PutBlob(info canary.CanaryBlobInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	version := uint64(1)
	if _, ok := r.blobs[info.ID]; ok {
		version = 2
	}
	r.blobs[info.ID] = info
	r.f.AddShared(info.ID, r.Type(canary.PkgStorage, "CanaryBlob"), 1, version)
}

func (r *Registry) DeleteBlob(id sui.ObjectID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.blobs, id)
	r.f.RemoveObject(id)
}

// DeriveAddress is the address the derive_canary_address view returns.
func DeriveAddress(registryID sui.ObjectID, domain string, pkg sui.Address) sui.Address {
	buf := append(append(registryID[:], domain...), pkg[:]...)
	return blake2b.Sum256(buf)
}

func (r *Registry) checkRegistry(args []sui.CallArg, n int) error {
	if len(args) != n {
		return fmt.Errorf("expected %v arguments, got %v", n, len(args))
	}
	if obj := args[0].Object; obj == nil || obj.ID != r.ID {
		return fmt.Errorf("first argument is not the registry")
	}
	return nil
}

func value(b []byte, typ string) []sui.ReturnValue {
	return []sui.ReturnValue{{Bytes: b, Type: typ}}
}

func (r *Registry) getAdmin(args []sui.CallArg) ([]sui.ReturnValue, error) {
	if err := r.checkRegistry(args, 1); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return value(append([]byte(nil), r.admin[:]...), "address"), nil
}

func (r *Registry) getFee(args []sui.CallArg) ([]sui.ReturnValue, error) {
	if err := r.checkRegistry(args, 1); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return value(bcs.EncodeU64(r.fee), "u64"), nil
}

func (r *Registry) getMemberCount(args []sui.CallArg) ([]sui.ReturnValue, error) {
	if err := r.checkRegistry(args, 1); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return value(bcs.EncodeU64(uint64(len(r.members))), "u64"), nil
}

func (r *Registry) member(args []sui.CallArg) (canary.MemberInfo, bool, error) {
	if err := r.checkRegistry(args, 2); err != nil {
		return canary.MemberInfo{}, false, err
	}
	adr, err := sui.DecodeAddress(args[1].Pure)
	if err != nil {
		return canary.MemberInfo{}, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	info, ok := r.members[adr]
	return info, ok, nil
}

func (r *Registry) isMember(args []sui.CallArg) ([]sui.ReturnValue, error) {
	_, ok, err := r.member(args)
	if err != nil {
		return nil, err
	}
	return value(bcs.EncodeBool(ok), "bool"), nil
}

func (r *Registry) getMemberInfo(args []sui.CallArg) ([]sui.ReturnValue, error) {
	info, ok, err := r.member(args)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("MoveAbort(member_registry::get_member_info, 2)")
	}
	return []sui.ReturnValue{
		{Bytes: bcs.EncodeString(info.Domain), Type: "0x1::string::String"},
		{Bytes: bcs.EncodeU64(info.JoinedAt), Type: "u64"},
	}, nil
}

func (r *Registry) getFullInfo(args []sui.CallArg) ([]sui.ReturnValue, error) {
	if len(args) != 1 || args[0].Object == nil {
		return nil, fmt.Errorf("expected a CanaryBlob argument")
	}
	r.mu.Lock()
	info, ok := r.blobs[args[0].Object.ID]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("MoveAbort(pkg_storage::get_full_info, 3)")
	}
	return []sui.ReturnValue{
		{Bytes: info.ContractBlobID[:], Type: "address"},
		{Bytes: info.ExplainBlobID[:], Type: "address"},
		{Bytes: info.PackageID[:], Type: "address"},
		{Bytes: bcs.EncodeString(info.Domain), Type: "0x1::string::String"},
		{Bytes: bcs.EncodeU64(info.UploadedAt), Type: "u64"},
		{Bytes: info.UploadedByAdmin[:], Type: "address"},
	}, nil
}

func (r *Registry) deriveAddress(args []sui.CallArg) ([]sui.ReturnValue, error) {
	if err := r.checkRegistry(args, 3); err != nil {
		return nil, err
	}
	domain, err := bcs.NewDecoder(args[1].Pure).String()
	if err != nil {
		return nil, err
	}
	pkg, err := sui.DecodeAddress(args[2].Pure)
	if err != nil {
		return nil, err
	}
	adr := DeriveAddress(r.ID, domain, pkg)
	return value(adr[:], "address"), nil
}
