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

// Package canary calls the Canary Move contract, which keeps a paid member
// registry and stores one CanaryBlob per member domain and package.
//
// Mutating operations are methods of a Session, which can sign for its
// Sender. Queries are dev-inspect simulations and only need a sui.Client.
package canary

import (
	"fmt"

	"github.com/canary-registry/canaryd/sui"
)

// Module is a module of the Canary package.
type Module string

const (
	MemberRegistry Module = "member_registry"
	PkgStorage     Module = "pkg_storage"
)

// Target is a function of the Canary contract. Only the Targets declared in
// this package exist.
type Target struct {
	Module   Module
	Function string
	// View functions do not mutate state and are only called through
	// dev-inspect.
	View bool
	// Returns is the number of values returned by a View.
	Returns int
}

var (
	TargetJoinRegistry   = Target{Module: MemberRegistry, Function: "join_registry"}
	TargetGetAdmin       = Target{Module: MemberRegistry, Function: "get_admin", View: true, Returns: 1}
	TargetGetFee         = Target{Module: MemberRegistry, Function: "get_fee", View: true, Returns: 1}
	TargetGetMemberCount = Target{Module: MemberRegistry, Function: "get_member_count", View: true, Returns: 1}
	TargetIsMember       = Target{Module: MemberRegistry, Function: "is_member", View: true, Returns: 1}
	TargetGetMemberInfo  = Target{Module: MemberRegistry, Function: "get_member_info", View: true, Returns: 2}

	TargetStoreBlob        = Target{Module: PkgStorage, Function: "store_blob"}
	TargetUpdateBlob       = Target{Module: PkgStorage, Function: "update_blob"}
	TargetDeleteCanaryBlob = Target{Module: PkgStorage, Function: "delete_canary_blob"}
	TargetDeriveAddress    = Target{Module: PkgStorage, Function: "derive_canary_address", View: true, Returns: 1}
	TargetGetFullInfo      = Target{Module: PkgStorage, Function: "get_full_info", View: true, Returns: 6}
)

// Targets lists every Target.
var Targets = []Target{
	TargetJoinRegistry,
	TargetGetAdmin,
	TargetGetFee,
	TargetGetMemberCount,
	TargetIsMember,
	TargetGetMemberInfo,
	TargetStoreBlob,
	TargetUpdateBlob,
	TargetDeleteCanaryBlob,
	TargetDeriveAddress,
	TargetGetFullInfo,
}

func (t Target) String() string {
	return fmt.Sprintf("%v::%v", t.Module, t.Function)
}

// In returns the MoveTarget of t in the Canary package pkg.
func (t Target) In(pkg sui.Address) sui.MoveTarget {
	return sui.MoveTarget{Package: pkg, Module: string(t.Module), Function: t.Function}
}
