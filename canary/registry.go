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

package canary

import (
	"context"
	"fmt"

	"github.com/canary-registry/canaryd/sui"
)

// JoinRegistry registers s.Sender under domain in the Registry registryID.
// The payment in MIST is split off the gas coin and must cover the fee.
func (s *Session) JoinRegistry(ctx context.Context, registryID sui.ObjectID,
	domain string, payment uint64) (*sui.TransactionResponse, error) {
	pkg, registry, err := sharedObject(ctx, s.Client, registryID, true)
	if err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	b := s.NewTransactionBuilder()
	coin, err := b.SplitGas(payment)
	if err != nil {
		return nil, err
	}
	_, err = b.MoveCall(TargetJoinRegistry.In(pkg),
		registry, coin, sui.PureString(domain), sui.ClockArg())
	if err != nil {
		return nil, err
	}
	return s.Execute(ctx, b)
}

// QueryRegistry returns the admin, fee and member count of the Registry
// registryID.
func QueryRegistry(ctx context.Context, c *sui.Client,
	registryID sui.ObjectID) (RegistryInfo, error) {
	pkg, registry, err := sharedObject(ctx, c, registryID, false)
	if err != nil {
		return RegistryInfo{}, fmt.Errorf("registry: %w", err)
	}
	info := RegistryInfo{ID: registryID}

	r, err := view(ctx, c, pkg, TargetGetAdmin, registry)
	if err != nil {
		return RegistryInfo{}, err
	}
	if info.Admin, err = r.Address(0); err != nil {
		return RegistryInfo{}, fmt.Errorf("%v: %w", TargetGetAdmin, err)
	}

	if r, err = view(ctx, c, pkg, TargetGetFee, registry); err != nil {
		return RegistryInfo{}, err
	}
	if info.Fee, err = r.U64(0); err != nil {
		return RegistryInfo{}, fmt.Errorf("%v: %w", TargetGetFee, err)
	}

	if r, err = view(ctx, c, pkg, TargetGetMemberCount, registry); err != nil {
		return RegistryInfo{}, err
	}
	if info.MemberCount, err = r.U64(0); err != nil {
		return RegistryInfo{}, fmt.Errorf("%v: %w", TargetGetMemberCount, err)
	}
	return info, nil
}

// QueryMember returns the MemberInfo of member in the Registry registryID,
// or nil if member has not joined.
func QueryMember(ctx context.Context, c *sui.Client,
	registryID sui.ObjectID, member sui.Address) (*MemberInfo, error) {
	pkg, registry, err := sharedObject(ctx, c, registryID, false)
	if err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	adr := sui.PureAddress(member)

	r, err := view(ctx, c, pkg, TargetIsMember, registry, adr)
	if err != nil {
		return nil, err
	}
	isMember, err := r.Bool(0)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", TargetIsMember, err)
	}
	if !isMember {
		return nil, nil
	}

	if r, err = view(ctx, c, pkg, TargetGetMemberInfo, registry, adr); err != nil {
		return nil, err
	}
	var info MemberInfo
	if info.Domain, err = r.String(0); err != nil {
		return nil, fmt.Errorf("%v: domain: %w", TargetGetMemberInfo, err)
	}
	if info.JoinedAt, err = r.U64(1); err != nil {
		return nil, fmt.Errorf("%v: joined_at: %w", TargetGetMemberInfo, err)
	}
	return &info, nil
}
