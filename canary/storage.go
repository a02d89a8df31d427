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

// StoreBlob records the contract and explain blobs of packageID for domain
// in a new CanaryBlob. s.Sender must own the AdminCap adminCapID.
func (s *Session) StoreBlob(ctx context.Context,
	registryID, adminCapID sui.ObjectID, domain string,
	contractBlobID, explainBlobID, packageID sui.ObjectID) (*sui.TransactionResponse, error) {
	pkg, registry, err := sharedObject(ctx, s.Client, registryID, true)
	if err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	adminCap, err := s.adminCap(ctx, adminCapID)
	if err != nil {
		return nil, err
	}
	b := s.NewTransactionBuilder()
	_, err = b.MoveCall(TargetStoreBlob.In(pkg),
		registry,
		adminCap,
		sui.PureString(domain),
		sui.PureAddress(contractBlobID),
		sui.PureAddress(explainBlobID),
		sui.PureAddress(packageID),
		sui.ClockArg())
	if err != nil {
		return nil, err
	}
	return s.Execute(ctx, b)
}

// UpdateBlob replaces the contract and explain blobs of the CanaryBlob
// blobID.
func (s *Session) UpdateBlob(ctx context.Context,
	registryID, adminCapID, blobID sui.ObjectID,
	newContractBlobID, newExplainBlobID sui.ObjectID) (*sui.TransactionResponse, error) {
	pkg, canaryBlob, err := blob(ctx, s.Client, blobID, true)
	if err != nil {
		return nil, err
	}
	_, registry, err := sharedObject(ctx, s.Client, registryID, false)
	if err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	adminCap, err := s.adminCap(ctx, adminCapID)
	if err != nil {
		return nil, err
	}
	b := s.NewTransactionBuilder()
	_, err = b.MoveCall(TargetUpdateBlob.In(pkg),
		registry,
		adminCap,
		canaryBlob,
		sui.PureAddress(newContractBlobID),
		sui.PureAddress(newExplainBlobID),
		sui.ClockArg())
	if err != nil {
		return nil, err
	}
	return s.Execute(ctx, b)
}

// DeleteCanaryBlob deletes the CanaryBlob blobID.
func (s *Session) DeleteCanaryBlob(ctx context.Context,
	registryID, adminCapID, blobID sui.ObjectID) (*sui.TransactionResponse, error) {
	pkg, canaryBlob, err := blob(ctx, s.Client, blobID, true)
	if err != nil {
		return nil, err
	}
	_, registry, err := sharedObject(ctx, s.Client, registryID, false)
	if err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	adminCap, err := s.adminCap(ctx, adminCapID)
	if err != nil {
		return nil, err
	}
	b := s.NewTransactionBuilder()
	_, err = b.MoveCall(TargetDeleteCanaryBlob.In(pkg), registry, adminCap, canaryBlob)
	if err != nil {
		return nil, err
	}
	return s.Execute(ctx, b)
}

// DeriveCanaryAddress asks the contract for the address at which the
// CanaryBlob of domain and packageID is stored.
func DeriveCanaryAddress(ctx context.Context, c *sui.Client,
	registryID sui.ObjectID, domain string, packageID sui.ObjectID) (sui.Address, error) {
	pkg, registry, err := sharedObject(ctx, c, registryID, false)
	if err != nil {
		return sui.Address{}, fmt.Errorf("registry: %w", err)
	}
	r, err := view(ctx, c, pkg, TargetDeriveAddress,
		registry, sui.PureString(domain), sui.PureAddress(packageID))
	if err != nil {
		return sui.Address{}, err
	}
	adr, err := r.Address(0)
	if err != nil {
		return sui.Address{}, fmt.Errorf("%v: %w", TargetDeriveAddress, err)
	}
	return adr, nil
}

// QueryCanaryBlob returns the content of the CanaryBlob blobID.
func QueryCanaryBlob(ctx context.Context, c *sui.Client,
	blobID sui.ObjectID) (CanaryBlobInfo, error) {
	pkg, canaryBlob, err := blob(ctx, c, blobID, false)
	if err != nil {
		return CanaryBlobInfo{}, err
	}
	r, err := view(ctx, c, pkg, TargetGetFullInfo, canaryBlob)
	if err != nil {
		return CanaryBlobInfo{}, err
	}
	info := CanaryBlobInfo{ID: blobID}
	for _, field := range []struct {
		name string
		i    int
		adr  *sui.Address
	}{
		{"contract_blob_id", 0, &info.ContractBlobID},
		{"explain_blob_id", 1, &info.ExplainBlobID},
		{"package_id", 2, &info.PackageID},
		{"uploaded_by_admin", 5, &info.UploadedByAdmin},
	} {
		if *field.adr, err = r.Address(field.i); err != nil {
			return CanaryBlobInfo{}, fmt.Errorf("%v: %v: %w",
				TargetGetFullInfo, field.name, err)
		}
	}
	if info.Domain, err = r.String(3); err != nil {
		return CanaryBlobInfo{}, fmt.Errorf("%v: domain: %w", TargetGetFullInfo, err)
	}
	if info.UploadedAt, err = r.U64(4); err != nil {
		return CanaryBlobInfo{}, fmt.Errorf("%v: uploaded_at: %w", TargetGetFullInfo, err)
	}
	return info, nil
}
