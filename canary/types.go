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

import "github.com/canary-registry/canaryd/sui"

// RegistryInfo is the public state of a Registry. Fee is in MIST.
type RegistryInfo struct {
	ID          sui.ObjectID `json:"id"`
	Fee         uint64       `json:"fee"`
	MemberCount uint64       `json:"member_count"`
	Admin       sui.Address  `json:"admin"`
}

// MemberInfo is a registered member. JoinedAt is a Unix timestamp in
// milliseconds.
type MemberInfo struct {
	Domain   string `json:"domain"`
	JoinedAt uint64 `json:"joined_at"`
}

type MemberInfoWithAddress struct {
	Member sui.Address `json:"member"`
	MemberInfo
}

func (m MemberInfo) WithAddress(member sui.Address) MemberInfoWithAddress {
	return MemberInfoWithAddress{Member: member, MemberInfo: m}
}

// CanaryBlobInfo is the content of a CanaryBlob. UploadedAt is a Unix
// timestamp in milliseconds.
type CanaryBlobInfo struct {
	ID              sui.ObjectID `json:"id"`
	ContractBlobID  sui.ObjectID `json:"contract_blob_id"`
	ExplainBlobID   sui.ObjectID `json:"explain_blob_id"`
	PackageID       sui.ObjectID `json:"package_id"`
	Domain          string       `json:"domain"`
	UploadedAt      uint64       `json:"uploaded_at"`
	UploadedByAdmin sui.Address  `json:"uploaded_by_admin"`
}
