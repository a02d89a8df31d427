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

package api

import (
	jrpc "github.com/AdamSLevy/jsonrpc2/v14"

	"github.com/canary-registry/canaryd/sui"
)

// Params are validated by the server after they are unmarshaled.
type Params interface {
	IsValid() error
}

// ParamsRegistry scopes a request to a registry. The daemon's configured
// registry is used when RegistryID is omitted.
type ParamsRegistry struct {
	RegistryID *sui.ObjectID `json:"registry_id,omitempty"`
}

func (p ParamsRegistry) IsValid() error { return nil }

type ParamsGetMember struct {
	ParamsRegistry
	Member *sui.Address `json:"member"`
}

func (p ParamsGetMember) IsValid() error {
	if p.Member == nil {
		return jrpc.ErrorInvalidParams(`required: "member"`)
	}
	return nil
}

type ParamsGetCanaryBlob struct {
	BlobID *sui.ObjectID `json:"blob_id"`
}

func (p ParamsGetCanaryBlob) IsValid() error {
	if p.BlobID == nil {
		return jrpc.ErrorInvalidParams(`required: "blob_id"`)
	}
	return nil
}

type ParamsDeriveCanaryAddress struct {
	ParamsRegistry
	Domain    string        `json:"domain"`
	PackageID *sui.ObjectID `json:"package_id"`
}

func (p ParamsDeriveCanaryAddress) IsValid() error {
	if len(p.Domain) == 0 {
		return jrpc.ErrorInvalidParams(`required: "domain"`)
	}
	if p.PackageID == nil {
		return jrpc.ErrorInvalidParams(`required: "package_id"`)
	}
	return nil
}
