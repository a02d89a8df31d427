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

package srv

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"

	jrpc "github.com/AdamSLevy/jsonrpc2/v14"

	"github.com/canary-registry/canaryd/api"
	"github.com/canary-registry/canaryd/canary"
	"github.com/canary-registry/canaryd/internal/engine"
	"github.com/canary-registry/canaryd/internal/flag"
	"github.com/canary-registry/canaryd/sui"
)

type methods struct {
	c          *sui.Client
	e          *engine.Engine
	registryID sui.ObjectID
}

func (m methods) methodMap() jrpc.MethodMap {
	return jrpc.MethodMap{
		"get-registry":          m.getRegistry,
		"get-member":            m.getMember,
		"get-canary-blob":       m.getCanaryBlob,
		"derive-canary-address": m.deriveCanaryAddress,

		"get-status":            m.getStatus,
		"get-daemon-properties": m.getDaemonProperties,
	}
}

func (m methods) registry(p api.ParamsRegistry) sui.ObjectID {
	if p.RegistryID != nil {
		return *p.RegistryID
	}
	return m.registryID
}

func (m methods) getRegistry(ctx context.Context, data json.RawMessage) interface{} {
	var params api.ParamsRegistry
	if err := validate(data, &params); err != nil {
		return err
	}
	info, err := canary.QueryRegistry(ctx, m.c, m.registry(params))
	if err != nil {
		return toError(err, ErrorRegistryNotFound)
	}
	return info
}

func (m methods) getMember(ctx context.Context, data json.RawMessage) interface{} {
	var params api.ParamsGetMember
	if err := validate(data, &params); err != nil {
		return err
	}
	info, err := canary.QueryMember(ctx, m.c, m.registry(params.ParamsRegistry),
		*params.Member)
	if err != nil {
		return toError(err, ErrorRegistryNotFound)
	}
	if info == nil {
		return ErrorMemberNotFound
	}
	return info.WithAddress(*params.Member)
}

func (m methods) getCanaryBlob(ctx context.Context, data json.RawMessage) interface{} {
	var params api.ParamsGetCanaryBlob
	if err := validate(data, &params); err != nil {
		return err
	}
	info, err := canary.QueryCanaryBlob(ctx, m.c, *params.BlobID)
	if err != nil {
		return toError(err, ErrorBlobNotFound)
	}
	return info
}

func (m methods) deriveCanaryAddress(ctx context.Context, data json.RawMessage) interface{} {
	var params api.ParamsDeriveCanaryAddress
	if err := validate(data, &params); err != nil {
		return err
	}
	adr, err := canary.DeriveCanaryAddress(ctx, m.c, m.registry(params.ParamsRegistry),
		params.Domain, *params.PackageID)
	if err != nil {
		return toError(err, ErrorRegistryNotFound)
	}
	return api.ResultDeriveCanaryAddress{Address: adr}
}

func (m methods) getStatus(_ context.Context, data json.RawMessage) interface{} {
	if err := validate(data, nil); err != nil {
		return err
	}
	state := m.e.State()
	res := api.ResultGetStatus{
		Polls:        state.Polls,
		Members:      []canary.MemberInfoWithAddress{},
		NotMembers:   []sui.Address{},
		Blobs:        []canary.CanaryBlobInfo{},
		MissingBlobs: []sui.ObjectID{},
	}
	if state.Polls == 0 {
		return res
	}
	res.PolledAt = &state.PolledAt
	res.Registry = &state.Registry
	for _, adr := range sortedKeys(state.Members) {
		if info := state.Members[adr]; info != nil {
			res.Members = append(res.Members, info.WithAddress(adr))
		} else {
			res.NotMembers = append(res.NotMembers, adr)
		}
	}
	for _, id := range sortedKeys(state.Blobs) {
		if info := state.Blobs[id]; info != nil {
			res.Blobs = append(res.Blobs, *info)
		} else {
			res.MissingBlobs = append(res.MissingBlobs, id)
		}
	}
	return res
}

func (m methods) getDaemonProperties(_ context.Context, data json.RawMessage) interface{} {
	if err := validate(data, nil); err != nil {
		return err
	}
	return api.ResultGetDaemonProperties{
		CanarydVersion: flag.Revision,
		APIVersion:     api.APIVersion,
		Network:        flag.Network,
		RegistryID:     m.registryID,
	}
}

func validate(data json.RawMessage, params api.Params) error {
	if params == nil {
		if len(data) > 0 && !bytes.Equal(data, []byte("null")) {
			return jrpc.ErrorInvalidParams(`no "params" accepted`)
		}
		return nil
	}
	if len(data) == 0 {
		return params.IsValid()
	}
	if err := unmarshalStrict(data, params); err != nil {
		return jrpc.ErrorInvalidParams(err.Error())
	}
	return params.IsValid()
}

func unmarshalStrict(data []byte, v interface{}) error {
	b := bytes.NewBuffer(data)
	d := json.NewDecoder(b)
	d.DisallowUnknownFields()
	return d.Decode(v)
}

func sortedKeys[V any](m map[sui.Address]V) []sui.Address {
	keys := make([]sui.Address, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}
