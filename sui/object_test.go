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

package sui_test

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canary-registry/canaryd/sui"
)

func TestGetObject(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	env := newTestEnv(t, false)
	ctx := context.Background()

	registry := sui.MustParseAddress("0x4e6")
	typ := testTarget.Package.String() + "::canary::Registry"
	env.AddShared(registry, typ, 12, 30)

	obj, err := env.Client.GetObject(ctx, registry)
	require.NoError(err)
	assert.Equal(registry, obj.Ref.ObjectID)
	assert.Equal(sui.BigInt(30), obj.Ref.Version)
	assert.Equal(typ, obj.Type)
	assert.Equal(sui.Shared, obj.Owner.Kind)
	pkg, err := obj.Package()
	require.NoError(err)
	assert.Equal(testTarget.Package, pkg)

	isv, err := env.Client.InitialSharedVersion(ctx, registry)
	require.NoError(err)
	assert.Equal(uint64(12), isv)

	arg, err := obj.Arg(true)
	require.NoError(err)
	assert.Equal(sui.SharedObject(registry, 12, true), arg)

	_, err = env.Client.GetObject(ctx, sui.MustParseAddress("0x404"))
	assert.ErrorIs(err, sui.ErrNotFound)
	_, err = env.Client.InitialSharedVersion(ctx, sui.MustParseAddress("0x404"))
	assert.ErrorIs(err, sui.ErrNotFound)

	blob := sui.MustParseAddress("0xb10b")
	env.AddOwned(blob, typ, env.Sender, 4)
	_, err = env.Client.InitialSharedVersion(ctx, blob)
	assert.ErrorIs(err, sui.ErrBuild)
	obj, err = env.Client.GetObject(ctx, blob)
	require.NoError(err)
	arg, err = obj.Arg(true)
	require.NoError(err)
	assert.Equal(sui.OwnedObject(obj.Ref), arg)

	obj.Owner = sui.Owner{Kind: sui.ObjectOwner, Address: registry}
	_, err = obj.Arg(false)
	assert.ErrorIs(err, sui.ErrBuild)
}

var packageFromTypeTests = []struct {
	Name  string
	Type  string
	Pkg   string
	Error bool
}{{
	Name: "coin",
	Type: "0x2::coin::Coin<0x2::sui::SUI>",
	Pkg:  "0x0000000000000000000000000000000000000000000000000000000000000002",
}, {
	Name: "full address",
	Type: "0x7573c697fa68450f04fa0dee2d39dcdc8a5ccf5db547f3e47638a6f8eeeec110::canary::Registry",
	Pkg:  "0x7573c697fa68450f04fa0dee2d39dcdc8a5ccf5db547f3e47638a6f8eeeec110",
}, {
	Name:  "no separator",
	Type:  "0x2",
	Error: true,
}, {
	Name:  "bad address",
	Type:  "0xzz::canary::Registry",
	Error: true,
}, {
	Name:  "empty",
	Error: true,
}}

func TestPackageFromType(t *testing.T) {
	for _, test := range packageFromTypeTests {
		test := test
		t.Run(test.Name, func(t *testing.T) {
			pkg, err := sui.PackageFromType(test.Type)
			if test.Error {
				assert.ErrorIs(t, err, sui.ErrMalformedType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.Pkg, pkg.String())
		})
	}
}

var ownerJSONTests = []struct {
	Name  string
	JSON  string
	Owner sui.Owner
}{{
	Name:  "address",
	JSON:  `{"AddressOwner":"0x0000000000000000000000000000000000000000000000000000000000000001"}`,
	Owner: sui.Owner{Kind: sui.AddressOwner, Address: sui.MustParseAddress("0x1")},
}, {
	Name:  "object",
	JSON:  `{"ObjectOwner":"0x0000000000000000000000000000000000000000000000000000000000000002"}`,
	Owner: sui.Owner{Kind: sui.ObjectOwner, Address: sui.MustParseAddress("0x2")},
}, {
	Name:  "shared",
	JSON:  `{"Shared":{"initial_shared_version":8}}`,
	Owner: sui.Owner{Kind: sui.Shared, InitialSharedVersion: 8},
}, {
	Name:  "immutable",
	JSON:  `"Immutable"`,
	Owner: sui.Owner{Kind: sui.Immutable},
}}

func TestOwnerJSON(t *testing.T) {
	for _, test := range ownerJSONTests {
		test := test
		t.Run(test.Name, func(t *testing.T) {
			var o sui.Owner
			require.NoError(t, json.Unmarshal([]byte(test.JSON), &o))
			assert.Equal(t, test.Owner, o)
			data, err := json.Marshal(o)
			require.NoError(t, err)
			assert.JSONEq(t, test.JSON, string(data))
		})
	}
	var o sui.Owner
	assert.Error(t, json.Unmarshal([]byte(`"Mutable"`), &o))
	assert.Error(t, json.Unmarshal([]byte(`{}`), &o))
}

func TestRequestQuiet(t *testing.T) {
	env := newTestEnv(t, false)
	r, w, err := os.Pipe()
	require.NoError(t, err)
	stdout := os.Stdout
	os.Stdout = w
	_, err = env.Client.GetReferenceGasPrice(context.Background())
	os.Stdout = stdout
	require.NoError(t, w.Close())
	require.NoError(t, err)
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Empty(t, out, "package sui writes nothing to stdout")
}
