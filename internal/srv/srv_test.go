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
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jrpc "github.com/AdamSLevy/jsonrpc2/v14"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canary-registry/canaryd/api"
	"github.com/canary-registry/canaryd/canary"
	"github.com/canary-registry/canaryd/canary/canarytest"
	"github.com/canary-registry/canaryd/internal/engine"
	"github.com/canary-registry/canaryd/sui"
	"github.com/canary-registry/canaryd/sui/suitest"
)

var (
	pkg        = sui.MustParseAddress("0xca9a")
	registryID = sui.MustParseAddress("0x4e6")
	admin      = sui.MustParseAddress("0xad417")
	alice      = sui.MustParseAddress("0xa11ce")
	bob        = sui.MustParseAddress("0xb0b")
	blobID     = sui.MustParseAddress("0xb10b")
	missing    = sui.MustParseAddress("0x404")
	userPkg    = sui.MustParseAddress("0x9ac")
)

var blob = canary.CanaryBlobInfo{
	ID:              blobID,
	ContractBlobID:  sui.MustParseAddress("0xc0"),
	ExplainBlobID:   sui.MustParseAddress("0xe0"),
	PackageID:       userPkg,
	Domain:          "alice.com",
	UploadedAt:      1700000000000,
	UploadedByAdmin: admin,
}

type testEnv struct {
	*api.Client
	Fullnode *suitest.Fullnode
	Registry *canarytest.Registry
	Engine   *engine.Engine
	Server   *httptest.Server
}

func newTestEnv(t *testing.T) testEnv {
	f := suitest.NewFullnode()
	t.Cleanup(f.Close)
	r := canarytest.NewRegistry(f, pkg, registryID, admin, 1_000_000_000)
	r.AddMember(alice, canary.MemberInfo{Domain: "alice.com", JoinedAt: 1})
	r.PutBlob(blob)

	e := engine.New(f.Client(), registryID, []sui.Address{alice, bob},
		[]sui.ObjectID{blobID, missing}, time.Hour)
	ts := httptest.NewServer(Handler(f.Client(), e, registryID))
	t.Cleanup(ts.Close)

	c := api.NewClient()
	c.CanarydServer = ts.URL
	return testEnv{Client: c, Fullnode: f, Registry: r, Engine: e, Server: ts}
}

func assertErrorCode(t *testing.T, exp jrpc.Error, err error) {
	t.Helper()
	jErr, ok := err.(jrpc.Error)
	if assert.True(t, ok, "%T: %v", err, err) {
		assert.Equal(t, exp.Code, jErr.Code)
		assert.Equal(t, exp.Message, jErr.Message)
	}
}

func TestGetRegistry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	info, err := env.GetRegistry(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, canary.RegistryInfo{ID: registryID, Fee: 1_000_000_000,
		MemberCount: 1, Admin: admin}, info)

	_, err = env.GetRegistry(ctx, &missing)
	assert.Equal(t, ErrorRegistryNotFound, err)

	owned := sui.MustParseAddress("0xad")
	env.Fullnode.AddOwned(owned, env.Registry.Type(canary.MemberRegistry, "AdminCap"), admin, 1)
	_, err = env.GetRegistry(ctx, &owned)
	assertErrorCode(t, jrpc.ErrorInvalidParams(nil), err)

	_, err = env.GetRegistry(ctx, &blobID)
	assertErrorCode(t, ErrorQueryFailed, err)
}

func TestGetMember(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	info, err := env.GetMember(ctx, nil, alice)
	require.NoError(t, err)
	assert.Equal(t, canary.MemberInfo{Domain: "alice.com", JoinedAt: 1}.WithAddress(alice), info)

	_, err = env.GetMember(ctx, nil, bob)
	assert.Equal(t, ErrorMemberNotFound, err)

	_, err = env.GetMember(ctx, &missing, alice)
	assert.Equal(t, ErrorRegistryNotFound, err)
}

func TestGetCanaryBlob(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	info, err := env.GetCanaryBlob(ctx, blobID)
	require.NoError(t, err)
	assert.Equal(t, blob, info)

	_, err = env.GetCanaryBlob(ctx, missing)
	assert.Equal(t, ErrorBlobNotFound, err)

	// The object exists but is not a blob known to the contract.
	_, err = env.GetCanaryBlob(ctx, registryID)
	assertErrorCode(t, ErrorQueryFailed, err)
}

func TestDeriveCanaryAddress(t *testing.T) {
	env := newTestEnv(t)
	adr, err := env.DeriveCanaryAddress(context.Background(), nil, "alice.com", userPkg)
	require.NoError(t, err)
	assert.Equal(t, canarytest.DeriveAddress(registryID, "alice.com", userPkg), adr)
}

var paramsTests = []struct {
	Name   string
	Method string
	Params interface{}
	Error  jrpc.Error
}{{
	Name:   "get-member without member",
	Method: "get-member",
	Params: api.ParamsGetMember{},
	Error:  jrpc.ErrorInvalidParams(`required: "member"`),
}, {
	Name:   "get-canary-blob without blob",
	Method: "get-canary-blob",
	Error:  jrpc.ErrorInvalidParams(`required: "blob_id"`),
}, {
	Name:   "derive-canary-address without domain",
	Method: "derive-canary-address",
	Params: api.ParamsDeriveCanaryAddress{PackageID: &userPkg},
	Error:  jrpc.ErrorInvalidParams(`required: "domain"`),
}, {
	Name:   "derive-canary-address without package",
	Method: "derive-canary-address",
	Params: api.ParamsDeriveCanaryAddress{Domain: "alice.com"},
	Error:  jrpc.ErrorInvalidParams(`required: "package_id"`),
}, {
	Name:   "unknown field",
	Method: "get-registry",
	Params: map[string]string{"registry": "0x1"},
	Error:  jrpc.ErrorInvalidParams(`json: unknown field "registry"`),
}, {
	Name:   "params not accepted",
	Method: "get-status",
	Params: map[string]string{"registry_id": "0x1"},
	Error:  jrpc.ErrorInvalidParams(`no "params" accepted`),
}}

func TestParams(t *testing.T) {
	env := newTestEnv(t)
	for _, test := range paramsTests {
		test := test
		t.Run(test.Name, func(t *testing.T) {
			var res interface{}
			err := env.Request(context.Background(), test.Method, test.Params, &res)
			assert.Equal(t, test.Error, err)
			assert.Empty(t, env.Fullnode.Methods(), "invalid params make no ledger calls")
		})
	}
}

func TestGetStatus(t *testing.T) {
	assert := assert.New(t)
	env := newTestEnv(t)
	ctx := context.Background()

	status, err := env.GetStatus(ctx)
	require.NoError(t, err)
	assert.Zero(status.Polls)
	assert.Nil(status.Registry)
	assert.Empty(status.Members)

	require.NoError(t, env.Engine.Poll(ctx))
	status, err = env.GetStatus(ctx)
	require.NoError(t, err)
	assert.EqualValues(1, status.Polls)
	assert.NotNil(status.PolledAt)
	if assert.NotNil(status.Registry) {
		assert.Equal(registryID, status.Registry.ID)
	}
	assert.Equal([]canary.MemberInfoWithAddress{
		canary.MemberInfo{Domain: "alice.com", JoinedAt: 1}.WithAddress(alice),
	}, status.Members)
	assert.Equal([]sui.Address{bob}, status.NotMembers)
	assert.Equal([]canary.CanaryBlobInfo{blob}, status.Blobs)
	assert.Equal([]sui.ObjectID{missing}, status.MissingBlobs)
}

func TestGetDaemonProperties(t *testing.T) {
	env := newTestEnv(t)
	props, err := env.GetDaemonProperties(context.Background())
	require.NoError(t, err)
	assert.Equal(t, api.APIVersion, props.APIVersion)
	assert.Equal(t, registryID, props.RegistryID)
}

func TestHeadersAndMetrics(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.Engine.Poll(context.Background()))

	res, err := http.Post(env.Server.URL+"/v1", "application/json",
		strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"get-daemon-properties"}`))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, api.APIVersion, res.Header.Get("Canaryd-Api-Version"))

	res, err = http.Get(env.Server.URL + "/metrics")
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "canaryd_engine_polls_total 1")
	assert.Contains(t, string(body), fmt.Sprintf("canaryd_registry_fee_mist %v", 1e9))
}

func TestToError(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(ErrorBlobNotFound, toError(canary.ErrBlobNotFound, ErrorBlobNotFound))

	err := toError(fmt.Errorf("%w: connection refused", sui.ErrNetwork), ErrorBlobNotFound)
	assert.Equal(ErrorLedgerUnavailable.Code, err.Code)
	assert.Equal("network error: connection refused", err.Data)
}
