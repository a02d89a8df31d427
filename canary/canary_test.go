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

package canary_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canary-registry/canaryd/canary"
	"github.com/canary-registry/canaryd/canary/canarytest"
	"github.com/canary-registry/canaryd/sui"
	"github.com/canary-registry/canaryd/sui/bcs"
	"github.com/canary-registry/canaryd/sui/suitest"
)

var (
	pkg        = sui.MustParseAddress("0xca9a")
	registryID = sui.MustParseAddress("0x4e6")
	adminCapID = sui.MustParseAddress("0xad")
	blobID     = sui.MustParseAddress("0xb10b")
	admin      = sui.MustParseAddress("0xad417")
	contract   = sui.MustParseAddress("0xc0")
	explain    = sui.MustParseAddress("0xe0")
	userPkg    = sui.MustParseAddress("0x9ac")
)

const (
	registryISV = 5
	blobISV     = 9
	testKey     = "suiprivkey1qqqsyqcyq5rqwzqfpg9scrgwpugpzysnzs23v9ccrydpk8qarc0jqa4ffsr"
)

func typeOf(module, name string) string {
	return pkg.String() + "::" + module + "::" + name
}

func newTestSession(t *testing.T) (*suitest.Fullnode, *canary.Session) {
	key, err := sui.ParsePrivateKey(testKey)
	require.NoError(t, err)
	f := suitest.NewFullnode()
	t.Cleanup(f.Close)
	s, err := canary.NewSession(f.Client(), sui.NewKeystore(key), key.Address())
	require.NoError(t, err)

	f.AddCoin(s.Sender, sui.MustParseAddress("0xc01"), 10_000_000_000)
	f.AddShared(registryID, typeOf("member_registry", "Registry"), registryISV, 40)
	f.AddOwned(adminCapID, typeOf("member_registry", "AdminCap"), s.Sender, 3)
	f.AddShared(blobID, typeOf("pkg_storage", "CanaryBlob"), blobISV, 12)
	return f, s
}

func lastCall(t *testing.T, f *suitest.Fullnode) (sui.ProgrammableTransaction, sui.MoveCall, []sui.CallArg) {
	require.NotEmpty(t, f.Executed)
	pt := f.Executed[len(f.Executed)-1].Kind
	call, args, err := suitest.LastMoveCall(pt)
	require.NoError(t, err)
	return pt, call, args
}

func TestNewSession(t *testing.T) {
	_, err := canary.NewSession(sui.NewClient(sui.Localnet), sui.NewKeystore(),
		sui.MustParseAddress("0x1"))
	assert.ErrorIs(t, err, sui.ErrKeyNotFound)

	key, err := sui.ParsePrivateKey(testKey)
	require.NoError(t, err)
	s := canary.NewSessionWithKey(sui.Testnet, key)
	assert.Equal(t, key.Address(), s.Sender)
	assert.True(t, s.Keystore.Has(s.Sender))
	assert.Equal(t, sui.Testnet.URL(), s.Client.URL)
}

func TestTargets(t *testing.T) {
	seen := make(map[string]bool)
	for _, target := range canary.Targets {
		assert.False(t, seen[target.String()], target.String())
		seen[target.String()] = true
		assert.Equal(t, target.View, target.Returns > 0, target.String())
		assert.NoError(t, target.In(pkg).Validate())
	}
	assert.Equal(t, "pkg_storage::get_full_info", canary.TargetGetFullInfo.String())
	assert.Equal(t, 6, canary.TargetGetFullInfo.Returns)
}

func TestJoinRegistry(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	f, s := newTestSession(t)

	_, err := s.JoinRegistry(context.Background(), registryID, "example.com", 1_000_000_000)
	require.NoError(err)

	pt, call, args := lastCall(t, f)
	assert.Equal(pkg, call.Package)
	assert.Equal("member_registry", call.Module)
	assert.Equal("join_registry", call.Function)
	require.Len(pt.Commands, 2)
	assert.Equal(sui.SplitCoins{
		Coin:    sui.GasCoin(),
		Amounts: []sui.Argument{{Kind: sui.InputArgument, Index: 0}},
	}, pt.Commands[0])
	assert.Equal(sui.PureU64(1_000_000_000), pt.Inputs[0])
	assert.Equal(sui.Argument{Kind: sui.ResultArgument, Index: 0}, call.Arguments[1])

	require.Len(args, 4)
	assert.Equal(sui.SharedObject(registryID, registryISV, true), args[0])
	assert.Equal(sui.PureString("example.com"), args[2])
	assert.Equal(sui.ClockArg(), args[3])
}

func TestJoinFreeRegistry(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	f, s := newTestSession(t)
	ctx := context.Background()
	freeID := sui.MustParseAddress("0xf4ee")
	canarytest.NewRegistry(f, pkg, freeID, admin, 0)

	info, err := canary.QueryRegistry(ctx, s.Client, freeID)
	require.NoError(err)
	require.Zero(info.Fee)

	_, err = s.JoinRegistry(ctx, freeID, "free.example.com", info.Fee)
	require.NoError(err)

	pt, call, args := lastCall(t, f)
	assert.Equal("join_registry", call.Function)
	assert.Equal(sui.PureU64(0), pt.Inputs[0])
	assert.Equal(sui.Argument{Kind: sui.ResultArgument, Index: 0}, call.Arguments[1])
	require.Len(args, 4)
	assert.Equal(sui.SharedObject(freeID, registryISV, true), args[0])
}

func TestJoinRegistryErrors(t *testing.T) {
	f, s := newTestSession(t)
	ctx := context.Background()

	_, err := s.JoinRegistry(ctx, sui.MustParseAddress("0x404"), "example.com", 1)
	assert.ErrorIs(t, err, sui.ErrNotFound)

	_, err = s.JoinRegistry(ctx, adminCapID, "example.com", 1)
	assert.ErrorIs(t, err, canary.ErrNotShared)
	assert.ErrorIs(t, err, sui.ErrBuild)

	f.ExecuteAbort = "MoveAbort(member_registry::join_registry, 1)"
	_, err = s.JoinRegistry(ctx, registryID, "example.com", 1)
	var execErr *sui.ExecutionError
	assert.ErrorAs(t, err, &execErr)
}

func handleRegistryViews(t *testing.T, f *suitest.Fullnode, members map[sui.Address]canary.MemberInfo) {
	registryArg := sui.SharedObject(registryID, registryISV, false)
	single := func(v []byte, typ string) suitest.ViewFunc {
		return func(args []sui.CallArg) ([]sui.ReturnValue, error) {
			assert.Equal(t, []sui.CallArg{registryArg}, args)
			return []sui.ReturnValue{{Bytes: v, Type: typ}}, nil
		}
	}
	f.HandleView("member_registry", "get_admin", single(admin[:], "address"))
	f.HandleView("member_registry", "get_fee", single(bcs.EncodeU64(1_000_000_000), "u64"))
	f.HandleView("member_registry", "get_member_count",
		single(bcs.EncodeU64(uint64(len(members))), "u64"))

	member := func(args []sui.CallArg) (canary.MemberInfo, bool) {
		if !assert.Len(t, args, 2) {
			return canary.MemberInfo{}, false
		}
		assert.Equal(t, registryArg, args[0])
		adr, err := sui.DecodeAddress(args[1].Pure)
		assert.NoError(t, err)
		info, ok := members[adr]
		return info, ok
	}
	f.HandleView("member_registry", "is_member", func(args []sui.CallArg) ([]sui.ReturnValue, error) {
		_, ok := member(args)
		return []sui.ReturnValue{{Bytes: bcs.EncodeBool(ok), Type: "bool"}}, nil
	})
	f.HandleView("member_registry", "get_member_info", func(args []sui.CallArg) ([]sui.ReturnValue, error) {
		info, ok := member(args)
		if !ok {
			return nil, fmt.Errorf("MoveAbort(member_registry::get_member_info, 2)")
		}
		return []sui.ReturnValue{
			{Bytes: bcs.EncodeString(info.Domain), Type: "0x1::string::String"},
			{Bytes: bcs.EncodeU64(info.JoinedAt), Type: "u64"},
		}, nil
	})
}

func TestQueryRegistry(t *testing.T) {
	f, s := newTestSession(t)
	handleRegistryViews(t, f, map[sui.Address]canary.MemberInfo{
		s.Sender: {Domain: "example.com", JoinedAt: 1700000000000},
		admin:    {Domain: "canary.io", JoinedAt: 1600000000000},
	})

	info, err := canary.QueryRegistry(context.Background(), s.Client, registryID)
	require.NoError(t, err)
	assert.Equal(t, canary.RegistryInfo{
		ID:          registryID,
		Fee:         1_000_000_000,
		MemberCount: 2,
		Admin:       admin,
	}, info)
	assert.Empty(t, f.Executed)
}

func TestQueryMember(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	f, s := newTestSession(t)
	handleRegistryViews(t, f, map[sui.Address]canary.MemberInfo{
		s.Sender: {Domain: "example.com", JoinedAt: 1700000000000},
	})
	ctx := context.Background()

	info, err := canary.QueryMember(ctx, s.Client, registryID, s.Sender)
	require.NoError(err)
	require.NotNil(info)
	assert.Equal(canary.MemberInfo{Domain: "example.com", JoinedAt: 1700000000000}, *info)
	assert.Len(f.Inspected, 2)

	info, err = canary.QueryMember(ctx, s.Client, registryID, admin)
	require.NoError(err)
	assert.Nil(info)
	assert.Len(f.Inspected, 3, "get_member_info must not be called for non-members")

	withAdr := canary.MemberInfo{Domain: "example.com"}.WithAddress(s.Sender)
	assert.Equal(s.Sender, withAdr.Member)
	assert.Equal("example.com", withAdr.Domain)
}

func TestQueryMemberRegistryNotFound(t *testing.T) {
	_, s := newTestSession(t)
	info, err := canary.QueryMember(context.Background(), s.Client,
		sui.MustParseAddress("0x404"), s.Sender)
	assert.ErrorIs(t, err, sui.ErrNotFound)
	assert.Nil(t, info)
}

func fullInfo(n int) suitest.ViewFunc {
	return func(args []sui.CallArg) ([]sui.ReturnValue, error) {
		values := []sui.ReturnValue{
			{Bytes: contract[:], Type: "address"},
			{Bytes: explain[:], Type: "address"},
			{Bytes: userPkg[:], Type: "address"},
			{Bytes: bcs.EncodeString("example.com"), Type: "0x1::string::String"},
			{Bytes: bcs.EncodeU64(1700000000000), Type: "u64"},
			{Bytes: admin[:], Type: "address"},
		}
		return values[:n], nil
	}
}

func TestQueryCanaryBlob(t *testing.T) {
	assert := assert.New(t)
	f, s := newTestSession(t)
	ctx := context.Background()
	f.HandleView("pkg_storage", "get_full_info", fullInfo(6))

	info, err := canary.QueryCanaryBlob(ctx, s.Client, blobID)
	require.NoError(t, err)
	assert.Equal(canary.CanaryBlobInfo{
		ID:              blobID,
		ContractBlobID:  contract,
		ExplainBlobID:   explain,
		PackageID:       userPkg,
		Domain:          "example.com",
		UploadedAt:      1700000000000,
		UploadedByAdmin: admin,
	}, info)
	_, args, err := suitest.LastMoveCall(f.Inspected[0])
	require.NoError(t, err)
	assert.Equal([]sui.CallArg{sui.SharedObject(blobID, blobISV, false)}, args)

	f.HandleView("pkg_storage", "get_full_info", fullInfo(5))
	info, err = canary.QueryCanaryBlob(ctx, s.Client, blobID)
	assert.ErrorIs(err, sui.ErrDecode)
	assert.Equal(canary.CanaryBlobInfo{}, info)

	_, err = canary.QueryCanaryBlob(ctx, s.Client, sui.MustParseAddress("0x404"))
	assert.ErrorIs(err, canary.ErrBlobNotFound)
	assert.ErrorIs(err, sui.ErrNotFound)
}

func TestDeriveCanaryAddress(t *testing.T) {
	f, s := newTestSession(t)
	derived := sui.MustParseAddress("0xde41")
	f.HandleView("pkg_storage", "derive_canary_address", func(args []sui.CallArg) ([]sui.ReturnValue, error) {
		assert.Equal(t, []sui.CallArg{
			sui.SharedObject(registryID, registryISV, false),
			sui.PureString("example.com"),
			sui.PureAddress(userPkg),
		}, args)
		return []sui.ReturnValue{{Bytes: derived[:], Type: "address"}}, nil
	})
	adr, err := canary.DeriveCanaryAddress(context.Background(), s.Client,
		registryID, "example.com", userPkg)
	require.NoError(t, err)
	assert.Equal(t, derived, adr)
}

func TestStoreBlob(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	f, s := newTestSession(t)
	ctx := context.Background()

	_, err := s.StoreBlob(ctx, registryID, adminCapID, "example.com", contract, explain, userPkg)
	require.NoError(err)
	_, call, args := lastCall(t, f)
	assert.Equal("pkg_storage", call.Module)
	assert.Equal("store_blob", call.Function)
	assert.Equal([]sui.CallArg{
		sui.SharedObject(registryID, registryISV, true),
		sui.OwnedObject(suitest.Ref(adminCapID, 3)),
		sui.PureString("example.com"),
		sui.PureAddress(contract),
		sui.PureAddress(explain),
		sui.PureAddress(userPkg),
		sui.ClockArg(),
	}, args)

	f.AddOwned(adminCapID, typeOf("member_registry", "AdminCap"), admin, 4)
	_, err = s.StoreBlob(ctx, registryID, adminCapID, "example.com", contract, explain, userPkg)
	assert.ErrorIs(err, canary.ErrNotAdmin)
	assert.ErrorIs(err, sui.ErrBuild)
	assert.Len(f.Executed, 1)
}

func TestUpdateBlob(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	f, s := newTestSession(t)
	ctx := context.Background()
	newContract := sui.MustParseAddress("0xc1")
	newExplain := sui.MustParseAddress("0xe1")

	_, err := s.UpdateBlob(ctx, registryID, adminCapID, blobID, newContract, newExplain)
	require.NoError(err)
	_, call, args := lastCall(t, f)
	assert.Equal("update_blob", call.Function)
	assert.Equal([]sui.CallArg{
		sui.SharedObject(registryID, registryISV, false),
		sui.OwnedObject(suitest.Ref(adminCapID, 3)),
		sui.SharedObject(blobID, blobISV, true),
		sui.PureAddress(newContract),
		sui.PureAddress(newExplain),
		sui.ClockArg(),
	}, args)

	_, err = s.UpdateBlob(ctx, registryID, adminCapID, sui.MustParseAddress("0x404"),
		newContract, newExplain)
	assert.ErrorIs(err, canary.ErrBlobNotFound)
}

func TestDeleteCanaryBlob(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	f, s := newTestSession(t)
	ctx := context.Background()

	_, err := s.DeleteCanaryBlob(ctx, registryID, adminCapID, blobID)
	require.NoError(err)
	_, call, args := lastCall(t, f)
	assert.Equal("delete_canary_blob", call.Function)
	assert.Equal([]sui.CallArg{
		sui.SharedObject(registryID, registryISV, false),
		sui.OwnedObject(suitest.Ref(adminCapID, 3)),
		sui.SharedObject(blobID, blobISV, true),
	}, args)

	// An account owned blob is passed by reference.
	owned := f.AddOwned(blobID, typeOf("pkg_storage", "CanaryBlob"), s.Sender, 13)
	_, err = s.DeleteCanaryBlob(ctx, registryID, adminCapID, blobID)
	require.NoError(err)
	_, _, args = lastCall(t, f)
	assert.Equal(sui.OwnedObject(owned.Ref), args[2])
}

func TestTransfer(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	f, s := newTestSession(t)
	ctx := context.Background()

	_, err := s.TransferObject(ctx, adminCapID, admin)
	require.NoError(err)
	pt := f.Executed[0].Kind
	assert.Equal([]sui.CallArg{
		sui.OwnedObject(suitest.Ref(adminCapID, 3)),
		sui.PureAddress(admin),
	}, pt.Inputs)

	_, err = s.TransferObject(ctx, registryID, admin)
	assert.ErrorIs(err, sui.ErrBuild)

	_, err = s.TransferSui(ctx, admin, 5)
	require.NoError(err)
	assert.Len(f.Executed, 2)
	assert.Len(f.Executed[1].Kind.Commands, 2)
}

func TestSessionGasPinning(t *testing.T) {
	assert := assert.New(t)
	f, s := newTestSession(t)
	pinned := sui.MustParseAddress("0xc02")
	f.AddCoin(s.Sender, pinned, 5_000_000)
	s.GasPrice = 750
	s.GasBudget = 4_000_000
	s.GasObject = pinned

	_, err := s.TransferSui(context.Background(), admin, 5)
	require.NoError(t, err)
	require.Len(t, f.Executed, 1)
	gas := f.Executed[0].Gas
	assert.Equal([]sui.ObjectRef{suitest.Ref(pinned, 1)}, gas.Payment)
	assert.EqualValues(750, gas.Price)
	assert.EqualValues(4_000_000, gas.Budget)
	assert.NotContains(f.Methods(), "sui_dryRunTransactionBlock")
	assert.NotContains(f.Methods(), "suix_getCoins")
}
