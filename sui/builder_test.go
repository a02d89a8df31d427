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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canary-registry/canaryd/sui"
	"github.com/canary-registry/canaryd/sui/suitest"
)

var testTarget = sui.MoveTarget{
	Package:  sui.MustParseAddress("0xc0ffee"),
	Module:   "canary",
	Function: "ping",
}

type testEnv struct {
	*suitest.Fullnode
	Client *sui.Client
	Key    sui.PrivateKey
	Sender sui.Address
	Coin   sui.Coin
}

func newTestEnv(t *testing.T, fund bool) testEnv {
	k, err := sui.ParsePrivateKey(keyTests[1].Key)
	require.NoError(t, err)
	f := suitest.NewFullnode()
	t.Cleanup(f.Close)
	env := testEnv{Fullnode: f, Client: f.Client(), Key: k, Sender: k.Address()}
	if fund {
		env.Coin = f.AddCoin(env.Sender, sui.MustParseAddress("0xc01"), 1_000_000_000)
	}
	return env
}

func TestBuildEmpty(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	env := newTestEnv(t, true)

	b := sui.NewTransactionBuilder(env.Client, env.Sender)
	tx, err := b.Build(context.Background())
	require.NoError(err)
	assert.Empty(tx.Kind.Commands)
	assert.Empty(tx.Kind.Inputs)
	assert.Equal(env.Sender, tx.Sender)
	assert.Equal(env.Sender, tx.Gas.Owner)
	assert.Equal([]sui.ObjectRef{env.Coin.Ref()}, tx.Gas.Payment)
	assert.Equal(uint64(1000), tx.Gas.Price)
	// 1M computation + 2M storage - 0.5M rebate, plus 20%.
	assert.Equal(uint64(3_000_000), tx.Gas.Budget)
	assert.Equal([]string{
		"suix_getCoins",
		"suix_getReferenceGasPrice",
		"sui_dryRunTransactionBlock",
	}, env.Methods())

	require.Len(env.DryRuns, 1)
	assert.Equal(uint64(sui.PlaceholderGasBudget), env.DryRuns[0].Gas.Budget)
}

func TestBuildInsufficientFunds(t *testing.T) {
	env := newTestEnv(t, false)
	b := sui.NewTransactionBuilder(env.Client, env.Sender)
	require.NoError(t, b.TransferSui(sui.MustParseAddress("0x2"), 1))

	_, err := b.Build(context.Background())
	assert.ErrorIs(t, err, sui.ErrInsufficientFunds)
	assert.Equal(t, 1, b.Len(), "queue must survive a failed Build")
}

func TestBuildTwice(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	env := newTestEnv(t, true)

	b := sui.NewTransactionBuilder(env.Client, env.Sender)
	_, err := b.MoveCall(testTarget, sui.PureU64(1))
	require.NoError(err)
	tx, err := b.Build(context.Background())
	require.NoError(err)
	assert.Len(tx.Kind.Commands, 1)
	assert.Equal(0, b.Len())

	tx, err = b.Build(context.Background())
	require.NoError(err)
	assert.Empty(tx.Kind.Commands)
}

func TestBuildBudgetNotBelowEstimate(t *testing.T) {
	for _, gas := range []sui.GasCostSummary{
		{},
		{ComputationCost: 1},
		{ComputationCost: 750_000, StorageCost: 1_976_000, StorageRebate: 978_120},
		{ComputationCost: 1, StorageRebate: 5},
	} {
		env := newTestEnv(t, true)
		env.DryRunGas = gas
		b := sui.NewTransactionBuilder(env.Client, env.Sender)
		tx, err := b.Build(context.Background())
		require.NoError(t, err)
		est := gas.Net()
		assert.GreaterOrEqual(t, tx.Gas.Budget, est)
		assert.Equal(t, est+est/5, tx.Gas.Budget)
	}
}

func TestBuildPinnedGas(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	env := newTestEnv(t, true)

	other := env.AddCoin(sui.MustParseAddress("0xbeef"), sui.MustParseAddress("0xc02"), 1)
	b := sui.NewTransactionBuilder(env.Client, env.Sender)
	b.SetGasObject(other.CoinObjectID)
	_, err := b.Build(context.Background())
	assert.ErrorIs(err, sui.ErrBuild)

	b.SetGasObject(sui.MustParseAddress("0xdead"))
	_, err = b.Build(context.Background())
	assert.ErrorIs(err, sui.ErrNotFound)

	mine := env.AddCoin(env.Sender, sui.MustParseAddress("0xc03"), 1)
	b.SetGasObject(mine.CoinObjectID)
	b.SetGasPrice(750)
	b.SetGasBudget(5_000_000)
	tx, err := b.Build(context.Background())
	require.NoError(err)
	assert.Equal([]sui.ObjectRef{mine.Ref()}, tx.Gas.Payment)
	assert.Equal(uint64(750), tx.Gas.Price)
	assert.Equal(uint64(5_000_000), tx.Gas.Budget)
	assert.NotContains(env.Methods(), "suix_getCoins")
	assert.NotContains(env.Methods(), "suix_getReferenceGasPrice")
	assert.NotContains(env.Methods(), "sui_dryRunTransactionBlock")
}

func TestBuildDryRunAbort(t *testing.T) {
	env := newTestEnv(t, true)
	env.DryRunAbort = "MoveAbort(canary, 3)"
	b := sui.NewTransactionBuilder(env.Client, env.Sender)
	_, err := b.MoveCall(testTarget)
	require.NoError(t, err)
	_, err = b.Build(context.Background())
	assert.ErrorIs(t, err, sui.ErrExecution)
	assert.Contains(t, err.Error(), "MoveAbort")
}

func TestBuildSharesInputs(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	env := newTestEnv(t, true)

	obj := sui.MustParseAddress("0x0b1")
	b := sui.NewTransactionBuilder(env.Client, env.Sender)
	_, err := b.MoveCall(testTarget, sui.PureU64(1), sui.SharedObject(obj, 5, false))
	require.NoError(err)
	_, err = b.MoveCall(testTarget, sui.PureU64(1), sui.SharedObject(obj, 5, true))
	require.NoError(err)
	tx, err := b.Build(context.Background())
	require.NoError(err)

	require.Len(tx.Kind.Inputs, 2)
	assert.Equal(sui.PureU64(1), tx.Kind.Inputs[0])
	assert.Equal(sui.SharedMutableKind, tx.Kind.Inputs[1].Object.Kind)
	for _, c := range tx.Kind.Commands {
		call := c.(sui.MoveCall)
		assert.Equal([]sui.Argument{
			{Kind: sui.InputArgument, Index: 0},
			{Kind: sui.InputArgument, Index: 1},
		}, call.Arguments)
	}
}

func TestBuildConflictingObject(t *testing.T) {
	env := newTestEnv(t, true)
	obj := sui.MustParseAddress("0x0b1")
	b := sui.NewTransactionBuilder(env.Client, env.Sender)
	_, err := b.MoveCall(testTarget,
		sui.SharedObject(obj, 5, false),
		sui.OwnedObject(suitest.Ref(obj, 5)))
	require.NoError(t, err)
	_, err = b.Build(context.Background())
	assert.ErrorIs(t, err, sui.ErrBuild)
	assert.Empty(t, env.Methods())
}

func TestTransactionBuilderValidation(t *testing.T) {
	assert := assert.New(t)
	env := newTestEnv(t, true)
	b := sui.NewTransactionBuilder(env.Client, env.Sender)

	for _, target := range []sui.MoveTarget{
		{Module: "canary", Function: "ping"},
		{Package: testTarget.Package, Module: "1canary", Function: "ping"},
		{Package: testTarget.Package, Module: "canary", Function: "ping-pong"},
		{Package: testTarget.Package, Module: "canary"},
	} {
		_, err := b.MoveCall(target)
		assert.ErrorIs(err, sui.ErrBuild, target.String())
	}

	_, err := b.MoveCall(testTarget, sui.CallArg{})
	assert.ErrorIs(err, sui.ErrBuild)
	_, err = b.MoveCall(testTarget, sui.Argument{Kind: sui.ResultArgument, Index: 0})
	assert.ErrorIs(err, sui.ErrBuild)
	assert.ErrorIs(b.TransferSui(env.Sender, 0), sui.ErrBuild)
	assert.ErrorIs(b.TransferObjects(env.Sender), sui.ErrBuild)
	assert.Equal(0, b.Len())
	assert.Empty(env.Methods())
}

func TestTransactionBuilderResults(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	env := newTestEnv(t, true)
	recipient := sui.MustParseAddress("0x2")

	b := sui.NewTransactionBuilder(env.Client, env.Sender)
	require.NoError(b.TransferSui(recipient, 10))
	fee, err := b.SplitGas(20)
	require.NoError(err)
	assert.Equal(sui.Argument{Kind: sui.ResultArgument, Index: 2}, fee)
	res, err := b.MoveCall(testTarget, fee)
	require.NoError(err)
	assert.Equal(sui.Argument{Kind: sui.ResultArgument, Index: 3}, res)
	require.NoError(b.TransferObjects(recipient, res))

	tx, err := b.Build(context.Background())
	require.NoError(err)
	assert.Equal([]sui.CallArg{
		sui.PureAddress(recipient),
		sui.PureU64(10),
		sui.PureU64(20),
	}, tx.Kind.Inputs)
	assert.Equal([]sui.Command{
		sui.SplitCoins{Coin: sui.GasCoin(),
			Amounts: []sui.Argument{{Kind: sui.InputArgument, Index: 1}}},
		sui.TransferObjects{
			Objects:   []sui.Argument{{Kind: sui.ResultArgument, Index: 0}},
			Recipient: sui.Argument{Kind: sui.InputArgument, Index: 0}},
		sui.SplitCoins{Coin: sui.GasCoin(),
			Amounts: []sui.Argument{{Kind: sui.InputArgument, Index: 2}}},
		sui.MoveCall{Package: testTarget.Package, Module: "canary", Function: "ping",
			Arguments: []sui.Argument{fee}},
		sui.TransferObjects{
			Objects:   []sui.Argument{res},
			Recipient: sui.Argument{Kind: sui.InputArgument, Index: 0}},
	}, tx.Kind.Commands)
}

func TestSplitGasZero(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	env := newTestEnv(t, true)

	b := sui.NewTransactionBuilder(env.Client, env.Sender)
	coin, err := b.SplitGas(0)
	require.NoError(err)
	_, err = b.MoveCall(testTarget, coin)
	require.NoError(err)

	tx, err := b.Build(context.Background())
	require.NoError(err)
	assert.Equal(sui.PureU64(0), tx.Kind.Inputs[0])
	assert.Equal(sui.SplitCoins{
		Coin:    sui.GasCoin(),
		Amounts: []sui.Argument{{Kind: sui.InputArgument, Index: 0}},
	}, tx.Kind.Commands[0])
}
