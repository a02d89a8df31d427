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
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canary-registry/canaryd/sui"
	"github.com/canary-registry/canaryd/sui/suitest"
)

func hexToBytes(hexStr string) []byte {
	raw, err := hex.DecodeString(hexStr)
	if err != nil {
		panic(err)
	}
	return raw
}

func testTransaction() *sui.TransactionData {
	sender := sui.MustParseAddress("0x1")
	var digest sui.Digest
	copy(digest[:], bytes.Repeat([]byte{9}, len(digest)))
	return &sui.TransactionData{
		Kind: sui.ProgrammableTransaction{
			Inputs: []sui.CallArg{
				sui.PureU64(7),
				sui.SharedObject(sui.MustParseAddress("0x5"), 3, true),
			},
			Commands: []sui.Command{sui.MoveCall{
				Package:  sui.MustParseAddress("0x2"),
				Module:   "m",
				Function: "f",
				Arguments: []sui.Argument{
					{Kind: sui.InputArgument, Index: 0},
					{Kind: sui.InputArgument, Index: 1},
				},
			}},
		},
		Sender: sender,
		Gas: sui.GasData{
			Payment: []sui.ObjectRef{{
				ObjectID: sui.MustParseAddress("0x3"),
				Version:  4,
				Digest:   digest,
			}},
			Owner:  sender,
			Price:  1000,
			Budget: 2000000,
		},
	}
}

const (
	testKindHex = "02000807000000000000000101000000000000000000000000000000000000000000000000000000000000000503000000000000000101000000000000000000000000000000000000000000000000000000000000000002016d01660002010000010100"
	testTxHex   = "0000" + testKindHex +
		"0000000000000000000000000000000000000000000000000000000000000001" +
		"01" + "0000000000000000000000000000000000000000000000000000000000000003" +
		"0400000000000000" + "20" +
		"0909090909090909090909090909090909090909090909090909090909090909" +
		"0000000000000000000000000000000000000000000000000000000000000001" +
		"e803000000000000" + "80841e0000000000" + "00"
)

func TestTransactionDataBytes(t *testing.T) {
	assert := assert.New(t)
	tx := testTransaction()
	assert.Equal(testTxHex, hex.EncodeToString(tx.Bytes()))
	assert.Equal("00"+testKindHex, hex.EncodeToString(tx.Kind.KindBytes()))
	assert.Equal("9WC5XpoCVDgjEjMQRsDJMsVej2Bx56CZD8btWFLsUVdV", tx.Digest().String())

	digest := sui.TransactionIntent().Digest(tx.Bytes())
	assert.Equal("3b109c96d85a48e131884332bfe9fa1c04915d2d76273fb3db435abe1b4f6649",
		hex.EncodeToString(digest[:]))
}

func TestDecodeTransaction(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	tx := testTransaction()

	decoded, err := suitest.DecodeTransaction(tx.Bytes())
	require.NoError(err)
	assert.Equal(tx, decoded)

	pt, err := suitest.DecodeKind(tx.Kind.KindBytes())
	require.NoError(err)
	call, args, err := suitest.LastMoveCall(pt)
	require.NoError(err)
	assert.Equal("m", call.Module)
	assert.Equal("f", call.Function)
	assert.Equal(tx.Kind.Inputs, args)

	_, err = suitest.DecodeTransaction(hexToBytes(testTxHex + "00"))
	assert.ErrorIs(err, sui.ErrDecode)
	_, err = suitest.DecodeTransaction(hexToBytes(testTxHex[:len(testTxHex)-2]))
	assert.ErrorIs(err, sui.ErrDecode)
}

func TestCallArgEncoding(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(hexToBytes("0568656c6c6f"), sui.PureString("hello").Pure)
	assert.Equal(hexToBytes("03010203"), sui.PureBytes([]byte{1, 2, 3}).Pure)
	assert.Equal([]byte{1}, sui.PureBool(true).Pure)
	assert.Equal([]byte{0xff}, sui.PureU8(0xff).Pure)
	assert.Equal(hexToBytes("0100000000000000"), sui.PureU64(1).Pure)

	adr := sui.MustParseAddress("0xabc")
	assert.Equal(adr[:], sui.PureAddress(adr).Pure)
	assert.Len(sui.PureAddressVector(adr, adr).Pure, 1+2*32)
	assert.Equal([]byte{0}, sui.PureAddressVector().Pure)

	clock := sui.ClockArg()
	require.True(t, clock.IsObject())
	assert.Equal(sui.SharedImmutableKind, clock.Object.Kind)
	assert.Equal(uint64(1), clock.Object.Version)
	assert.Equal(sui.Clock, clock.Object.ID)
}

func TestPadBudget(t *testing.T) {
	for _, test := range []struct {
		Estimate, Budget uint64
	}{
		{0, 0},
		{4, 4},
		{5, 6},
		{2_500_000, 3_000_000},
		{1<<64 - 1, 1<<64 - 1},
	} {
		assert.Equal(t, test.Budget, sui.PadBudget(test.Estimate))
		assert.GreaterOrEqual(t, sui.PadBudget(test.Estimate), test.Estimate)
	}
}
