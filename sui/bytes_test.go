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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canary-registry/canaryd/sui"
)

var addressTests = []struct {
	Name  string
	Input string
	Adr   string
	Error string
}{{
	Name:  "short",
	Input: "0x6",
	Adr:   "0x0000000000000000000000000000000000000000000000000000000000000006",
}, {
	Name:  "no prefix",
	Input: "abc",
	Adr:   "0x0000000000000000000000000000000000000000000000000000000000000abc",
}, {
	Name:  "full",
	Input: "0xa2d14fad60c56049ecf75246a481934691214ce413e6a8ae2fe6834c173a6133",
	Adr:   "0xa2d14fad60c56049ecf75246a481934691214ce413e6a8ae2fe6834c173a6133",
}, {
	Name:  "too long",
	Input: "0x1a2d14fad60c56049ecf75246a481934691214ce413e6a8ae2fe6834c173a6133",
	Error: "invalid length",
}, {
	Name:  "empty",
	Input: "0x",
	Error: "invalid length",
}, {
	Name:  "not hex",
	Input: "0xcanary",
	Error: "invalid hex",
}}

func TestParseAddress(t *testing.T) {
	for _, test := range addressTests {
		test := test
		t.Run(test.Name, func(t *testing.T) {
			adr, err := sui.ParseAddress(test.Input)
			if test.Error != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), test.Error)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.Adr, adr.String())

			data, err := json.Marshal(adr)
			require.NoError(t, err)
			var adr2 sui.Address
			require.NoError(t, json.Unmarshal(data, &adr2))
			assert.Equal(t, adr, adr2)
		})
	}
}

func TestDecodeAddress(t *testing.T) {
	buf := make([]byte, 32)
	buf[31] = 6
	adr, err := sui.DecodeAddress(buf)
	require.NoError(t, err)
	assert.Equal(t, sui.Clock, adr)

	for _, n := range []int{0, 31, 33} {
		_, err := sui.DecodeAddress(make([]byte, n))
		assert.ErrorIs(t, err, sui.ErrDecode)
	}
}

func TestDigest(t *testing.T) {
	assert := assert.New(t)
	d, err := sui.ParseDigest("9WC5XpoCVDgjEjMQRsDJMsVej2Bx56CZD8btWFLsUVdV")
	require.NoError(t, err)
	assert.Equal(testTransaction().Digest(), d)
	assert.False(d.IsZero())

	_, err = sui.ParseDigest("9WC5XpoCVDgjEjMQ")
	assert.ErrorIs(err, sui.ErrDecode)

	var d2 sui.Digest
	assert.Error(json.Unmarshal([]byte(`42`), &d2))
}

func TestBigInt(t *testing.T) {
	assert := assert.New(t)
	var i sui.BigInt
	assert.NoError(json.Unmarshal([]byte(`"18446744073709551615"`), &i))
	assert.Equal(sui.BigInt(1<<64-1), i)
	assert.NoError(json.Unmarshal([]byte(`1000`), &i))
	assert.Equal(sui.BigInt(1000), i)
	assert.Error(json.Unmarshal([]byte(`"-1"`), &i))
	assert.Error(json.Unmarshal([]byte(`"18446744073709551616"`), &i))

	data, err := json.Marshal(sui.BigInt(1000))
	assert.NoError(err)
	assert.Equal(`"1000"`, string(data))
}

var networkTests = []struct {
	Name  string
	Input string
	URL   string
	Error bool
}{{
	Name:  "localnet",
	Input: "localnet",
	URL:   "http://127.0.0.1:9000",
}, {
	Name:  "testnet",
	Input: "testnet",
	URL:   "https://fullnode.testnet.sui.io:443",
}, {
	Name:  "mainnet",
	Input: "mainnet",
	URL:   "https://fullnode.mainnet.sui.io:443",
}, {
	Name:  "custom",
	Input: "http://localhost:9124",
	URL:   "http://localhost:9124",
}, {
	Name:  "unknown preset",
	Input: "betanet",
	Error: true,
}, {
	Name:  "unsupported scheme",
	Input: "ws://localhost:9000",
	Error: true,
}}

func TestNetwork(t *testing.T) {
	for _, test := range networkTests {
		test := test
		t.Run(test.Name, func(t *testing.T) {
			var n sui.Network
			err := n.Set(test.Input)
			if test.Error {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.URL, n.URL())
			assert.Equal(t, test.Name == "custom", n.IsCustom())
		})
	}
}
