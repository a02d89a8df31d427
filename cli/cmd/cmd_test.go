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

package cmd

import (
	"path/filepath"
	"testing"

	"github.com/posener/complete"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canary-registry/canaryd/sui"
)

func TestParseAddresses(t *testing.T) {
	for _, test := range []struct {
		Name  string
		Args  []string
		Error string
		Len   int
	}{{
		Name: "valid",
		Args: []string{"0x1", "0x2", "0xad"},
		Len:  3,
	}, {
		Name:  "duplicate",
		Args:  []string{"0x2", "0x02"},
		Error: "duplicate: 0x0000000000000000000000000000000000000000000000000000000000000002",
	}, {
		Name:  "invalid",
		Args:  []string{"0x1", "canary"},
		Error: "",
	}} {
		t.Run(test.Name, func(t *testing.T) {
			assert := assert.New(t)
			adrs, err := parseAddresses(test.Args)
			if test.Len == 0 {
				require.Error(t, err)
				if test.Error != "" {
					assert.EqualError(err, test.Error)
				}
				return
			}
			require.NoError(t, err)
			assert.Len(adrs, test.Len)
			assert.Equal("0x00000000000000000000000000000000000000000000000000000000000000ad",
				adrs[2].String())
		})
	}
}

func TestMergeFlags(t *testing.T) {
	assert := assert.New(t)
	a := complete.Flags{"--a": complete.PredictNothing}
	b := complete.Flags{"--b": complete.PredictAnything}
	merged := mergeFlags(a, b)
	assert.Len(merged, 2)
	merged["--c"] = complete.PredictNothing
	assert.Len(a, 1, "inputs are not modified")
}

func TestSavedKeystoreExcludesKeyFlag(t *testing.T) {
	other, err := sui.GeneratePrivateKey(sui.Ed25519)
	require.NoError(t, err)
	for _, test := range []struct {
		Name  string
		Run   func()
		Saved []sui.Address
	}{{
		Name: "import",
		Run: func() {
			importKeys = []sui.PrivateKey{other}
			importKey(nil, nil)
		},
		Saved: []sui.Address{other.Address()},
	}, {
		Name: "keygen --save",
		Run: func() {
			saveKey = true
			defer func() { saveKey = false }()
			keygen(nil, nil)
		},
	}} {
		t.Run(test.Name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)
			key, err := sui.GeneratePrivateKey(sui.Secp256k1)
			require.NoError(err)
			prevKey, prevPath := Key, KeystorePath
			defer func() { Key, KeystorePath = prevKey, prevPath }()
			Key = key
			KeystorePath = filepath.Join(t.TempDir(), "sui.keystore")

			test.Run()

			loaded, err := sui.LoadKeystoreFile(KeystorePath)
			require.NoError(err)
			assert.False(loaded.Has(key.Address()), "--key was saved")
			assert.Len(loaded.Addresses(), 1)
			for _, adr := range test.Saved {
				assert.True(loaded.Has(adr))
			}

			ks, err := loadKeystore()
			require.NoError(err)
			assert.True(ks.Has(key.Address()), "--key is available in memory")
		})
	}
}
