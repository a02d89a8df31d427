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

package sui

import (
	"fmt"
	"net/url"
)

// Network is a named fullnode preset or a custom fullnode URL.
type Network string

const (
	Localnet Network = "localnet"
	Devnet   Network = "devnet"
	Testnet  Network = "testnet"
	Mainnet  Network = "mainnet"
)

// URL returns the JSON-RPC endpoint of n.
func (n Network) URL() string {
	switch n {
	case Localnet:
		return "http://127.0.0.1:9000"
	case Devnet, Testnet, Mainnet:
		return fmt.Sprintf("https://fullnode.%v.sui.io:443", string(n))
	}
	return string(n)
}

func (n Network) IsCustom() bool {
	switch n {
	case Localnet, Devnet, Testnet, Mainnet:
		return false
	}
	return true
}

func (n Network) String() string {
	return string(n)
}

// Set accepts "localnet", "devnet", "testnet", "mainnet" or an http(s) URL.
func (n *Network) Set(s string) error {
	switch v := Network(s); v {
	case Localnet, Devnet, Testnet, Mainnet:
		*n = v
		return nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid network: %q", s)
	}
	*n = Network(s)
	return nil
}

func (n *Network) Type() string {
	return "network"
}
