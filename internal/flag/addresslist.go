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

package flag

import (
	"strings"

	"github.com/canary-registry/canaryd/sui"
)

// AddressList is a flag.Value holding object IDs or addresses.
type AddressList []sui.Address

func (adrs AddressList) String() string {
	strs := make([]string, len(adrs))
	for i, adr := range adrs {
		strs[i] = adr.String()
	}
	return strings.Join(strs, ",")
}

// Set appends a comma separated list of addresses. Duplicates are dropped.
func (adrs *AddressList) Set(s string) error {
	for _, adrStr := range strings.Split(s, ",") {
		adrStr = strings.TrimSpace(adrStr)
		if len(adrStr) == 0 {
			continue
		}
		adr, err := sui.ParseAddress(adrStr)
		if err != nil {
			return err
		}
		if adrs.contains(adr) {
			continue
		}
		*adrs = append(*adrs, adr)
	}
	return nil
}

func (adrs AddressList) contains(adr sui.Address) bool {
	for _, a := range adrs {
		if a == adr {
			return true
		}
	}
	return false
}
