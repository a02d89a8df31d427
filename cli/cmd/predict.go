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
	"context"
	"os"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/posener/complete"

	"github.com/canary-registry/canaryd/sui"
)

// parseCmplFlags parses the flags on the command line being completed.
func parseCmplFlags() error {
	args := strings.Fields(os.Getenv("COMP_LINE"))
	if len(args) > 0 {
		args = args[1:]
	}
	if err := apiFlags.Parse(args); err != nil {
		return err
	}
	if err := signerFlags.Parse(args); err != nil {
		return err
	}
	Timeout = time.Second / 3
	var err error
	KeystorePath, err = homedir.Expand(KeystorePath)
	return err
}

// completed returns the addresses already given as arguments.
func completed(args complete.Args) map[sui.Address]struct{} {
	done := make(map[sui.Address]struct{}, len(args.Completed))
	for _, arg := range args.Completed {
		var adr sui.Address
		if adr.Set(arg) != nil {
			continue
		}
		done[adr] = struct{}{}
	}
	return done
}

// PredictAddresses predicts the keystore addresses not yet given.
var PredictAddresses complete.PredictFunc = func(args complete.Args) []string {
	if err := parseCmplFlags(); err != nil {
		return nil
	}
	ks, err := loadKeystore()
	if err != nil {
		return nil
	}
	done := completed(args)
	var adrStrs []string
	for _, adr := range ks.Addresses() {
		if _, ok := done[adr]; ok {
			continue
		}
		adrStrs = append(adrStrs, adr.String())
	}
	return adrStrs
}

// PredictWatchedBlobs predicts the canary blobs watched by canaryd.
var PredictWatchedBlobs complete.PredictFunc = func(args complete.Args) []string {
	if err := parseCmplFlags(); err != nil {
		return nil
	}
	CanarydClient.Timeout = Timeout
	status, err := CanarydClient.GetStatus(context.Background())
	if err != nil {
		return nil
	}
	done := completed(args)
	var idStrs []string
	for _, blob := range status.Blobs {
		if _, ok := done[blob.ID]; ok {
			continue
		}
		idStrs = append(idStrs, blob.ID.String())
	}
	return idStrs
}
