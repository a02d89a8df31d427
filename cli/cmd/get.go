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
	"encoding/json"
	"fmt"
	"os"

	"github.com/posener/complete"
	"github.com/spf13/cobra"

	"github.com/canary-registry/canaryd/canary"
	"github.com/canary-registry/canaryd/sui"
)

// getCmd represents the get command
var getCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "get",
		Aliases: []string{"query"},
		Short:   "Query the registry, its members and canary blobs",
		Long: `
Query the state of the --registry, its members and canary blobs from the
fullnode. Nothing is signed or submitted.
`[1:],
	}
	rootCmd.AddCommand(cmd)
	rootCmplCmd.Sub["get"] = getCmplCmd
	rootCmplCmd.Sub["help"].Sub["get"] = complete.Command{Sub: complete.Commands{}}
	generateCmplFlags(cmd, getCmplCmd.Flags)
	return cmd
}()

var getCmplCmd = complete.Command{
	Flags: mergeFlags(apiCmplFlags),
	Sub:   complete.Commands{},
}

// getRegistryCmd represents the get registry command
var getRegistryCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		DisableFlagsInUseLine: true,
		Use:                   "registry --registry <object-id>",
		Short:                 "Get the admin, fee and member count",
		Args:                  cobra.ExactArgs(0),
		PreRunE:               validateRegistryFlag,
		Run:                   getRegistry,
	}
	getCmd.AddCommand(cmd)
	getCmplCmd.Sub["registry"] = complete.Command{Flags: getCmplCmd.Flags}
	rootCmplCmd.Sub["help"].Sub["get"].Sub["registry"] = complete.Command{}
	return cmd
}()

func getRegistry(_ *cobra.Command, _ []string) {
	vrbLog.Printf("Fetching registry %v...", RegistryID)
	info, err := canary.QueryRegistry(context.Background(), newClient(), RegistryID)
	if err != nil {
		errLog.Fatal(err)
	}
	printJSON(info)
}

var members []sui.Address

// getMemberCmd represents the get member command
var getMemberCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		DisableFlagsInUseLine: true,
		Use:                   "member --registry <object-id> ADDRESS...",
		Aliases:               []string{"members"},
		Short:                 "Get the domain and join time of members",
		Long: `
Get the registered domain and join time of each ADDRESS. Addresses that are not
members are reported as such.
`[1:],
		Args:    getMemberArgs,
		PreRunE: validateRegistryFlag,
		Run:     getMember,
	}
	getCmd.AddCommand(cmd)
	getCmplCmd.Sub["member"] = complete.Command{
		Flags: getCmplCmd.Flags,
		Args:  PredictAddresses,
	}
	rootCmplCmd.Sub["help"].Sub["get"].Sub["member"] = complete.Command{}
	return cmd
}()

func getMemberArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.MinimumNArgs(1)(cmd, args); err != nil {
		return err
	}
	var err error
	members, err = parseAddresses(args)
	return err
}

func getMember(_ *cobra.Command, _ []string) {
	c := newClient()
	for _, member := range members {
		vrbLog.Printf("Fetching member %v...", member)
		info, err := canary.QueryMember(context.Background(), c, RegistryID, member)
		if err != nil {
			errLog.Fatal(err)
		}
		if info == nil {
			fmt.Println(member, "is not a member")
			continue
		}
		printJSON(info.WithAddress(member))
	}
}

var blobIDs []sui.ObjectID

// getBlobCmd represents the get blob command
var getBlobCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		DisableFlagsInUseLine: true,
		Use:                   "blob BLOB-ID...",
		Aliases:               []string{"blobs"},
		Short:                 "Get the content of canary blobs",
		Args:                  getBlobArgs,
		Run:                   getBlob,
	}
	getCmd.AddCommand(cmd)
	getCmplCmd.Sub["blob"] = complete.Command{
		Flags: getCmplCmd.Flags,
		Args:  PredictWatchedBlobs,
	}
	rootCmplCmd.Sub["help"].Sub["get"].Sub["blob"] = complete.Command{}
	return cmd
}()

func getBlobArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.MinimumNArgs(1)(cmd, args); err != nil {
		return err
	}
	var err error
	blobIDs, err = parseAddresses(args)
	return err
}

func getBlob(_ *cobra.Command, _ []string) {
	c := newClient()
	for _, id := range blobIDs {
		vrbLog.Printf("Fetching canary blob %v...", id)
		info, err := canary.QueryCanaryBlob(context.Background(), c, id)
		if err != nil {
			errLog.Fatal(err)
		}
		printJSON(info)
	}
}

var derivePackageID sui.ObjectID

// getDeriveCmd represents the get derive command
var getDeriveCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		DisableFlagsInUseLine: true,
		Use:                   "derive --registry <object-id> DOMAIN PACKAGE-ID",
		Short:                 "Get the address of the canary blob of a package",
		Args:                  getDeriveArgs,
		PreRunE:               validateRegistryFlag,
		Run:                   getDerive,
	}
	getCmd.AddCommand(cmd)
	getCmplCmd.Sub["derive"] = complete.Command{Flags: getCmplCmd.Flags}
	rootCmplCmd.Sub["help"].Sub["get"].Sub["derive"] = complete.Command{}
	return cmd
}()

func getDeriveArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(2)(cmd, args); err != nil {
		return err
	}
	return derivePackageID.Set(args[1])
}

func getDerive(_ *cobra.Command, args []string) {
	adr, err := canary.DeriveCanaryAddress(context.Background(), newClient(),
		RegistryID, args[0], derivePackageID)
	if err != nil {
		errLog.Fatal(err)
	}
	fmt.Println(adr)
}

func printJSON(v interface{}) {
	e := json.NewEncoder(os.Stdout)
	e.SetIndent("", "  ")
	if err := e.Encode(v); err != nil {
		errLog.Fatal(err)
	}
}
