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
	"errors"
	"fmt"
	"strconv"

	"github.com/posener/complete"
	"github.com/spf13/cobra"

	"github.com/canary-registry/canaryd/canary"
	"github.com/canary-registry/canaryd/sui"
)

var (
	payment    uint64
	adminCapID sui.ObjectID
)

// joinCmd represents the join command
var joinCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		DisableFlagsInUseLine: true,
		Use:                   "join --registry <object-id> [--payment <mist>] DOMAIN",
		Short:                 "Join the registry",
		Long: `
Register the sender under DOMAIN in the --registry.

The --payment is split from the gas coin and must cover the registry's fee. If
--payment is omitted the current fee is queried and paid.
`[1:],
		Args:    cobra.ExactArgs(1),
		PreRunE: validateRegistryFlag,
		Run:     join,
	}
	rootCmd.AddCommand(cmd)
	rootCmplCmd.Sub["join"] = joinCmplCmd
	rootCmplCmd.Sub["help"].Sub["join"] = complete.Command{}

	cmd.Flags().Uint64Var(&payment, "payment", 0, "Payment in MIST")

	generateCmplFlags(cmd, joinCmplCmd.Flags)
	return cmd
}()

var joinCmplCmd = complete.Command{
	Flags: mergeFlags(apiCmplFlags, signerCmplFlags),
}

func join(_ *cobra.Command, args []string) {
	ctx := context.Background()
	s, err := newSession()
	if err != nil {
		errLog.Fatal(err)
	}
	if payment == 0 {
		vrbLog.Println("Fetching registry fee...")
		info, err := canary.QueryRegistry(ctx, s.Client, RegistryID)
		if err != nil {
			errLog.Fatal(err)
		}
		payment = info.Fee
	}
	vrbLog.Printf("Joining as %q with %v MIST...", args[0], payment)
	res, err := s.JoinRegistry(ctx, RegistryID, args[0], payment)
	printResponse(res, err)
}

// storeCmd represents the store command
var storeCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		DisableFlagsInUseLine: true,
		Use: `
store --registry <object-id> --admin-cap <object-id>
        DOMAIN CONTRACT-BLOB-ID EXPLAIN-BLOB-ID PACKAGE-ID`[1:],
		Short: "Store a new canary blob",
		Long: `
Store a canary blob for the PACKAGE-ID of DOMAIN, pointing at the CONTRACT-BLOB-ID
and EXPLAIN-BLOB-ID. The sender must own the registry's --admin-cap.

The ID of the created canary blob is printed.
`[1:],
		Args:    storeArgs,
		PreRunE: validateAdminFlags,
		Run:     store,
	}
	rootCmd.AddCommand(cmd)
	rootCmplCmd.Sub["store"] = adminCmplCmd
	rootCmplCmd.Sub["help"].Sub["store"] = complete.Command{}
	addAdminCapFlag(cmd)
	return cmd
}()

var adminCmplCmd = complete.Command{
	Flags: mergeFlags(apiCmplFlags, signerCmplFlags),
}

func addAdminCapFlag(cmd *cobra.Command) {
	cmd.Flags().Var(&adminCapID, "admin-cap", "Object ID of the registry's AdminCap")
	cmd.Flags().Lookup("admin-cap").DefValue = "none"
	generateCmplFlags(cmd, adminCmplCmd.Flags)
}

func validateAdminFlags(cmd *cobra.Command, args []string) error {
	if err := validateRegistryFlag(cmd, args); err != nil {
		return err
	}
	if adminCapID.IsZero() {
		return fmt.Errorf("--admin-cap is required")
	}
	return nil
}

var blobArgs []sui.ObjectID

func storeArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(4)(cmd, args); err != nil {
		return err
	}
	var err error
	blobArgs, err = parseAddresses(args[1:])
	return err
}

func store(_ *cobra.Command, args []string) {
	s, err := newSession()
	if err != nil {
		errLog.Fatal(err)
	}
	res, err := s.StoreBlob(context.Background(), RegistryID, adminCapID,
		args[0], blobArgs[0], blobArgs[1], blobArgs[2])
	printResponse(res, err)
	for _, id := range res.CreatedObjects("::CanaryBlob") {
		fmt.Println("Canary Blob:", id)
	}
}

// updateCmd represents the update command
var updateCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		DisableFlagsInUseLine: true,
		Use: `
update --registry <object-id> --admin-cap <object-id>
        BLOB-ID CONTRACT-BLOB-ID EXPLAIN-BLOB-ID`[1:],
		Short:   "Point a canary blob at new content",
		Args:    updateArgs,
		PreRunE: validateAdminFlags,
		Run:     update,
	}
	rootCmd.AddCommand(cmd)
	rootCmplCmd.Sub["update"] = complete.Command{
		Flags: adminCmplCmd.Flags,
		Args:  PredictWatchedBlobs,
	}
	rootCmplCmd.Sub["help"].Sub["update"] = complete.Command{}
	addAdminCapFlag(cmd)
	return cmd
}()

func updateArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(3)(cmd, args); err != nil {
		return err
	}
	var err error
	blobArgs, err = parseAddresses(args)
	return err
}

func update(_ *cobra.Command, _ []string) {
	s, err := newSession()
	if err != nil {
		errLog.Fatal(err)
	}
	res, err := s.UpdateBlob(context.Background(), RegistryID, adminCapID,
		blobArgs[0], blobArgs[1], blobArgs[2])
	printResponse(res, err)
}

// deleteCmd represents the delete command
var deleteCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		DisableFlagsInUseLine: true,
		Use:                   "delete --registry <object-id> --admin-cap <object-id> BLOB-ID",
		Short:                 "Delete a canary blob",
		Args:                  updateBlobIDArg,
		PreRunE:               validateAdminFlags,
		Run:                   deleteBlob,
	}
	rootCmd.AddCommand(cmd)
	rootCmplCmd.Sub["delete"] = complete.Command{
		Flags: adminCmplCmd.Flags,
		Args:  PredictWatchedBlobs,
	}
	rootCmplCmd.Sub["help"].Sub["delete"] = complete.Command{}
	addAdminCapFlag(cmd)
	return cmd
}()

func updateBlobIDArg(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return err
	}
	var err error
	blobArgs, err = parseAddresses(args)
	return err
}

func deleteBlob(_ *cobra.Command, _ []string) {
	s, err := newSession()
	if err != nil {
		errLog.Fatal(err)
	}
	res, err := s.DeleteCanaryBlob(context.Background(), RegistryID, adminCapID,
		blobArgs[0])
	printResponse(res, err)
}

// transferCmd represents the transfer command
var transferCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		DisableFlagsInUseLine: true,
		Use:                   "transfer RECIPIENT (OBJECT-ID | AMOUNT)",
		Short:                 "Send an object or SUI",
		Long: `
Send the sender's OBJECT-ID, or AMOUNT MIST split from the gas coin, to
RECIPIENT. An argument that parses as a decimal integer is an AMOUNT.
`[1:],
		Args: cobra.ExactArgs(2),
		Run:  transfer,
	}
	rootCmd.AddCommand(cmd)
	rootCmplCmd.Sub["transfer"] = complete.Command{
		Flags: mergeFlags(apiCmplFlags, signerCmplFlags),
		Args:  PredictAddresses,
	}
	rootCmplCmd.Sub["help"].Sub["transfer"] = complete.Command{}
	return cmd
}()

func transfer(_ *cobra.Command, args []string) {
	var recipient sui.Address
	if err := recipient.Set(args[0]); err != nil {
		errLog.Fatalf("RECIPIENT: %v", err)
	}
	s, err := newSession()
	if err != nil {
		errLog.Fatal(err)
	}
	ctx := context.Background()
	if amount, err := strconv.ParseUint(args[1], 10, 64); err == nil {
		res, err := s.TransferSui(ctx, recipient, amount)
		printResponse(res, err)
		return
	}
	var id sui.ObjectID
	if err := id.Set(args[1]); err != nil {
		errLog.Fatalf("OBJECT-ID: %v", err)
	}
	res, err := s.TransferObject(ctx, id, recipient)
	printResponse(res, err)
}

// printResponse prints the digest and gas of a submitted transaction, or
// exits on err.
func printResponse(res *sui.TransactionResponse, err error) {
	var unknown *sui.UnknownOutcomeError
	if errors.As(err, &unknown) {
		errLog.Fatalf("%v\nCheck the transaction before retrying: %v",
			err, unknown.Digest)
	}
	if err != nil {
		errLog.Fatal(err)
	}
	fmt.Println("Transaction:", res.Digest)
	if res.Effects != nil {
		vrbLog.Printf("Gas used: %v MIST", res.Effects.GasUsed.Net())
	}
}
