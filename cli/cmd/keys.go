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
	"fmt"

	"github.com/posener/complete"
	"github.com/spf13/cobra"

	"github.com/canary-registry/canaryd/sui"
)

var keyScheme = sui.Ed25519
var saveKey bool

// keygenCmd represents the keygen command
var keygenCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		DisableFlagsInUseLine: true,
		Use:                   "keygen [--scheme <scheme>] [--save]",
		Short:                 "Generate a new private key",
		Long: `
Generate a new private key and print it with its address.

The key is printed in the suiprivkey format accepted by --key. Use --save to
also add it to the --keystore.
`[1:],
		Args: cobra.ExactArgs(0),
		Run:  keygen,
	}
	rootCmd.AddCommand(cmd)
	rootCmplCmd.Sub["keygen"] = keygenCmplCmd
	rootCmplCmd.Sub["help"].Sub["keygen"] = complete.Command{}

	flags := cmd.Flags()
	flags.Var(&keyScheme, "scheme", "ed25519, secp256k1 or secp256r1")
	flags.BoolVar(&saveKey, "save", false, "Add the key to --keystore")

	generateCmplFlags(cmd, keygenCmplCmd.Flags)
	return cmd
}()

var keygenCmplCmd = complete.Command{
	Flags: complete.Flags{
		"--scheme": complete.PredictSet("ed25519", "secp256k1", "secp256r1"),
	},
}

func keygen(_ *cobra.Command, _ []string) {
	key, err := sui.GeneratePrivateKey(keyScheme)
	if err != nil {
		errLog.Fatal(err)
	}
	if saveKey {
		ks, err := loadKeystoreFile()
		if err != nil {
			errLog.Fatal(err)
		}
		ks.Import(key)
		if err := ks.Save(KeystorePath); err != nil {
			errLog.Fatal(err)
		}
		vrbLog.Printf("Saved to %v", KeystorePath)
	}
	fmt.Println(key.Address(), key)
}

// addressesCmd represents the addresses command
var addressesCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		DisableFlagsInUseLine: true,
		Use:                   "addresses",
		Aliases:               []string{"address", "list"},
		Short:                 "List the keystore addresses",
		Long: `
List the address and scheme of each key in --keystore and of --key.
`[1:],
		Args: cobra.ExactArgs(0),
		Run:  listAddresses,
	}
	rootCmd.AddCommand(cmd)
	rootCmplCmd.Sub["addresses"] = complete.Command{Flags: signerCmplFlags}
	rootCmplCmd.Sub["help"].Sub["addresses"] = complete.Command{}
	return cmd
}()

func listAddresses(_ *cobra.Command, _ []string) {
	ks, err := loadKeystore()
	if err != nil {
		errLog.Fatal(err)
	}
	for _, adr := range ks.Addresses() {
		key, err := ks.Export(adr)
		if err != nil {
			errLog.Fatal(err)
		}
		fmt.Println(adr, key.Scheme())
	}
}

var importKeys []sui.PrivateKey

// importCmd represents the import command
var importCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		DisableFlagsInUseLine: true,
		Use:                   "import KEY...",
		Short:                 "Add private keys to the keystore",
		Long: `
Add each suiprivkey KEY to --keystore, creating it if it does not exist.
`[1:],
		Args: importArgs,
		Run:  importKey,
	}
	rootCmd.AddCommand(cmd)
	rootCmplCmd.Sub["import"] = complete.Command{Flags: signerCmplFlags}
	rootCmplCmd.Sub["help"].Sub["import"] = complete.Command{}
	return cmd
}()

func importArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.MinimumNArgs(1)(cmd, args); err != nil {
		return err
	}
	importKeys = make([]sui.PrivateKey, len(args))
	for i, arg := range args {
		if err := importKeys[i].Set(arg); err != nil {
			return fmt.Errorf("key %v: %w", i, err)
		}
	}
	return nil
}

func importKey(_ *cobra.Command, _ []string) {
	ks, err := loadKeystoreFile()
	if err != nil {
		errLog.Fatal(err)
	}
	for _, key := range importKeys {
		fmt.Println(ks.Import(key))
	}
	if err := ks.Save(KeystorePath); err != nil {
		errLog.Fatal(err)
	}
	vrbLog.Printf("Saved to %v", KeystorePath)
}

var exportAddresses []sui.Address

// exportCmd represents the export command
var exportCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		DisableFlagsInUseLine: true,
		Use:                   "export ADDRESS...",
		Short:                 "Print private keys from the keystore",
		Long: `
Print the suiprivkey private key of each ADDRESS in --keystore.
`[1:],
		Args: exportArgs,
		Run:  exportKey,
	}
	rootCmd.AddCommand(cmd)
	rootCmplCmd.Sub["export"] = complete.Command{
		Flags: signerCmplFlags,
		Args:  PredictAddresses,
	}
	rootCmplCmd.Sub["help"].Sub["export"] = complete.Command{}
	return cmd
}()

func exportArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.MinimumNArgs(1)(cmd, args); err != nil {
		return err
	}
	var err error
	exportAddresses, err = parseAddresses(args)
	return err
}

func exportKey(_ *cobra.Command, _ []string) {
	ks, err := loadKeystore()
	if err != nil {
		errLog.Fatal(err)
	}
	for _, adr := range exportAddresses {
		key, err := ks.Export(adr)
		if err != nil {
			errLog.Fatal(err)
		}
		fmt.Println(adr, key)
	}
}

// parseAddresses parses args as addresses and rejects duplicates.
func parseAddresses(args []string) ([]sui.Address, error) {
	adrs := make([]sui.Address, len(args))
	dupl := make(map[sui.Address]struct{}, len(args))
	for i := range adrs {
		adr := &adrs[i]
		if err := adr.Set(args[i]); err != nil {
			return nil, err
		}
		if _, ok := dupl[*adr]; ok {
			return nil, fmt.Errorf("duplicate: %v", adr)
		}
		dupl[*adr] = struct{}{}
	}
	return adrs, nil
}
