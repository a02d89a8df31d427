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
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/posener/complete"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/canary-registry/canaryd/api"
	"github.com/canary-registry/canaryd/canary"
	"github.com/canary-registry/canaryd/sui"
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		errLog.Println(err)
		os.Exit(1)
	}
}

var (
	cfgFile  string
	Revision string

	Network      = sui.Devnet
	Timeout      time.Duration
	KeystorePath string
	Key          sui.PrivateKey
	Sender       sui.Address
	RegistryID   sui.ObjectID

	GasPrice  uint64
	GasBudget uint64
	GasObject sui.ObjectID

	CanarydClient = api.NewClient()
	Debug         bool
	Verbose       bool

	vrbLog = log.New(io.Discard, "", 0)
	errLog = log.New(os.Stderr, "", 0)
)

// envNames maps persistent flags to the environment variables shared with
// canaryd.
var envNames = map[string]string{
	"network":  "CANARY_NETWORK",
	"keystore": "CANARY_KEYSTORE",
	"key":      "CANARY_PRIVATE_KEY",
	"registry": "CANARY_REGISTRY_ID",
	"canaryd":  "CANARY_API",
}

var apiFlags = func() *flag.FlagSet {
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.VarP(&Network, "network", "n",
		"localnet, devnet, testnet, mainnet or an http(s) fullnode URL")
	flags.DurationVar(&Timeout, "timeout", sui.DefaultTimeout,
		"Timeout for all API requests (i.e. 10s, 1m)")
	flags.StringVar(&CanarydClient.CanarydServer, "canaryd", api.CanarydDefault,
		"scheme://host:port for canaryd")
	flags.BoolVar(&Debug, "debug", false, "Print all RPC requests and responses")
	flags.BoolVarP(&Verbose, "verbose", "v", false, "Print progress messages")
	return flags
}()

var signerFlags = func() *flag.FlagSet {
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.StringVar(&KeystorePath, "keystore", "~/.sui/sui_config/sui.keystore",
		"Path to a sui CLI keystore")
	flags.Var(&Key, "key", "Private key, suiprivkey..., to sign with")
	flags.Lookup("key").DefValue = "none"
	flags.VarP(&Sender, "sender", "a",
		"Address to sign with, defaults to --key or the first keystore address")
	flags.Lookup("sender").DefValue = "none"
	flags.Uint64Var(&GasPrice, "gas-price", 0,
		"Gas price in MIST, 0 uses the reference gas price")
	flags.Uint64Var(&GasBudget, "gas-budget", 0,
		"Gas budget in MIST, 0 estimates the budget with a dry run")
	flags.Var(&GasObject, "gas-coin", "SUI coin to pay gas with")
	flags.Lookup("gas-coin").DefValue = "none"
	return flags
}()

// rootCmd represents the base command when called without any subcommands
var rootCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "canary-cli",
		Short: "Canary registry CLI",
		Long: `canary-cli allows users to explore and interact with a canary member
registry on the Sui ledger.

It can query the registry, its members and canary blobs, join the registry,
and, with the registry's AdminCap, store, update and delete canary blobs.

Network Settings

Use --network to select the fullnode: localnet, devnet, testnet, mainnet or a
custom http(s) URL.

Signer Settings

Transactions are signed with keys from the sui CLI keystore at --keystore, or
with --key. Use --sender to select one of the keystore's addresses.

Configuration

Flags may also be set in $HOME/.canary-cli.yaml, with the CANARY_ environment
variables used by canaryd, or in a .env file in the working directory.`,
		Args:              cobra.ExactArgs(0),
		PersistentPreRunE: initFlags,
		PreRunE:           validateRunCompletionFlags,
		Run:               runCompletion,
	}

	cmd.Flags().AddFlagSet(installCompletionFlags)
	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.canary-cli.yaml)")
	// API Flags
	flags.AddFlagSet(apiFlags)
	// Signer Flags
	flags.AddFlagSet(signerFlags)
	// Registry Flags
	flags.VarP(&RegistryID, "registry", "r", "Object ID of the member registry")
	flags.Lookup("registry").DefValue = "none"

	generateCmplFlags(cmd, rootCmplCmd.Flags)
	return cmd
}()

var rootCmplCmd = complete.Command{
	Flags: mergeFlags(apiCmplFlags, signerCmplFlags),
	Sub:   complete.Commands{"help": complete.Command{Sub: complete.Commands{}}},
}
var apiCmplFlags = complete.Flags{
	"--help":    complete.PredictNothing,
	"--network": complete.PredictSet("localnet", "devnet", "testnet", "mainnet"),
	"-n":        complete.PredictSet("localnet", "devnet", "testnet", "mainnet"),
	"--config":  complete.PredictFiles("*.yaml"),
}
var signerCmplFlags = complete.Flags{
	"--keystore": complete.PredictFiles("*.keystore"),
	"--sender":   PredictAddresses,
	"-a":         PredictAddresses,
	"--key":      complete.PredictNothing,
}

var installCompletionFlags = func() *flag.FlagSet {
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.BoolVar(&installCompletion, "installcompletion", false,
		"Install shell completion for canary-cli")
	flags.BoolVar(&uninstallCompletion, "uninstallcompletion", false,
		"Uninstall shell completion for canary-cli")
	return flags
}()

var installCompletion, uninstallCompletion bool

func validateRunCompletionFlags(cmd *cobra.Command, _ []string) error {
	// Ensure that the install completion flags are not ever used with any
	// other flags.
	flags := cmd.Flags()
	installCompletionMode := false
	otherFlags := false
	flags.Visit(func(flg *flag.Flag) {
		switch flg.Name {
		case "installcompletion", "uninstallcompletion":
			installCompletionMode = true
		default:
			otherFlags = true
		}
	})
	if installCompletionMode && otherFlags {
		return fmt.Errorf("--installcompletion and --uninstallcompletion " +
			"may not be used with any other flags")
	}
	return nil
}

func runCompletion(cmd *cobra.Command, _ []string) {
	switch {
	case installCompletion:
		if err := installCmpl(); err != nil {
			errLog.Fatal(err)
		}
	case uninstallCompletion:
		if err := uninstallCmpl(); err != nil {
			errLog.Fatal(err)
		}
	default:
		cmd.Help()
	}
}

// initFlags loads the .env file and the config file, then sets every
// persistent flag that was not given on the command line from them.
func initFlags(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf(".env: %w", err)
	}
	if err := initConfig(); err != nil {
		return err
	}

	var err error
	cmd.Flags().VisitAll(func(flg *flag.Flag) {
		if err != nil || flg.Changed || !viper.IsSet(flg.Name) {
			return
		}
		if err = flg.Value.Set(viper.GetString(flg.Name)); err != nil {
			err = fmt.Errorf("--%v: %w", flg.Name, err)
		}
	})
	if err != nil {
		return err
	}

	if KeystorePath, err = homedir.Expand(KeystorePath); err != nil {
		return fmt.Errorf("--keystore: %w", err)
	}
	if Verbose || Debug {
		vrbLog.SetOutput(os.Stderr)
	}
	CanarydClient.Timeout = Timeout
	CanarydClient.DebugRequest = Debug
	return nil
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			return err
		}

		// Search config in home directory with name ".canary-cli" (without
		// extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".canary-cli")
	}

	viper.SetEnvPrefix("CANARY")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
	for name, env := range envNames {
		if err := viper.BindEnv(name, env); err != nil {
			return err
		}
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		vrbLog.Println("Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		return err
	}
	return nil
}

// newClient returns a fullnode client configured by the API flags.
func newClient() *sui.Client {
	c := sui.NewClient(Network)
	c.Timeout = Timeout
	c.DebugRequest = Debug
	return c
}

// loadKeystoreFile loads --keystore, if it exists. Only keys from the file
// are included, so it is safe to Save.
func loadKeystoreFile() (*sui.Keystore, error) {
	ks, err := sui.LoadKeystoreFile(KeystorePath)
	if errors.Is(err, fs.ErrNotExist) {
		return sui.NewKeystore(), nil
	}
	return ks, err
}

// loadKeystore loads --keystore, if it exists, and imports --key. The
// result must never be saved, --key stays in memory.
func loadKeystore() (*sui.Keystore, error) {
	ks, err := loadKeystoreFile()
	if err != nil {
		return nil, err
	}
	if !Key.IsZero() {
		ks.Import(Key)
	}
	return ks, nil
}

// newSession returns a Session for the signer flags.
func newSession() (*canary.Session, error) {
	ks, err := loadKeystore()
	if err != nil {
		return nil, err
	}
	sender := Sender
	if sender.IsZero() {
		switch adrs := ks.Addresses(); {
		case !Key.IsZero():
			sender = Key.Address()
		case len(adrs) > 0:
			sender = adrs[0]
		default:
			return nil, fmt.Errorf("no keys: use --key or --keystore")
		}
	}
	s, err := canary.NewSession(newClient(), ks, sender)
	if err != nil {
		return nil, err
	}
	s.GasPrice = GasPrice
	s.GasBudget = GasBudget
	s.GasObject = GasObject
	vrbLog.Printf("Signing as %v on %v", s.Sender, Network)
	return s, nil
}

func validateRegistryFlag(cmd *cobra.Command, _ []string) error {
	if RegistryID.IsZero() {
		return fmt.Errorf("--registry is required")
	}
	return nil
}
