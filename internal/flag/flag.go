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

// Package flag parses the canaryd configuration from command line flags,
// CANARY_ environment variables and an optional .env file.
package flag

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/canary-registry/canaryd/sui"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/posener/complete"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var Revision string

// Environment variable name prefix
const envNamePrefix = "CANARY_"

// TaskIntervalSecondsEnv is honored for the polling interval when neither
// -interval nor CANARY_TASK_INTERVAL is set.
const TaskIntervalSecondsEnv = "TASK_INTERVAL_SECONDS"

var (
	envNames = map[string]string{
		"network":    "NETWORK",
		"rpctimeout": "RPC_TIMEOUT",
		"rpcrate":    "RPC_RATE",

		"interval": "TASK_INTERVAL",
		"registry": "REGISTRY_ID",
		"watch":    "WATCH_BLOBS",

		"key":      "PRIVATE_KEY",
		"keystore": "KEYSTORE",

		"apiaddress": "API_ADDRESS",
		"debug":      "DEBUG",
		"envfile":    "ENV_FILE",
	}
	defaults = map[string]interface{}{
		"network":    sui.Devnet,
		"rpctimeout": sui.DefaultTimeout,
		"rpcrate":    10.0,

		"interval": time.Hour,
		"keystore": "~/.sui/sui_config/sui.keystore",

		"apiaddress": ":8079",
		"debug":      false,
		"envfile":    ".env",
	}
	descriptions = map[string]string{
		"network":    "Fullnode to use: localnet, devnet, testnet, mainnet or an http(s) URL",
		"rpctimeout": "Timeout for fullnode requests",
		"rpcrate":    "Maximum fullnode requests per second, 0 disables the limit",

		"interval": "Time between polls of the registry and watched blobs, also " +
			TaskIntervalSecondsEnv + " in seconds",
		"registry": "Object ID of the member registry to monitor",
		"watch":    "Comma separated canary blob object IDs to monitor",

		"key":      "Private key, suiprivkey..., whose membership is monitored",
		"keystore": "Path to a sui CLI keystore whose addresses' memberships are monitored",

		"apiaddress": "IP address and port to listen on for API calls",
		"debug":      "Log debug messages",
		"envfile":    "Path to a .env file loaded before reading environment variables",
	}

	flags = complete.Flags{
		"-network":    complete.PredictSet("localnet", "devnet", "testnet", "mainnet", "https://"),
		"-rpctimeout": complete.PredictAnything,
		"-rpcrate":    complete.PredictAnything,

		"-interval": complete.PredictAnything,
		"-registry": complete.PredictAnything,
		"-watch":    complete.PredictAnything,

		"-key":      complete.PredictNothing,
		"-keystore": complete.PredictFiles("*.keystore"),

		"-apiaddress": complete.PredictAnything,
		"-debug":      complete.PredictNothing,
		"-envfile":    complete.PredictFiles("*"),

		"-installcompletion":   complete.PredictNothing,
		"-uninstallcompletion": complete.PredictNothing,
	}

	Network    = defaults["network"].(sui.Network)
	RPCTimeout time.Duration
	RPCRate    float64

	TaskInterval time.Duration
	RegistryID   sui.ObjectID
	WatchBlobs   AddressList

	PrivateKey   sui.PrivateKey
	KeystorePath string

	APIAddress string
	LogDebug   bool
	EnvFile    string

	flagset    map[string]bool
	log        *logrus.Entry
	Completion *complete.Complete
)

func init() {
	flagVar(&Network, "network")
	flagVar(&RPCTimeout, "rpctimeout")
	flagVar(&RPCRate, "rpcrate")

	flagVar(&TaskInterval, "interval")
	flagVar(&RegistryID, "registry")
	flagVar(&WatchBlobs, "watch")

	flagVar(&PrivateKey, "key")
	flagVar(&KeystorePath, "keystore")

	flagVar(&APIAddress, "apiaddress")
	flagVar(&LogDebug, "debug")
	flagVar(&EnvFile, "envfile")

	// Add flags for self installing the CLI completion tool
	Completion = complete.New(os.Args[0], complete.Command{Flags: flags})
	Completion.CLI.InstallName = "installcompletion"
	Completion.CLI.UninstallName = "uninstallcompletion"
	Completion.AddFlags(nil)
}

func Parse() {
	flag.Parse()
	flagset = make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { flagset[f.Name] = true })

	loadFromEnv(&EnvFile, "envfile")
	envErr := loadEnvFile(EnvFile)

	// -debug must be known before the logger is set up.
	loadFromEnv(&LogDebug, "debug")
	setupLogger()
	if envErr != nil {
		log.Warnf("-envfile %q: %v", EnvFile, envErr)
	}

	// Load options from environment variables if they haven't been
	// specified on the command line.
	loadFromEnv(&Network, "network")
	loadFromEnv(&RPCTimeout, "rpctimeout")
	loadFromEnv(&RPCRate, "rpcrate")

	loadTaskInterval()
	loadFromEnv(&RegistryID, "registry")
	loadFromEnv(&WatchBlobs, "watch")

	loadFromEnv(&PrivateKey, "key")
	loadFromEnv(&KeystorePath, "keystore")

	loadFromEnv(&APIAddress, "apiaddress")
}

// loadEnvFile loads path into the environment without overriding variables
// that are already set. A missing default file is not an error.
func loadEnvFile(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) && !flagset["envfile"] &&
		len(os.Getenv(envName("envfile"))) == 0 {
		return nil
	}
	return err
}

func loadTaskInterval() {
	if flagset["interval"] {
		return
	}
	if _, ok := os.LookupEnv(envName("interval")); ok {
		loadFromEnv(&TaskInterval, "interval")
		return
	}
	eVar := os.Getenv(TaskIntervalSecondsEnv)
	if len(eVar) == 0 {
		return
	}
	secs, err := strconv.ParseUint(eVar, 10, 32)
	if err != nil {
		log.Fatalf("Environment Variable %v: "+
			"strconv.ParseUint(\"%v\", 10, 32): %v",
			TaskIntervalSecondsEnv, eVar, err)
	}
	TaskInterval = time.Duration(secs) * time.Second
}

func Validate() {
	// Redact private data from debug output.
	key := `""`
	if !PrivateKey.IsZero() {
		key = "<redacted>"
	}

	log.Debugf("-network    %v", Network)
	log.Debugf("-rpctimeout %v", RPCTimeout)
	log.Debugf("-rpcrate    %v", RPCRate)
	debugPrintln()

	log.Debugf("-interval %v", TaskInterval)
	log.Debugf("-registry %v", RegistryID)
	log.Debugf("-watch    %q", WatchBlobs.String())
	debugPrintln()

	log.Debugf("-key      %v", key)
	log.Debugf("-keystore %#v", KeystorePath)
	debugPrintln()

	log.Debugf("-apiaddress %#v", APIAddress)
	debugPrintln()

	if RegistryID.IsZero() {
		log.Fatal("-registry is required")
	}
	if TaskInterval <= 0 {
		log.Fatalf("-interval %v: must be positive", TaskInterval)
	}
	if RPCRate < 0 {
		log.Fatalf("-rpcrate %v: must not be negative", RPCRate)
	}

	var err error
	KeystorePath, err = homedir.Expand(KeystorePath)
	if err != nil {
		log.Fatalf("-keystore %v: %v", KeystorePath, err)
	}
}

// Client returns a fullnode client configured by -network, -rpctimeout and
// -rpcrate.
func Client() *sui.Client {
	c := sui.NewClient(Network)
	c.Timeout = RPCTimeout
	if RPCRate > 0 {
		c.Limiter = rate.NewLimiter(rate.Limit(RPCRate), 1)
	}
	c.DebugRequest = LogDebug
	return c
}

// Keystore loads -keystore, if it exists, and imports -key.
func Keystore() (*sui.Keystore, error) {
	ks, err := sui.LoadKeystoreFile(KeystorePath)
	if errors.Is(err, fs.ErrNotExist) {
		ks, err = sui.NewKeystore(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("-keystore: %w", err)
	}
	if !PrivateKey.IsZero() {
		ks.Import(PrivateKey)
	}
	return ks, nil
}

func flagVar(v interface{}, name string) {
	dflt := defaults[name]
	desc := description(name)
	switch v := v.(type) {
	case *string:
		flag.StringVar(v, name, dflt.(string), desc)
	case *time.Duration:
		flag.DurationVar(v, name, dflt.(time.Duration), desc)
	case *float64:
		flag.Float64Var(v, name, dflt.(float64), desc)
	case *bool:
		flag.BoolVar(v, name, dflt.(bool), desc)
	case flag.Value:
		flag.Var(v, name, desc)
	}
}

func loadFromEnv(v interface{}, flagName string) {
	if flagset[flagName] {
		return
	}
	eName := envName(flagName)
	eVar, ok := os.LookupEnv(eName)
	if len(eVar) > 0 {
		switch v := v.(type) {
		case flag.Value:
			if err := v.Set(eVar); err != nil {
				log.Fatalf("Environment Variable %v: %v", eName, err)
			}
		case *string:
			*v = eVar
		case *time.Duration:
			duration, err := time.ParseDuration(eVar)
			if err != nil {
				log.Fatalf("Environment Variable %v: "+
					"time.ParseDuration(\"%v\"): %v",
					eName, eVar, err)
			}
			*v = duration
		case *float64:
			val, err := strconv.ParseFloat(eVar, 64)
			if err != nil {
				log.Fatalf("Environment Variable %v: "+
					"strconv.ParseFloat(\"%v\", 64): %v",
					eName, eVar, err)
			}
			*v = val
		case *bool:
			if ok {
				val, err := strconv.ParseBool(eVar)
				*v = err != nil || val
			}
		}
	}
}

func debugPrintln() {
	if LogDebug {
		fmt.Println()
	}
}

func envName(flagName string) string {
	return envNamePrefix + envNames[flagName]
}
func description(flagName string) string {
	return fmt.Sprintf("%s\nEnvironment variable: %v",
		descriptions[flagName], envName(flagName))
}

func setupLogger() {
	_log := logrus.New()
	_log.Formatter = &logrus.TextFormatter{ForceColors: true,
		DisableTimestamp:       true,
		DisableLevelTruncation: true}
	if LogDebug {
		_log.SetLevel(logrus.DebugLevel)
	}
	log = _log.WithField("pkg", "flag")
}
