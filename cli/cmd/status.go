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
	"fmt"

	"github.com/posener/complete"
	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		DisableFlagsInUseLine: true,
		Use:                   "status",
		Short:                 "Get the state observed by canaryd",
		Long: `
Get the registry, member and canary blob state from the last poll of the
canaryd daemon at --canaryd.
`[1:],
		Args: cobra.ExactArgs(0),
		Run:  status,
	}
	rootCmd.AddCommand(cmd)
	rootCmplCmd.Sub["status"] = complete.Command{Flags: apiCmplFlags}
	rootCmplCmd.Sub["help"].Sub["status"] = complete.Command{}
	return cmd
}()

func status(_ *cobra.Command, _ []string) {
	ctx := context.Background()
	vrbLog.Printf("Fetching status from %v...", CanarydClient.CanarydServer)
	props, err := CanarydClient.GetDaemonProperties(ctx)
	if err != nil {
		errLog.Fatal(err)
	}
	vrbLog.Printf("canaryd %v, API v%v, %v", props.CanarydVersion,
		props.APIVersion, props.Network)
	status, err := CanarydClient.GetStatus(ctx)
	if err != nil {
		errLog.Fatal(err)
	}
	if status.Polls == 0 {
		fmt.Println("canaryd has not completed a poll yet")
		return
	}
	printJSON(status)
}

// versionCmd represents the version command
var versionCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the canary-cli version",
		Args:  cobra.ExactArgs(0),
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println("canary-cli:", Revision)
		},
	}
	rootCmd.AddCommand(cmd)
	rootCmplCmd.Sub["version"] = complete.Command{}
	return cmd
}()
