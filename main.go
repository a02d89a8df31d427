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

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/canary-registry/canaryd/internal/engine"
	"github.com/canary-registry/canaryd/internal/flag"
	"github.com/canary-registry/canaryd/internal/log"
	"github.com/canary-registry/canaryd/internal/srv"
)

func main() { os.Exit(_main()) }
func _main() (ret int) {
	// Completion uses some flags, so parse them first thing.
	flag.Parse()
	if flag.Completion.Complete() {
		// Invoked for the purposes of completion, so don't actually
		// run the daemon.
		return 0
	}
	flag.Validate()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt)
	go func() {
		if _, ok := <-sigint; ok {
			cancel()
		}
	}()

	log := log.New("main")
	log.Info("Canaryd Version: ", flag.Revision)
	defer log.Info("Canary Registry Daemon stopped.")

	ks, err := flag.Keystore()
	if err != nil {
		log.Errorf("flag.Keystore(): %v", err)
		return 1
	}

	// Engine
	e := engine.NewFromFlags(ks)
	engineDone := e.Start(ctx)
	if engineDone == nil {
		return 1
	}
	defer func() {
		cancel()
		<-engineDone // Wait for engine to stop.
		log.Info("Registry engine stopped.")
	}()
	log.Info("Registry engine started.")

	// Server
	srv.Start(flag.Client(), e)
	defer func() {
		if err := srv.Stop(); err != nil {
			log.Errorf("srv.Stop(): %v", err)
		}
		log.Info("JSON RPC API server stopped.")
	}()
	log.Info("JSON RPC API server started.")

	log.Info("Canary Registry Daemon started.")

	// Stop handling signals once we return.
	defer func() { signal.Reset(); close(sigint) }()

	select {
	case <-ctx.Done():
		log.Infof("SIGINT: Shutting down...")
		return 0
	case <-engineDone: // Closed if engine exits prematurely.
	}
	return 1
}
