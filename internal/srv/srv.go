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

// Package srv serves the read-only canaryd JSON-RPC 2.0 API and the engine's
// Prometheus metrics.
package srv

import (
	"context"
	"net/http"
	"time"

	jrpc "github.com/AdamSLevy/jsonrpc2/v14"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/canary-registry/canaryd/api"
	"github.com/canary-registry/canaryd/internal/engine"
	"github.com/canary-registry/canaryd/internal/flag"
	_log "github.com/canary-registry/canaryd/internal/log"
	"github.com/canary-registry/canaryd/sui"
)

var (
	log _log.Log
	srv http.Server
)

// Handler returns the API handler. Requests that omit a registry use
// registryID.
func Handler(c *sui.Client, e *engine.Engine, registryID sui.ObjectID) http.Handler {
	if log.Entry == nil {
		log = _log.New("srv")
	}
	m := methods{c: c, e: e, registryID: registryID}
	jrpcHandler := jrpc.HTTPRequestHandler(m.methodMap(), log)
	var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add(http.CanonicalHeaderKey("Canaryd-Version"), flag.Revision)
		w.Header().Add(http.CanonicalHeaderKey("Canaryd-Api-Version"), api.APIVersion)
		jrpcHandler(w, r)
	}

	// Set up server
	srvMux := http.NewServeMux()
	srvMux.Handle("/", handler)
	srvMux.Handle("/v1", handler)
	srvMux.Handle("/metrics", promhttp.HandlerFor(e.Gatherer(), promhttp.HandlerOpts{}))

	cors := cors.New(cors.Options{AllowedOrigins: []string{"*"}})
	return cors.Handler(srvMux)
}

// Start serves the API on -apiaddress in a new goroutine.
func Start(c *sui.Client, e *engine.Engine) {
	log = _log.New("srv")
	srv = http.Server{Handler: Handler(c, e, flag.RegistryID)}
	srv.Addr = flag.APIAddress
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Errorf("srv.ListenAndServe(): %v", err)
		}
	}()
	log.Infof("Listening on %v...", flag.APIAddress)
}

func Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
