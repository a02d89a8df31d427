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

// Package engine polls a member registry, a set of members and a set of
// canary blobs, and reports every change it observes.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/canary-registry/canaryd/canary"
	"github.com/canary-registry/canaryd/internal/flag"
	_log "github.com/canary-registry/canaryd/internal/log"
	"github.com/canary-registry/canaryd/sui"
)

func runIfNotDone(ctx context.Context, f func()) {
	select {
	case <-ctx.Done():
	default:
		f()
	}
}

// Engine polls the ledger every Interval. The zero value is not usable, use
// New.
type Engine struct {
	Client     *sui.Client
	RegistryID sui.ObjectID
	Members    []sui.Address
	Blobs      []sui.ObjectID
	Interval   time.Duration

	// Changes, if not nil, receives every observed change. Sends block
	// the polling loop.
	Changes chan<- Change

	log     _log.Log
	metrics *metrics

	mu    sync.RWMutex
	state State
}

// New returns an Engine for registryID. Members and blobs are deduplicated
// by the caller.
func New(c *sui.Client, registryID sui.ObjectID,
	members []sui.Address, blobs []sui.ObjectID, interval time.Duration) *Engine {
	return &Engine{
		Client:     c,
		RegistryID: registryID,
		Members:    members,
		Blobs:      blobs,
		Interval:   interval,
		log:        _log.New("engine"),
		metrics:    newMetrics(),
	}
}

// NewFromFlags returns an Engine configured by the parsed command line.
func NewFromFlags(ks *sui.Keystore) *Engine {
	return New(flag.Client(), flag.RegistryID, ks.Addresses(),
		flag.WatchBlobs, flag.TaskInterval)
}

// Start polls immediately and then on every tick of e.Interval until ctx is
// done. The returned channel is closed once the polling goroutine exits.
// Poll errors are logged and the next tick is awaited.
//
// Start returns nil without polling if e.Interval is not positive.
func (e *Engine) Start(ctx context.Context) <-chan struct{} {
	if e.Interval <= 0 {
		e.log.Errorf("invalid interval: %v", e.Interval)
		return nil
	}
	done := make(chan struct{})
	go e.engine(ctx, done)
	return done
}

func (e *Engine) engine(ctx context.Context, done chan struct{}) {
	defer close(done)

	e.log.Infof("Monitoring registry %v, %v member(s) and %v blob(s) every %v...",
		e.RegistryID, len(e.Members), len(e.Blobs), e.Interval)

	ticker := time.NewTicker(e.Interval)
	defer ticker.Stop()
	for {
		if err := e.Poll(ctx); err != nil {
			runIfNotDone(ctx, func() {
				e.log.Errorf("poll: %v", err)
			})
		}

		// Wait until the next tick or we're told to stop.
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

// Poll reads the registry, the watched members and the watched blobs
// concurrently. On success the new State replaces the old one and every
// difference is reported. On failure the State is left unchanged.
func (e *Engine) Poll(ctx context.Context) error {
	start := time.Now()
	defer func() { e.metrics.pollDuration.Observe(time.Since(start).Seconds()) }()
	e.metrics.polls.Inc()

	next, err := e.fetch(ctx)
	if err != nil {
		e.metrics.pollErrors.Inc()
		return err
	}
	next.PolledAt = start

	e.mu.Lock()
	prev := e.state
	next.Polls = prev.Polls + 1
	e.state = next
	e.mu.Unlock()

	e.metrics.observe(next)
	if prev.Polls == 0 {
		e.log.Infof("Registry %v: fee %v MIST, %v member(s), admin %v",
			next.Registry.ID, next.Registry.Fee,
			next.Registry.MemberCount, next.Registry.Admin)
		return nil
	}
	for _, change := range Diff(prev, next) {
		e.metrics.changes.WithLabelValues(string(change.Kind)).Inc()
		e.log.WithField("id", change.ID).Info(change.Message)
		if e.Changes != nil {
			select {
			case e.Changes <- change:
			case <-ctx.Done():
				return nil
			}
		}
	}
	return nil
}

func (e *Engine) fetch(ctx context.Context) (State, error) {
	next := State{
		Members: make(map[sui.Address]*canary.MemberInfo, len(e.Members)),
		Blobs:   make(map[sui.ObjectID]*canary.CanaryBlobInfo, len(e.Blobs)),
	}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		info, err := canary.QueryRegistry(gctx, e.Client, e.RegistryID)
		if err != nil {
			return fmt.Errorf("registry %v: %w", e.RegistryID, err)
		}
		next.Registry = info
		return nil
	})
	for _, member := range e.Members {
		member := member
		g.Go(func() error {
			info, err := canary.QueryMember(gctx, e.Client, e.RegistryID, member)
			if err != nil {
				return fmt.Errorf("member %v: %w", member, err)
			}
			mu.Lock()
			defer mu.Unlock()
			next.Members[member] = info
			return nil
		})
	}
	for _, id := range e.Blobs {
		id := id
		g.Go(func() error {
			info, err := canary.QueryCanaryBlob(gctx, e.Client, id)
			if errors.Is(err, canary.ErrBlobNotFound) {
				mu.Lock()
				defer mu.Unlock()
				next.Blobs[id] = nil
				return nil
			}
			if err != nil {
				return fmt.Errorf("blob %v: %w", id, err)
			}
			mu.Lock()
			defer mu.Unlock()
			next.Blobs[id] = &info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return State{}, err
	}
	return next, nil
}

// State returns the result of the last successful poll. The maps of the
// returned State must not be modified.
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}
