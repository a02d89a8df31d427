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

package sui

import (
	"context"
	"fmt"
	"time"

	jrpc "github.com/AdamSLevy/jsonrpc2/v14"
	"golang.org/x/time/rate"
)

// Client makes requests to a Sui fullnode's JSON-RPC API. Client embeds a
// jsonrpc2.Client, and thus also an http.Client. Use jsonrpc2.Client's
// BasicAuth settings to set up BasicAuth and http.Client's transport settings
// to configure TLS.
type Client struct {
	jrpc.Client
	URL string

	// Limiter, if not nil, is waited on before every request. Public
	// fullnodes rate limit clients.
	Limiter *rate.Limiter
}

// DefaultTimeout of the http.Client.
const DefaultTimeout = 20 * time.Second

// NewClient returns a pointer to a Client for the given network with the
// default timeout.
func NewClient(network Network) *Client {
	c := &Client{URL: network.URL()}
	c.Timeout = DefaultTimeout
	return c
}

// Request makes a request to the fullnode. A jsonrpc2.Error is returned
// unchanged when the fullnode responds with an error. All other failures are
// wrapped with ErrNetwork.
//
// When DebugRequest is set the embedded jsonrpc2.Client prints each request
// and response.
func (c *Client) Request(ctx context.Context,
	method string, params, result interface{}) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	return c.request(ctx, method, params, result)
}

// wait returns ErrNetwork if ctx is done or the Limiter refuses ctx. Nothing
// has been sent to the fullnode when wait fails.
func (c *Client) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %w", ErrNetwork, err)
		}
	}
	return nil
}

func (c *Client) request(ctx context.Context,
	method string, params, result interface{}) error {
	err := c.Client.Request(ctx, c.URL, method, params, result)
	if err == nil {
		return nil
	}
	if _, ok := err.(jrpc.Error); ok {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrNetwork, method, err)
}
