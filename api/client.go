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

package api

import (
	"context"
	"fmt"
	"time"

	jrpc "github.com/AdamSLevy/jsonrpc2/v14"

	"github.com/canary-registry/canaryd/canary"
	"github.com/canary-registry/canaryd/sui"
)

// Client makes RPC requests to canaryd's APIs. Client embeds a
// jsonrpc2.Client, and thus also the http.Client. Use jsonrpc2.Client's
// BasicAuth settings to set up BasicAuth and http.Client's transport settings
// to configure TLS.
type Client struct {
	CanarydServer string
	jrpc.Client
}

// Defaults for the canaryd endpoint.
const (
	CanarydDefault = "http://localhost:8079"
)

// NewClient returns a pointer to a Client initialized with the default
// localhost endpoint and a 15 second timeout.
func NewClient() *Client {
	c := &Client{CanarydServer: CanarydDefault}
	c.Timeout = 15 * time.Second
	return c
}

// Request makes a request to canaryd's v1 API.
func (c *Client) Request(ctx context.Context,
	method string, params, result interface{}) error {

	if c.DebugRequest {
		fmt.Println("canaryd:", c.CanarydServer)
	}
	return c.Client.Request(ctx, c.CanarydServer, method, params, result)
}

func (c *Client) GetRegistry(ctx context.Context,
	registryID *sui.ObjectID) (canary.RegistryInfo, error) {
	var info canary.RegistryInfo
	err := c.Request(ctx, "get-registry",
		ParamsRegistry{RegistryID: registryID}, &info)
	return info, err
}

func (c *Client) GetMember(ctx context.Context,
	registryID *sui.ObjectID, member sui.Address) (canary.MemberInfoWithAddress, error) {
	var info canary.MemberInfoWithAddress
	err := c.Request(ctx, "get-member", ParamsGetMember{
		ParamsRegistry: ParamsRegistry{RegistryID: registryID},
		Member:         &member,
	}, &info)
	return info, err
}

func (c *Client) GetCanaryBlob(ctx context.Context,
	blobID sui.ObjectID) (canary.CanaryBlobInfo, error) {
	var info canary.CanaryBlobInfo
	err := c.Request(ctx, "get-canary-blob",
		ParamsGetCanaryBlob{BlobID: &blobID}, &info)
	return info, err
}

func (c *Client) DeriveCanaryAddress(ctx context.Context, registryID *sui.ObjectID,
	domain string, packageID sui.ObjectID) (sui.Address, error) {
	var res ResultDeriveCanaryAddress
	err := c.Request(ctx, "derive-canary-address", ParamsDeriveCanaryAddress{
		ParamsRegistry: ParamsRegistry{RegistryID: registryID},
		Domain:         domain,
		PackageID:      &packageID,
	}, &res)
	return res.Address, err
}

func (c *Client) GetStatus(ctx context.Context) (ResultGetStatus, error) {
	var res ResultGetStatus
	err := c.Request(ctx, "get-status", nil, &res)
	return res, err
}

func (c *Client) GetDaemonProperties(ctx context.Context) (ResultGetDaemonProperties, error) {
	var res ResultGetDaemonProperties
	err := c.Request(ctx, "get-daemon-properties", nil, &res)
	return res, err
}
