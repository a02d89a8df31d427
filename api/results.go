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
	"time"

	"github.com/canary-registry/canaryd/canary"
	"github.com/canary-registry/canaryd/sui"
)

const APIVersion = "1"

type ResultDeriveCanaryAddress struct {
	Address sui.Address `json:"address"`
}

// ResultGetStatus is the state of the daemon's last successful poll. Polls is
// zero until the first poll succeeds.
type ResultGetStatus struct {
	Polls    uint64               `json:"polls"`
	PolledAt *time.Time           `json:"polled_at,omitempty"`
	Registry *canary.RegistryInfo `json:"registry,omitempty"`

	Members    []canary.MemberInfoWithAddress `json:"members"`
	NotMembers []sui.Address                  `json:"not_members"`

	Blobs        []canary.CanaryBlobInfo `json:"blobs"`
	MissingBlobs []sui.ObjectID          `json:"missing_blobs"`
}

type ResultGetDaemonProperties struct {
	CanarydVersion string       `json:"canarydversion"`
	APIVersion     string       `json:"apiversion"`
	Network        sui.Network  `json:"network"`
	RegistryID     sui.ObjectID `json:"registry_id"`
}
