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

package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/canary-registry/canaryd/canary"
	"github.com/canary-registry/canaryd/sui"
)

// State is the result of a successful poll. A nil member is not registered
// and a nil blob does not exist.
type State struct {
	Registry canary.RegistryInfo
	Members  map[sui.Address]*canary.MemberInfo
	Blobs    map[sui.ObjectID]*canary.CanaryBlobInfo
	PolledAt time.Time
	Polls    uint64
}

type Kind string

const (
	RegistryChange Kind = "registry"
	MemberChange   Kind = "member"
	BlobChange     Kind = "blob"
)

// Change is a difference between two consecutive polls.
type Change struct {
	Kind    Kind        `json:"kind"`
	ID      sui.Address `json:"id"`
	Message string      `json:"message"`
}

// Diff returns the changes from prev to next, registry changes first, then
// members and blobs each sorted by ID.
func Diff(prev, next State) []Change {
	var changes []Change
	add := func(kind Kind, id sui.Address, format string, args ...interface{}) {
		changes = append(changes, Change{Kind: kind, ID: id,
			Message: fmt.Sprintf(format, args...)})
	}

	p, n := prev.Registry, next.Registry
	if p.Fee != n.Fee {
		add(RegistryChange, n.ID, "fee changed from %v to %v MIST", p.Fee, n.Fee)
	}
	if p.MemberCount != n.MemberCount {
		add(RegistryChange, n.ID, "member count changed from %v to %v",
			p.MemberCount, n.MemberCount)
	}
	if p.Admin != n.Admin {
		add(RegistryChange, n.ID, "admin changed from %v to %v", p.Admin, n.Admin)
	}

	for _, adr := range sortedKeys(next.Members) {
		p, seen := prev.Members[adr]
		n := next.Members[adr]
		switch {
		case !seen:
		case p == nil && n != nil:
			add(MemberChange, adr, "joined as %q", n.Domain)
		case p != nil && n == nil:
			add(MemberChange, adr, "left, was %q", p.Domain)
		case p != nil && *p != *n:
			if p.Domain != n.Domain {
				add(MemberChange, adr, "domain changed from %q to %q",
					p.Domain, n.Domain)
			}
			if p.JoinedAt != n.JoinedAt {
				add(MemberChange, adr, "rejoined at %v",
					time.UnixMilli(int64(n.JoinedAt)).UTC())
			}
		}
	}

	for _, id := range sortedKeys(next.Blobs) {
		p, seen := prev.Blobs[id]
		n := next.Blobs[id]
		switch {
		case !seen:
		case p == nil && n != nil:
			add(BlobChange, id, "created for %q", n.Domain)
		case p != nil && n == nil:
			add(BlobChange, id, "deleted, was for %q", p.Domain)
		case p != nil && *p != *n:
			if p.ContractBlobID != n.ContractBlobID {
				add(BlobChange, id, "contract blob changed from %v to %v",
					p.ContractBlobID, n.ContractBlobID)
			}
			if p.ExplainBlobID != n.ExplainBlobID {
				add(BlobChange, id, "explain blob changed from %v to %v",
					p.ExplainBlobID, n.ExplainBlobID)
			}
			if p.UploadedAt != n.UploadedAt {
				add(BlobChange, id, "uploaded at %v by %v",
					time.UnixMilli(int64(n.UploadedAt)).UTC(),
					n.UploadedByAdmin)
			}
		}
	}
	return changes
}

func sortedKeys[V any](m map[sui.Address]V) []sui.Address {
	keys := make([]sui.Address, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}
