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

	"github.com/canary-registry/canaryd/sui/bcs"
)

// InspectSender is the sender of dev-inspect simulations. It holds no funds
// and no signature is needed.
var InspectSender = MustParseAddress("0x1")

type QueryState uint8

const (
	Unbuilt QueryState = iota
	Built
	Executed
	Decoded
)

func (s QueryState) String() string {
	switch s {
	case Unbuilt:
		return "unbuilt"
	case Built:
		return "built"
	case Executed:
		return "executed"
	case Decoded:
		return "decoded"
	}
	return fmt.Sprintf("QueryState(%d)", uint8(s))
}

// Query calls a Move view function in a dev-inspect simulation, which never
// mutates state, costs nothing and needs no signature. Its steps must be
// called in order: Build, Execute, Decode.
type Query struct {
	client *Client
	target MoveTarget
	args   []Input

	state  QueryState
	kind   []byte
	values []ReturnValue
}

// NewQuery returns an Unbuilt Query of target with args.
func NewQuery(c *Client, target MoveTarget, args ...CallArg) *Query {
	q := &Query{client: c, target: target, args: make([]Input, len(args))}
	for i, arg := range args {
		q.args[i] = arg
	}
	return q
}

func (q *Query) State() QueryState {
	return q.state
}

func (q *Query) expect(s QueryState) error {
	if q.state != s {
		return fmt.Errorf("%w: %v: expected %v", ErrQueryState, q.state, s)
	}
	return nil
}

// Build validates and encodes the call.
func (q *Query) Build() error {
	if err := q.expect(Unbuilt); err != nil {
		return err
	}
	if err := q.target.Validate(); err != nil {
		return err
	}
	pt, err := assemble(Simulate, []operation{moveCallOp{target: q.target, args: q.args}})
	if err != nil {
		return err
	}
	q.kind = pt.KindBytes()
	q.state = Built
	return nil
}

// Execute runs the simulation and keeps the return values of the call. On a
// network error the Query stays Built and Execute may be called again.
func (q *Query) Execute(ctx context.Context) error {
	if err := q.expect(Built); err != nil {
		return err
	}
	res, err := q.client.DevInspectTransaction(ctx, InspectSender, q.kind,
		0, PlaceholderGasBudget)
	if err != nil {
		return err
	}
	if res.Error != "" {
		return fmt.Errorf("%w: %v: %v", ErrExecution, q.target, res.Error)
	}
	if res.Effects.Status.Status != "" && !res.Effects.Status.Success() {
		return fmt.Errorf("%w: %v: %v", ErrExecution, q.target,
			res.Effects.Status.Error)
	}
	if len(res.Results) == 0 {
		return fmt.Errorf("%w: %v: no results", ErrDecode, q.target)
	}
	q.values = res.Results[len(res.Results)-1].ReturnValues
	q.state = Executed
	return nil
}

// Decode returns the return values, which must number exactly arity.
func (q *Query) Decode(arity int) (Returns, error) {
	if err := q.expect(Executed); err != nil {
		return nil, err
	}
	if len(q.values) != arity {
		return nil, fmt.Errorf("%w: %v: expected %v return values, got %v",
			ErrDecode, q.target, arity, len(q.values))
	}
	q.state = Decoded
	return Returns(q.values), nil
}

// Inspect runs a new Query of target through all steps.
func (c *Client) Inspect(ctx context.Context, target MoveTarget, arity int,
	args ...CallArg) (Returns, error) {
	q := NewQuery(c, target, args...)
	if err := q.Build(); err != nil {
		return nil, err
	}
	if err := q.Execute(ctx); err != nil {
		return nil, err
	}
	return q.Decode(arity)
}

// Returns are the positional return values of a view function. The caller
// must know the type of each position.
type Returns []ReturnValue

func (r Returns) get(i int) ([]byte, error) {
	if i < 0 || i >= len(r) {
		return nil, fmt.Errorf("%w: return value %v out of range", ErrDecode, i)
	}
	return r[i].Bytes, nil
}

// Address decodes position i as an address or ID.
func (r Returns) Address(i int) (Address, error) {
	b, err := r.get(i)
	if err != nil {
		return Address{}, err
	}
	return DecodeAddress(b)
}

// String decodes position i as a Move String.
func (r Returns) String(i int) (string, error) {
	b, err := r.get(i)
	if err != nil {
		return "", err
	}
	return bcs.DecodeString(b)
}

func (r Returns) U64(i int) (uint64, error) {
	b, err := r.get(i)
	if err != nil {
		return 0, err
	}
	return bcs.DecodeU64(b)
}

func (r Returns) Bool(i int) (bool, error) {
	b, err := r.get(i)
	if err != nil {
		return false, err
	}
	return bcs.DecodeBool(b)
}

// Bytes returns the raw BCS bytes at position i.
func (r Returns) Bytes(i int) ([]byte, error) {
	return r.get(i)
}
