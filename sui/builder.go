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
	"math"
)

// PlaceholderGasBudget is the budget used for dry runs and dev-inspects.
const PlaceholderGasBudget = 10_000_000

// Mode selects what an assembled payload is for.
type Mode uint8

const (
	// Submit payloads are funded, signed and executed.
	Submit Mode = iota
	// Simulate payloads are dev-inspected and only their return values
	// are kept. The last operation must be a MoveCall.
	Simulate
)

func (m Mode) String() string {
	if m == Simulate {
		return "simulate"
	}
	return "submit"
}

// MoveTarget names a public Move function.
type MoveTarget struct {
	Package  Address
	Module   string
	Function string
}

func (t MoveTarget) String() string {
	return fmt.Sprintf("%v::%v::%v", t.Package, t.Module, t.Function)
}

// Validate returns ErrBuild if t can not name a function.
func (t MoveTarget) Validate() error {
	if t.Package.IsZero() {
		return fmt.Errorf("%w: empty package", ErrBuild)
	}
	if !ValidIdentifier(t.Module) {
		return fmt.Errorf("%w: invalid module name: %q", ErrBuild, t.Module)
	}
	if !ValidIdentifier(t.Function) {
		return fmt.Errorf("%w: invalid function name: %q", ErrBuild, t.Function)
	}
	return nil
}

// operation is a queued unit of work. Each produces a fixed number of
// commands so that result handles can be assigned when it is queued.
type operation interface {
	apply(b *ptBuilder) error
	commands() int
}

type moveCallOp struct {
	target MoveTarget
	args   []Input
}

func (op moveCallOp) commands() int { return 1 }

func (op moveCallOp) apply(b *ptBuilder) error {
	call := MoveCall{
		Package:   op.target.Package,
		Module:    op.target.Module,
		Function:  op.target.Function,
		Arguments: make([]Argument, 0, len(op.args)),
	}
	for _, in := range op.args {
		arg, err := b.argument(in)
		if err != nil {
			return fmt.Errorf("%v: %w", op.target, err)
		}
		call.Arguments = append(call.Arguments, arg)
	}
	_, err := b.command(call)
	return err
}

type transferSuiOp struct {
	recipient Address
	amount    uint64
}

func (op transferSuiOp) commands() int { return 2 }

func (op transferSuiOp) apply(b *ptBuilder) error {
	recipient, err := b.input(PureAddress(op.recipient))
	if err != nil {
		return err
	}
	amount, err := b.input(PureU64(op.amount))
	if err != nil {
		return err
	}
	coin, err := b.command(SplitCoins{Coin: GasCoin(), Amounts: []Argument{amount}})
	if err != nil {
		return err
	}
	_, err = b.command(TransferObjects{Objects: []Argument{coin}, Recipient: recipient})
	return err
}

type transferObjectsOp struct {
	objects   []Input
	recipient Address
}

func (op transferObjectsOp) commands() int { return 1 }

func (op transferObjectsOp) apply(b *ptBuilder) error {
	objs := make([]Argument, 0, len(op.objects))
	for _, in := range op.objects {
		arg, err := b.argument(in)
		if err != nil {
			return err
		}
		objs = append(objs, arg)
	}
	recipient, err := b.input(PureAddress(op.recipient))
	if err != nil {
		return err
	}
	_, err = b.command(TransferObjects{Objects: objs, Recipient: recipient})
	return err
}

type splitGasOp struct {
	amount uint64
}

func (op splitGasOp) commands() int { return 1 }

func (op splitGasOp) apply(b *ptBuilder) error {
	amount, err := b.input(PureU64(op.amount))
	if err != nil {
		return err
	}
	_, err = b.command(SplitCoins{Coin: GasCoin(), Amounts: []Argument{amount}})
	return err
}

// assemble converts queued operations into a programmable transaction. It is
// the one place where payloads are built for both modes.
func assemble(mode Mode, ops []operation) (ProgrammableTransaction, error) {
	if mode == Simulate {
		if len(ops) == 0 {
			return ProgrammableTransaction{},
				fmt.Errorf("%w: nothing to simulate", ErrBuild)
		}
		if _, ok := ops[len(ops)-1].(moveCallOp); !ok {
			return ProgrammableTransaction{},
				fmt.Errorf("%w: simulation must end with a move call", ErrBuild)
		}
	}
	b := newPTBuilder()
	for _, op := range ops {
		if err := op.apply(b); err != nil {
			return ProgrammableTransaction{}, err
		}
	}
	return b.pt, nil
}

// TransactionBuilder queues operations and finalizes them into a funded
// TransactionData. Every add method validates its arguments immediately.
//
// Build consumes the queue, so a second Build without new operations
// produces a transaction with no commands. It is not safe for concurrent
// use.
type TransactionBuilder struct {
	client *Client
	sender Address

	ops      []operation
	commands int

	gasObject *ObjectID
	gasPrice  uint64
	gasBudget uint64
}

// NewTransactionBuilder returns a TransactionBuilder for transactions sent
// by sender.
func NewTransactionBuilder(c *Client, sender Address) *TransactionBuilder {
	return &TransactionBuilder{client: c, sender: sender}
}

func (b *TransactionBuilder) Sender() Address {
	return b.sender
}

// Len returns the number of queued operations.
func (b *TransactionBuilder) Len() int {
	return len(b.ops)
}

func (b *TransactionBuilder) push(op operation) Argument {
	b.ops = append(b.ops, op)
	b.commands += op.commands()
	return Argument{Kind: ResultArgument, Index: uint16(b.commands - 1)}
}

func (b *TransactionBuilder) checkCommands(n int) error {
	if b.commands+n > math.MaxUint16 {
		return fmt.Errorf("%w: too many commands", ErrBuild)
	}
	return nil
}

func (b *TransactionBuilder) checkInputs(args []Input) error {
	for i, in := range args {
		switch in := in.(type) {
		case CallArg:
			if err := in.validate(); err != nil {
				return fmt.Errorf("argument %v: %w", i, err)
			}
		case Argument:
			if (in.Kind == ResultArgument || in.Kind == NestedResultArgument) &&
				int(in.Index) >= b.commands {
				return fmt.Errorf("%w: argument %v: result %v out of range",
					ErrBuild, i, in.Index)
			}
		case nil:
			return fmt.Errorf("%w: argument %v: nil", ErrBuild, i)
		}
	}
	return nil
}

// MoveCall queues a call of target with args in the order of the function's
// parameters. It returns a handle to the call's result.
func (b *TransactionBuilder) MoveCall(target MoveTarget, args ...Input) (Argument, error) {
	if err := target.Validate(); err != nil {
		return Argument{}, err
	}
	if err := b.checkInputs(args); err != nil {
		return Argument{}, fmt.Errorf("%v: %w", target, err)
	}
	if err := b.checkCommands(1); err != nil {
		return Argument{}, err
	}
	return b.push(moveCallOp{target: target, args: args}), nil
}

// TransferSui queues a transfer of amount MIST, split from the gas coin, to
// recipient.
func (b *TransactionBuilder) TransferSui(recipient Address, amount uint64) error {
	if amount == 0 {
		return fmt.Errorf("%w: zero amount", ErrBuild)
	}
	if err := b.checkCommands(2); err != nil {
		return err
	}
	b.push(transferSuiOp{recipient: recipient, amount: amount})
	return nil
}

// TransferObjects queues a transfer of objects to recipient.
func (b *TransactionBuilder) TransferObjects(recipient Address, objects ...Input) error {
	if len(objects) == 0 {
		return fmt.Errorf("%w: no objects to transfer", ErrBuild)
	}
	if err := b.checkInputs(objects); err != nil {
		return err
	}
	if err := b.checkCommands(1); err != nil {
		return err
	}
	b.push(transferObjectsOp{objects: objects, recipient: recipient})
	return nil
}

// SplitGas queues splitting a coin of amount MIST off the gas coin and
// returns a handle to it, for example to pay a fee to a MoveCall. A zero
// amount yields a zero value coin.
func (b *TransactionBuilder) SplitGas(amount uint64) (Argument, error) {
	if err := b.checkCommands(1); err != nil {
		return Argument{}, err
	}
	return b.push(splitGasOp{amount: amount}), nil
}

// SetGasObject pins the gas coin. It must be owned by the sender.
func (b *TransactionBuilder) SetGasObject(id ObjectID) {
	b.gasObject = &id
}

// SetGasPrice pins the gas price. Zero uses the reference gas price.
func (b *TransactionBuilder) SetGasPrice(price uint64) {
	b.gasPrice = price
}

// SetGasBudget pins the gas budget. Zero estimates it with a dry run.
func (b *TransactionBuilder) SetGasBudget(budget uint64) {
	b.gasBudget = budget
}

// Build finalizes the queued operations into a funded TransactionData:
//
//  1. The gas coin is the pinned object, fetched fresh, or else the first
//     SUI coin of the sender. ErrInsufficientFunds if there is none.
//  2. The gas price is the pinned price or the reference gas price.
//  3. The gas budget is the pinned budget or else a dry run estimate plus
//     20%.
//
// The queue is consumed only when Build succeeds.
func (b *TransactionBuilder) Build(ctx context.Context) (*TransactionData, error) {
	pt, err := assemble(Submit, b.ops)
	if err != nil {
		return nil, err
	}
	tx := &TransactionData{Kind: pt, Sender: b.sender}

	gas, err := b.resolveGasObject(ctx)
	if err != nil {
		return nil, err
	}
	tx.Gas = GasData{Payment: []ObjectRef{gas}, Owner: b.sender}

	tx.Gas.Price = b.gasPrice
	if tx.Gas.Price == 0 {
		if tx.Gas.Price, err = b.client.GetReferenceGasPrice(ctx); err != nil {
			return nil, err
		}
	}

	tx.Gas.Budget = b.gasBudget
	if tx.Gas.Budget == 0 {
		estimate, err := b.estimate(ctx, *tx)
		if err != nil {
			return nil, err
		}
		tx.Gas.Budget = PadBudget(estimate)
	}

	b.ops, b.commands = nil, 0
	return tx, nil
}

func (b *TransactionBuilder) resolveGasObject(ctx context.Context) (ObjectRef, error) {
	if b.gasObject != nil {
		obj, err := b.client.GetObject(ctx, *b.gasObject)
		if err != nil {
			return ObjectRef{}, err
		}
		if obj.Owner.Kind != AddressOwner || obj.Owner.Address != b.sender {
			return ObjectRef{}, fmt.Errorf("%w: gas object %v is not owned by %v",
				ErrBuild, obj.Ref.ObjectID, b.sender)
		}
		return obj.Ref, nil
	}
	page, err := b.client.GetCoins(ctx, b.sender, SuiCoinType, nil, 1)
	if err != nil {
		return ObjectRef{}, err
	}
	if len(page.Data) == 0 {
		return ObjectRef{}, fmt.Errorf("%w: %v owns no %v coins",
			ErrInsufficientFunds, b.sender, SuiCoinType)
	}
	return page.Data[0].Ref(), nil
}

// estimate dry runs tx with the placeholder budget and returns the net gas
// cost.
func (b *TransactionBuilder) estimate(ctx context.Context, tx TransactionData) (uint64, error) {
	tx.Gas.Budget = PlaceholderGasBudget
	res, err := b.client.DryRunTransaction(ctx, tx.Bytes())
	if err != nil {
		return 0, err
	}
	if !res.Effects.Status.Success() {
		return 0, fmt.Errorf("%w: dry run: %v", ErrExecution, res.Effects.Status.Error)
	}
	return res.Effects.GasUsed.Net(), nil
}

// PadBudget returns estimate plus 20%, rounded down.
func PadBudget(estimate uint64) uint64 {
	margin := estimate / 5
	if estimate > math.MaxUint64-margin {
		return math.MaxUint64
	}
	return estimate + margin
}
