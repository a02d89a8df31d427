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
	"fmt"
	"math"
	"regexp"

	"github.com/canary-registry/canaryd/sui/bcs"
)

// Input is a MoveCall argument: either a CallArg, which becomes a
// transaction input, or an Argument referring to the gas coin or the result
// of an earlier command.
type Input interface {
	isInput()
}

type ArgumentKind uint8

const (
	GasCoinArgument ArgumentKind = iota
	InputArgument
	ResultArgument
	NestedResultArgument
)

// Argument refers to a value within a programmable transaction.
type Argument struct {
	Kind     ArgumentKind
	Index    uint16
	SubIndex uint16
}

// GasCoin refers to the coin paying for gas.
func GasCoin() Argument {
	return Argument{Kind: GasCoinArgument}
}

func (Argument) isInput() {}

func (a Argument) MarshalBCS(e *bcs.Encoder) {
	e.ULEB128(uint64(a.Kind))
	switch a.Kind {
	case InputArgument, ResultArgument:
		e.U16(a.Index)
	case NestedResultArgument:
		e.U16(a.Index)
		e.U16(a.SubIndex)
	}
}

func marshalArguments(e *bcs.Encoder, args []Argument) {
	e.ULEB128(uint64(len(args)))
	for _, a := range args {
		a.MarshalBCS(e)
	}
}

// Command is one step of a programmable transaction.
type Command interface {
	bcs.Marshaler
	isCommand()
}

// MoveCall calls a public function. Type arguments are not supported.
type MoveCall struct {
	Package   Address
	Module    string
	Function  string
	Arguments []Argument
}

func (MoveCall) isCommand() {}

func (c MoveCall) MarshalBCS(e *bcs.Encoder) {
	e.ULEB128(0)
	e.FixedBytes(c.Package[:])
	e.String(c.Module)
	e.String(c.Function)
	e.ULEB128(0) // type arguments
	marshalArguments(e, c.Arguments)
}

// TransferObjects sends Objects to the address Recipient.
type TransferObjects struct {
	Objects   []Argument
	Recipient Argument
}

func (TransferObjects) isCommand() {}

func (c TransferObjects) MarshalBCS(e *bcs.Encoder) {
	e.ULEB128(1)
	marshalArguments(e, c.Objects)
	c.Recipient.MarshalBCS(e)
}

// SplitCoins splits one new coin off Coin per amount.
type SplitCoins struct {
	Coin    Argument
	Amounts []Argument
}

func (SplitCoins) isCommand() {}

func (c SplitCoins) MarshalBCS(e *bcs.Encoder) {
	e.ULEB128(2)
	c.Coin.MarshalBCS(e)
	marshalArguments(e, c.Amounts)
}

// ProgrammableTransaction is an ordered list of commands over a shared list
// of inputs. Either all commands take effect or none do.
type ProgrammableTransaction struct {
	Inputs   []CallArg
	Commands []Command
}

func (pt ProgrammableTransaction) MarshalBCS(e *bcs.Encoder) {
	e.ULEB128(uint64(len(pt.Inputs)))
	for _, in := range pt.Inputs {
		in.MarshalBCS(e)
	}
	e.ULEB128(uint64(len(pt.Commands)))
	for _, c := range pt.Commands {
		c.MarshalBCS(e)
	}
}

// KindBytes returns the BCS encoding of the TransactionKind wrapping pt, as
// accepted by dev-inspect.
func (pt ProgrammableTransaction) KindBytes() []byte {
	e := bcs.NewEncoder(256)
	e.ULEB128(0) // TransactionKind::ProgrammableTransaction
	pt.MarshalBCS(e)
	return e.Bytes()
}

// ptBuilder accumulates inputs and commands. Identical pure inputs share one
// input slot, and so do repeated uses of an object.
type ptBuilder struct {
	pt      ProgrammableTransaction
	pure    map[string]uint16
	objects map[ObjectID]uint16
}

func newPTBuilder() *ptBuilder {
	return &ptBuilder{
		pure:    make(map[string]uint16),
		objects: make(map[ObjectID]uint16),
	}
}

func (b *ptBuilder) input(arg CallArg) (Argument, error) {
	if err := arg.validate(); err != nil {
		return Argument{}, err
	}
	if arg.Object == nil {
		if i, ok := b.pure[string(arg.Pure)]; ok {
			return Argument{Kind: InputArgument, Index: i}, nil
		}
	} else if i, ok := b.objects[arg.Object.ID]; ok {
		prev := b.pt.Inputs[i].Object
		if prev.Kind.IsShared() != arg.Object.Kind.IsShared() ||
			prev.Version != arg.Object.Version {
			return Argument{}, fmt.Errorf(
				"%w: object %v used as both %v@%v and %v@%v",
				ErrBuild, arg.Object.ID, prev.Kind, prev.Version,
				arg.Object.Kind, arg.Object.Version)
		}
		if arg.Object.Kind == SharedMutableKind {
			prev.Kind = SharedMutableKind
		}
		return Argument{Kind: InputArgument, Index: i}, nil
	}
	if len(b.pt.Inputs) >= math.MaxUint16 {
		return Argument{}, fmt.Errorf("%w: too many inputs", ErrBuild)
	}
	i := uint16(len(b.pt.Inputs))
	if arg.Object == nil {
		b.pure[string(arg.Pure)] = i
	} else {
		obj := *arg.Object
		arg.Object = &obj
		b.objects[obj.ID] = i
	}
	b.pt.Inputs = append(b.pt.Inputs, arg)
	return Argument{Kind: InputArgument, Index: i}, nil
}

func (b *ptBuilder) argument(in Input) (Argument, error) {
	switch in := in.(type) {
	case CallArg:
		return b.input(in)
	case Argument:
		if in.Kind == InputArgument && int(in.Index) >= len(b.pt.Inputs) {
			return Argument{}, fmt.Errorf("%w: input %v out of range",
				ErrBuild, in.Index)
		}
		if (in.Kind == ResultArgument || in.Kind == NestedResultArgument) &&
			int(in.Index) >= len(b.pt.Commands) {
			return Argument{}, fmt.Errorf("%w: result %v out of range",
				ErrBuild, in.Index)
		}
		return in, nil
	}
	return Argument{}, fmt.Errorf("%w: unsupported input type %T", ErrBuild, in)
}

func (b *ptBuilder) command(c Command) (Argument, error) {
	if len(b.pt.Commands) >= math.MaxUint16 {
		return Argument{}, fmt.Errorf("%w: too many commands", ErrBuild)
	}
	b.pt.Commands = append(b.pt.Commands, c)
	return Argument{Kind: ResultArgument,
		Index: uint16(len(b.pt.Commands) - 1)}, nil
}

var identifierRegexp = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_]*|_[A-Za-z0-9_]+)$`)

// ValidIdentifier returns true if s is a valid Move module or function name.
func ValidIdentifier(s string) bool {
	return identifierRegexp.MatchString(s)
}
