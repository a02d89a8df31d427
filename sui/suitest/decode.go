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

package suitest

import (
	"fmt"

	"github.com/canary-registry/canaryd/sui"
	"github.com/canary-registry/canaryd/sui/bcs"
)

// DecodeTransaction decodes the BCS encoding of a TransactionData.
func DecodeTransaction(data []byte) (*sui.TransactionData, error) {
	d := bcs.NewDecoder(data)
	if err := variant(d, 0, "TransactionData"); err != nil {
		return nil, err
	}
	pt, err := decodeKind(d)
	if err != nil {
		return nil, err
	}
	tx := &sui.TransactionData{Kind: pt}
	if tx.Sender, err = address(d); err != nil {
		return nil, err
	}
	n, err := d.Length()
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		ref, err := objectRef(d)
		if err != nil {
			return nil, err
		}
		tx.Gas.Payment = append(tx.Gas.Payment, ref)
	}
	if tx.Gas.Owner, err = address(d); err != nil {
		return nil, err
	}
	if tx.Gas.Price, err = d.U64(); err != nil {
		return nil, err
	}
	if tx.Gas.Budget, err = d.U64(); err != nil {
		return nil, err
	}
	if err := variant(d, 0, "TransactionExpiration"); err != nil {
		return nil, err
	}
	return tx, d.Done()
}

// DecodeKind decodes the BCS encoding of a programmable TransactionKind.
func DecodeKind(data []byte) (sui.ProgrammableTransaction, error) {
	d := bcs.NewDecoder(data)
	pt, err := decodeKind(d)
	if err != nil {
		return pt, err
	}
	return pt, d.Done()
}

func decodeKind(d *bcs.Decoder) (sui.ProgrammableTransaction, error) {
	var pt sui.ProgrammableTransaction
	if err := variant(d, 0, "TransactionKind"); err != nil {
		return pt, err
	}
	n, err := d.Length()
	if err != nil {
		return pt, err
	}
	for i := 0; i < n; i++ {
		arg, err := callArg(d)
		if err != nil {
			return pt, err
		}
		pt.Inputs = append(pt.Inputs, arg)
	}
	if n, err = d.Length(); err != nil {
		return pt, err
	}
	for i := 0; i < n; i++ {
		cmd, err := command(d)
		if err != nil {
			return pt, err
		}
		pt.Commands = append(pt.Commands, cmd)
	}
	return pt, nil
}

func variant(d *bcs.Decoder, want uint64, name string) error {
	v, err := d.ULEB128()
	if err != nil {
		return err
	}
	if v != want {
		return fmt.Errorf("%w: unsupported %v variant %v", bcs.ErrDecode, name, v)
	}
	return nil
}

func address(d *bcs.Decoder) (sui.Address, error) {
	b, err := d.FixedBytes(sui.AddressLength)
	if err != nil {
		return sui.Address{}, err
	}
	return sui.DecodeAddress(b)
}

func objectRef(d *bcs.Decoder) (sui.ObjectRef, error) {
	var ref sui.ObjectRef
	var err error
	if ref.ObjectID, err = address(d); err != nil {
		return ref, err
	}
	v, err := d.U64()
	if err != nil {
		return ref, err
	}
	ref.Version = sui.BigInt(v)
	digest, err := d.ByteVector()
	if err != nil {
		return ref, err
	}
	if len(digest) != sui.DigestLength {
		return ref, fmt.Errorf("%w: digest length %v", bcs.ErrDecode, len(digest))
	}
	copy(ref.Digest[:], digest)
	return ref, nil
}

func callArg(d *bcs.Decoder) (sui.CallArg, error) {
	v, err := d.ULEB128()
	if err != nil {
		return sui.CallArg{}, err
	}
	switch v {
	case 0:
		b, err := d.ByteVector()
		if err != nil {
			return sui.CallArg{}, err
		}
		return sui.CallArg{Pure: append([]byte{}, b...)}, nil
	case 1:
		k, err := d.ULEB128()
		if err != nil {
			return sui.CallArg{}, err
		}
		switch k {
		case 0:
			ref, err := objectRef(d)
			if err != nil {
				return sui.CallArg{}, err
			}
			return sui.OwnedObject(ref), nil
		case 1:
			id, err := address(d)
			if err != nil {
				return sui.CallArg{}, err
			}
			isv, err := d.U64()
			if err != nil {
				return sui.CallArg{}, err
			}
			mutable, err := d.Bool()
			if err != nil {
				return sui.CallArg{}, err
			}
			return sui.SharedObject(id, isv, mutable), nil
		}
		return sui.CallArg{}, fmt.Errorf("%w: unsupported ObjectArg variant %v",
			bcs.ErrDecode, k)
	}
	return sui.CallArg{}, fmt.Errorf("%w: unsupported CallArg variant %v",
		bcs.ErrDecode, v)
}

func argument(d *bcs.Decoder) (sui.Argument, error) {
	k, err := d.ULEB128()
	if err != nil {
		return sui.Argument{}, err
	}
	arg := sui.Argument{Kind: sui.ArgumentKind(k)}
	switch arg.Kind {
	case sui.GasCoinArgument:
	case sui.InputArgument, sui.ResultArgument:
		if arg.Index, err = d.U16(); err != nil {
			return arg, err
		}
	case sui.NestedResultArgument:
		if arg.Index, err = d.U16(); err != nil {
			return arg, err
		}
		if arg.SubIndex, err = d.U16(); err != nil {
			return arg, err
		}
	default:
		return arg, fmt.Errorf("%w: unsupported Argument variant %v", bcs.ErrDecode, k)
	}
	return arg, nil
}

func arguments(d *bcs.Decoder) ([]sui.Argument, error) {
	n, err := d.Length()
	if err != nil {
		return nil, err
	}
	args := make([]sui.Argument, 0, n)
	for i := 0; i < n; i++ {
		arg, err := argument(d)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

func command(d *bcs.Decoder) (sui.Command, error) {
	v, err := d.ULEB128()
	if err != nil {
		return nil, err
	}
	switch v {
	case 0:
		var c sui.MoveCall
		if c.Package, err = address(d); err != nil {
			return nil, err
		}
		if c.Module, err = d.String(); err != nil {
			return nil, err
		}
		if c.Function, err = d.String(); err != nil {
			return nil, err
		}
		if err := variant(d, 0, "type argument count"); err != nil {
			return nil, err
		}
		if c.Arguments, err = arguments(d); err != nil {
			return nil, err
		}
		return c, nil
	case 1:
		var c sui.TransferObjects
		if c.Objects, err = arguments(d); err != nil {
			return nil, err
		}
		if c.Recipient, err = argument(d); err != nil {
			return nil, err
		}
		return c, nil
	case 2:
		var c sui.SplitCoins
		if c.Coin, err = argument(d); err != nil {
			return nil, err
		}
		if c.Amounts, err = arguments(d); err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("%w: unsupported Command variant %v", bcs.ErrDecode, v)
}

// LastMoveCall returns the last command of pt, which must be a MoveCall, and
// its arguments resolved to inputs. Arguments that are not inputs resolve to
// the zero CallArg.
func LastMoveCall(pt sui.ProgrammableTransaction) (sui.MoveCall, []sui.CallArg, error) {
	if len(pt.Commands) == 0 {
		return sui.MoveCall{}, nil, fmt.Errorf("no commands")
	}
	call, ok := pt.Commands[len(pt.Commands)-1].(sui.MoveCall)
	if !ok {
		return sui.MoveCall{}, nil, fmt.Errorf("last command is %T", pt.Commands[len(pt.Commands)-1])
	}
	args := make([]sui.CallArg, len(call.Arguments))
	for i, a := range call.Arguments {
		if a.Kind == sui.InputArgument && int(a.Index) < len(pt.Inputs) {
			args[i] = pt.Inputs[a.Index]
		}
	}
	return call, args, nil
}
