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

package canary

import (
	"context"
	"errors"
	"fmt"

	"github.com/canary-registry/canaryd/sui"
)

// Session is a sui.Client with a Keystore that can sign for Sender.
type Session struct {
	Client   *sui.Client
	Keystore *sui.Keystore
	Sender   sui.Address

	// GasPrice, if not zero, is pinned on every transaction instead of
	// the reference gas price. GasBudget, if not zero, is pinned instead
	// of the dry run estimate.
	GasPrice  uint64
	GasBudget uint64
	// GasObject, if not zero, pays for every transaction instead of the
	// first SUI coin of Sender.
	GasObject sui.ObjectID
}

// NewSession returns a Session for sender, whose key must be in ks.
func NewSession(c *sui.Client, ks *sui.Keystore, sender sui.Address) (*Session, error) {
	if !ks.Has(sender) {
		return nil, fmt.Errorf("%w: %v", sui.ErrKeyNotFound, sender)
	}
	return &Session{Client: c, Keystore: ks, Sender: sender}, nil
}

// NewSessionWithKey returns a Session for network that signs with key.
func NewSessionWithKey(network sui.Network, key sui.PrivateKey) *Session {
	ks := sui.NewKeystore(key)
	return &Session{
		Client:   sui.NewClient(network),
		Keystore: ks,
		Sender:   key.Address(),
	}
}

// NewTransactionBuilder returns a sui.TransactionBuilder for s.Sender.
func (s *Session) NewTransactionBuilder() *sui.TransactionBuilder {
	b := sui.NewTransactionBuilder(s.Client, s.Sender)
	b.SetGasPrice(s.GasPrice)
	b.SetGasBudget(s.GasBudget)
	if !s.GasObject.IsZero() {
		b.SetGasObject(s.GasObject)
	}
	return b
}

// Execute builds, signs and submits the operations queued in b.
func (s *Session) Execute(ctx context.Context,
	b *sui.TransactionBuilder) (*sui.TransactionResponse, error) {
	return b.Execute(ctx, s.Keystore)
}

// TransferObject sends the account owned object id to recipient.
func (s *Session) TransferObject(ctx context.Context,
	id sui.ObjectID, recipient sui.Address) (*sui.TransactionResponse, error) {
	obj, err := s.Client.GetObject(ctx, id)
	if err != nil {
		return nil, err
	}
	if obj.Owner.Kind != sui.AddressOwner || obj.Owner.Address != s.Sender {
		return nil, fmt.Errorf("%w: object %v is not owned by %v",
			sui.ErrBuild, id, s.Sender)
	}
	b := s.NewTransactionBuilder()
	if err := b.TransferObjects(recipient, sui.OwnedObject(obj.Ref)); err != nil {
		return nil, err
	}
	return s.Execute(ctx, b)
}

// TransferSui sends amount MIST from the gas coin to recipient.
func (s *Session) TransferSui(ctx context.Context,
	recipient sui.Address, amount uint64) (*sui.TransactionResponse, error) {
	b := s.NewTransactionBuilder()
	if err := b.TransferSui(recipient, amount); err != nil {
		return nil, err
	}
	return s.Execute(ctx, b)
}

// sharedObject fetches the shared object id and returns its package and an
// argument that references it by its initial shared version.
func sharedObject(ctx context.Context, c *sui.Client, id sui.ObjectID,
	mutable bool) (sui.Address, sui.CallArg, error) {
	obj, err := c.GetObject(ctx, id)
	if err != nil {
		return sui.Address{}, sui.CallArg{}, err
	}
	if obj.Owner.Kind != sui.Shared {
		return sui.Address{}, sui.CallArg{},
			fmt.Errorf("%w: %v is %v", ErrNotShared, id, obj.Owner.Kind)
	}
	pkg, err := obj.Package()
	if err != nil {
		return sui.Address{}, sui.CallArg{}, err
	}
	arg, err := obj.Arg(mutable)
	return pkg, arg, err
}

// adminCap fetches the AdminCap id, which must be owned by s.Sender.
func (s *Session) adminCap(ctx context.Context, id sui.ObjectID) (sui.CallArg, error) {
	obj, err := s.Client.GetObject(ctx, id)
	if err != nil {
		return sui.CallArg{}, fmt.Errorf("admin cap: %w", err)
	}
	if obj.Owner.Kind != sui.AddressOwner || obj.Owner.Address != s.Sender {
		return sui.CallArg{}, fmt.Errorf("%w: %v", ErrNotAdmin, id)
	}
	return sui.OwnedObject(obj.Ref), nil
}

// blob fetches the CanaryBlob id and returns its package and an argument
// that references it by its ownership kind.
func blob(ctx context.Context, c *sui.Client, id sui.ObjectID,
	mutable bool) (sui.Address, sui.CallArg, error) {
	obj, err := c.GetObject(ctx, id)
	if err != nil {
		if errors.Is(err, sui.ErrNotFound) {
			return sui.Address{}, sui.CallArg{}, fmt.Errorf("%w: %v", ErrBlobNotFound, id)
		}
		return sui.Address{}, sui.CallArg{}, err
	}
	pkg, err := obj.Package()
	if err != nil {
		return sui.Address{}, sui.CallArg{}, err
	}
	arg, err := obj.Arg(mutable)
	return pkg, arg, err
}

// view runs the view t of pkg and checks its arity.
func view(ctx context.Context, c *sui.Client, pkg sui.Address, t Target,
	args ...sui.CallArg) (sui.Returns, error) {
	if !t.View {
		return nil, fmt.Errorf("%w: %v is not a view", sui.ErrBuild, t)
	}
	return c.Inspect(ctx, t.In(pkg), t.Returns, args...)
}
