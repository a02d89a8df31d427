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
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secp256k1ecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/ed25519"
)

// Scheme is the signature scheme flag byte that prefixes encoded private
// keys, serialized signatures and the preimage of an address.
type Scheme byte

const (
	Ed25519   Scheme = 0x00
	Secp256k1 Scheme = 0x01
	Secp256r1 Scheme = 0x02
)

func (s Scheme) String() string {
	switch s {
	case Ed25519:
		return "ed25519"
	case Secp256k1:
		return "secp256k1"
	case Secp256r1:
		return "secp256r1"
	}
	return fmt.Sprintf("Scheme(%#02x)", byte(s))
}

// Set parses the name of a scheme, as returned by String.
func (s *Scheme) Set(name string) error {
	for _, scheme := range []Scheme{Ed25519, Secp256k1, Secp256r1} {
		if strings.EqualFold(name, scheme.String()) {
			*s = scheme
			return nil
		}
	}
	return fmt.Errorf("unknown scheme: %q", name)
}

func (s *Scheme) Type() string {
	return "scheme"
}

// Valid returns true if s is a supported scheme.
func (s Scheme) Valid() bool {
	return s <= Secp256r1
}

// PrivateKeyPrefix is the bech32 human readable part of an encoded private
// key.
const PrivateKeyPrefix = "suiprivkey"

const (
	secretLength     = 32
	privateKeyLength = 1 + secretLength
	signatureLength  = 64
)

// PrivateKey is a secret key of one of the supported schemes. Its string
// form is the bech32 encoding of the scheme flag followed by the 32 secret
// bytes, "suiprivkey1...".
type PrivateKey struct {
	scheme Scheme
	secret [secretLength]byte
}

// NewPrivateKey returns the key with the given scheme and secret bytes.
func NewPrivateKey(scheme Scheme, secret [32]byte) (PrivateKey, error) {
	k := PrivateKey{scheme: scheme, secret: secret}
	if !scheme.Valid() {
		return PrivateKey{}, fmt.Errorf("invalid scheme flag: %#02x", byte(scheme))
	}
	if err := k.validate(); err != nil {
		return PrivateKey{}, err
	}
	return k, nil
}

// GeneratePrivateKey returns a new random key of the given scheme.
func GeneratePrivateKey(scheme Scheme) (PrivateKey, error) {
	return generatePrivateKey(scheme, rand.Reader)
}

func generatePrivateKey(scheme Scheme, r io.Reader) (PrivateKey, error) {
	var secret [secretLength]byte
	for {
		if _, err := io.ReadFull(r, secret[:]); err != nil {
			return PrivateKey{}, err
		}
		k, err := NewPrivateKey(scheme, secret)
		if err == nil {
			return k, nil
		}
		if !scheme.Valid() {
			return PrivateKey{}, err
		}
		// Out of range scalar, try again.
	}
}

func (k PrivateKey) validate() error {
	switch k.scheme {
	case Secp256k1:
		var s secp256k1.ModNScalar
		if overflow := s.SetByteSlice(k.secret[:]); overflow || s.IsZero() {
			return fmt.Errorf("invalid secp256k1 secret")
		}
	case Secp256r1:
		d := new(big.Int).SetBytes(k.secret[:])
		if d.Sign() == 0 || d.Cmp(elliptic.P256().Params().N) >= 0 {
			return fmt.Errorf("invalid secp256r1 secret")
		}
	}
	return nil
}

// ParsePrivateKey decodes a bech32 "suiprivkey1..." string.
func ParsePrivateKey(s string) (PrivateKey, error) {
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return PrivateKey{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if hrp != PrivateKeyPrefix {
		return PrivateKey{}, fmt.Errorf("%w: invalid prefix", ErrDecode)
	}
	data, err = bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return PrivateKey{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return PrivateKeyFromBytes(data)
}

// PrivateKeyFromBytes decodes the 33 byte flag and secret encoding.
func PrivateKeyFromBytes(data []byte) (PrivateKey, error) {
	if len(data) != privateKeyLength {
		return PrivateKey{}, fmt.Errorf("%w: invalid length", ErrDecode)
	}
	var secret [secretLength]byte
	copy(secret[:], data[1:])
	k, err := NewPrivateKey(Scheme(data[0]), secret)
	if err != nil {
		return PrivateKey{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return k, nil
}

// Set decodes s into k. It implements flag.Value.
func (k *PrivateKey) Set(s string) error {
	v, err := ParsePrivateKey(s)
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Type implements pflag.Value.
func (k *PrivateKey) Type() string {
	return "suiprivkey"
}

// String returns the bech32 encoding of k.
func (k PrivateKey) String() string {
	data, err := bech32.ConvertBits(k.Bytes(), 8, 5, true)
	if err != nil {
		panic(err)
	}
	s, err := bech32.Encode(PrivateKeyPrefix, data)
	if err != nil {
		panic(err)
	}
	return s
}

func (k PrivateKey) Scheme() Scheme {
	return k.scheme
}

// Bytes returns the scheme flag followed by the secret.
func (k PrivateKey) Bytes() []byte {
	b := make([]byte, 0, privateKeyLength)
	b = append(b, byte(k.scheme))
	return append(b, k.secret[:]...)
}

func (k PrivateKey) IsZero() bool {
	return k.secret == [secretLength]byte{}
}

// PublicKey returns the 32 byte Ed25519 public key or the 33 byte compressed
// ECDSA public key.
func (k PrivateKey) PublicKey() []byte {
	switch k.scheme {
	case Secp256k1:
		return secp256k1.PrivKeyFromBytes(k.secret[:]).PubKey().SerializeCompressed()
	case Secp256r1:
		priv := k.p256()
		return elliptic.MarshalCompressed(priv.Curve, priv.X, priv.Y)
	}
	return []byte(k.ed25519().Public().(ed25519.PublicKey))
}

// Address returns blake2b-256(flag || public key).
func (k PrivateKey) Address() Address {
	return PublicKeyAddress(k.scheme, k.PublicKey())
}

// PublicKeyAddress derives the address of a public key.
func PublicKeyAddress(scheme Scheme, pub []byte) Address {
	h, _ := blake2b.New256(nil)
	h.Write([]byte{byte(scheme)})
	h.Write(pub)
	var a Address
	copy(a[:], h.Sum(nil))
	return a
}

// Sign signs msg and returns the serialized signature. Ed25519 signs msg
// directly. The ECDSA schemes sign sha256(msg) and always produce a low S
// value.
func (k PrivateKey) Sign(msg []byte) Signature {
	var sig []byte
	switch k.scheme {
	case Secp256k1:
		hash := sha256.Sum256(msg)
		compact := secp256k1ecdsa.SignCompact(
			secp256k1.PrivKeyFromBytes(k.secret[:]), hash[:], true)
		// Drop the recovery code.
		sig = compact[1:]
	case Secp256r1:
		sig = signP256(k.p256(), msg)
	default:
		sig = ed25519.Sign(k.ed25519(), msg)
	}
	pub := k.PublicKey()
	s := make(Signature, 0, 1+len(sig)+len(pub))
	s = append(s, byte(k.scheme))
	s = append(s, sig...)
	return append(s, pub...)
}

func (k PrivateKey) ed25519() ed25519.PrivateKey {
	return ed25519.NewKeyFromSeed(k.secret[:])
}

func (k PrivateKey) p256() *ecdsa.PrivateKey {
	curve := elliptic.P256()
	priv := &ecdsa.PrivateKey{D: new(big.Int).SetBytes(k.secret[:])}
	priv.Curve = curve
	priv.X, priv.Y = curve.ScalarBaseMult(k.secret[:])
	return priv
}

func signP256(priv *ecdsa.PrivateKey, msg []byte) []byte {
	hash := sha256.Sum256(msg)
	r, s, err := ecdsa.Sign(rand.Reader, priv, hash[:])
	if err != nil {
		panic(err)
	}
	n := priv.Curve.Params().N
	if s.Cmp(new(big.Int).Rsh(n, 1)) > 0 {
		s.Sub(n, s)
	}
	sig := make([]byte, signatureLength)
	r.FillBytes(sig[:32])
	s.FillBytes(sig[32:])
	return sig
}

// Signature is a serialized signature: scheme flag, 64 signature bytes and
// the public key. It is encoded as base64 for submission.
type Signature []byte

func (s Signature) String() string {
	return base64.StdEncoding.EncodeToString(s)
}

func (s Signature) Scheme() Scheme {
	if len(s) == 0 {
		return Scheme(0xff)
	}
	return Scheme(s[0])
}

// PublicKey returns the public key carried by s.
func (s Signature) PublicKey() []byte {
	if len(s) < 1+signatureLength {
		return nil
	}
	return s[1+signatureLength:]
}

// Verify returns true if s is a valid signature of msg by its embedded
// public key.
func (s Signature) Verify(msg []byte) bool {
	if len(s) < 1+signatureLength {
		return false
	}
	sig, pub := s[1:1+signatureLength], s.PublicKey()
	switch s.Scheme() {
	case Ed25519:
		if len(pub) != ed25519.PublicKeySize {
			return false
		}
		return ed25519.Verify(pub, msg, sig)
	case Secp256k1:
		pk, err := secp256k1.ParsePubKey(pub)
		if err != nil {
			return false
		}
		var r, ss secp256k1.ModNScalar
		if r.SetByteSlice(sig[:32]) || ss.SetByteSlice(sig[32:]) {
			return false
		}
		hash := sha256.Sum256(msg)
		return secp256k1ecdsa.NewSignature(&r, &ss).Verify(hash[:], pk)
	case Secp256r1:
		x, y := elliptic.UnmarshalCompressed(elliptic.P256(), pub)
		if x == nil {
			return false
		}
		hash := sha256.Sum256(msg)
		return ecdsa.Verify(&ecdsa.PublicKey{Curve: elliptic.P256(), X: x, Y: y},
			hash[:],
			new(big.Int).SetBytes(sig[:32]), new(big.Int).SetBytes(sig[32:]))
	}
	return false
}
