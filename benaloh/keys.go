// Copyright © 2020 AMIS Technologies
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package benaloh implements the Benaloh higher-residuosity cryptosystem:
// parameter generation under the perfect-consonance constraint, key
// generation, and the homomorphic encrypt/decrypt/combine operations. It
// follows the shape of paillier/paillier.go in this module's teacher repo
// (a PublicKey with the homomorphic operations, a private type embedding
// it with the trapdoor), generalized from Paillier's n^2 message space to
// Benaloh's order-r residue classes.
package benaloh

import (
	"errors"
	"math/big"

	"github.com/getamis/benaloh/crypto/bigint"
)

const (
	// maxKeyGenAttempts bounds the rejection loop in GenerateKeys; a draw
	// is rejected with probability 1/r, so this ceiling is only ever hit
	// for a misconfigured (tiny) r.
	maxKeyGenAttempts = 4096
)

var (
	// ErrKeyGenExhausted is returned if GenerateKeys exceeds its retry ceiling.
	ErrKeyGenExhausted = errors.New("benaloh: exceeded KeyGen retry ceiling")
)

// PublicKey is the consonant triplet (r, n, y): r is prime, n = p*q, and y
// has maximal order over the order-r quotient (y^{phi/r} != 1 mod n).
type PublicKey struct {
	r *big.Int
	n *big.Int
	y *big.Int
}

// R returns the order of the residue-class group (a copy; callers must not mutate the original).
func (pk *PublicKey) R() *big.Int { return new(big.Int).Set(pk.r) }

// N returns the composite modulus (a copy).
func (pk *PublicKey) N() *big.Int { return new(big.Int).Set(pk.n) }

// Y returns the public generator (a copy).
func (pk *PublicKey) Y() *big.Int { return new(big.Int).Set(pk.y) }

// Width returns the byte width used to canonically encode any bigint tied
// to this key (ciphertexts, proof commitments, capsule entries): wide
// enough to hold n and to hold r^2 with headroom, per spec.md §3.
func (pk *PublicKey) Width() int {
	nBytes := (pk.n.BitLen() + 7) / 8
	rBytes := (pk.r.BitLen() + 7) / 8
	w := nBytes
	if guard := 2*rBytes + 1; guard > w {
		w = guard
	}
	return w
}

// SecretKey is the trapdoor (p, q, phi, x) alongside the public key it was
// derived from. x = y^{phi/r} mod n has multiplicative order exactly r.
type SecretKey struct {
	*PublicKey
	p   *big.Int
	q   *big.Int
	phi *big.Int
	x   *big.Int
}

// X returns the discrete-log base used by Decrypt (a copy).
func (sk *SecretKey) X() *big.Int { return new(big.Int).Set(sk.x) }

// IsRthResidue reports whether z is an r-th residue mod n. Unlike the
// discrete-log scan Decrypt runs, this is a direct test available only to
// the holder of phi: z is an r-th residue iff z^{phi/r} == 1 (mod n). The
// consonance proof's verifier (spec.md §4.8) uses this to check its
// statement without ever extracting a root.
func (sk *SecretKey) IsRthResidue(z *big.Int) (bool, error) {
	phiOverR := new(big.Int).Div(sk.phi, sk.r)
	a, err := bigint.PowMod(z, phiOverR, sk.n)
	if err != nil {
		return false, err
	}
	return a.Cmp(bigint.One) == 0, nil
}

// GenerateKeys runs KeyGen (spec.md §4.4): from a consonant triplet,
// sample y uniformly from Z_n^* until y^{phi/r} != 1 mod n, which happens
// with probability (r-1)/r per draw.
func GenerateKeys(params *Params) (*SecretKey, error) {
	n := new(big.Int).Mul(params.P, params.Q)
	pMinus1 := new(big.Int).Sub(params.P, bigint.One)
	qMinus1 := new(big.Int).Sub(params.Q, bigint.One)
	phi := new(big.Int).Mul(pMinus1, qMinus1)
	phiOverR := new(big.Int).Div(phi, params.R)

	for attempt := 0; attempt < maxKeyGenAttempts; attempt++ {
		y, err := bigint.RandUnitMod(n)
		if err != nil {
			return nil, err
		}
		x, err := bigint.PowMod(y, phiOverR, n)
		if err != nil {
			return nil, err
		}
		if x.Cmp(bigint.One) == 0 {
			continue
		}
		return &SecretKey{
			PublicKey: &PublicKey{
				r: new(big.Int).Set(params.R),
				n: n,
				y: y,
			},
			p:   new(big.Int).Set(params.P),
			q:   new(big.Int).Set(params.Q),
			phi: phi,
			x:   x,
		}, nil
	}
	return nil, ErrKeyGenExhausted
}
