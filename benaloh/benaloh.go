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

package benaloh

import (
	"errors"
	"math/big"

	"github.com/getamis/benaloh/crypto/bigint"
)

var (
	// ErrInvalidMessage is returned if a plaintext is outside [0, r).
	ErrInvalidMessage = errors.New("benaloh: invalid message")
	// ErrNotCoprime is returned if a ciphertext is not an element of Z_n^*.
	ErrNotCoprime = errors.New("benaloh: ciphertext not in Z_n^*")
	// ErrDecryptInconsistent is returned if the discrete-log scan finds no match.
	ErrDecryptInconsistent = errors.New("benaloh: decrypt inconsistent")
)

// Encrypt returns omega = y^m * u^r mod n for a fresh random unit u,
// encrypting m in [0, r). See spec.md §4.5.
func (pk *PublicKey) Encrypt(m *big.Int) (*big.Int, error) {
	omega, _, err := pk.EncryptWithRandomness(m)
	return omega, err
}

// EncryptWithRandomness is Encrypt, but also returns the random unit u it
// drew. The ballot-validity sigma protocol needs u as its witness, so
// voters that intend to prove a ciphertext well-formed call this instead
// of Encrypt.
func (pk *PublicKey) EncryptWithRandomness(m *big.Int) (omega, u *big.Int, err error) {
	if err := bigint.InRange(m, bigint.Zero, pk.r); err != nil {
		return nil, nil, ErrInvalidMessage
	}
	u, err = bigint.RandUnitMod(pk.n)
	if err != nil {
		return nil, nil, err
	}
	omega, err = pk.encryptWithUnit(m, u)
	if err != nil {
		return nil, nil, err
	}
	return omega, u, nil
}

// encryptWithUnit is the deterministic half of Encrypt, split out so sigma
// protocol commitments (which need the same y^c * z shape with a
// caller-chosen or freshly sampled r-th residue) can reuse it.
func (pk *PublicKey) encryptWithUnit(m, u *big.Int) (*big.Int, error) {
	ym, err := bigint.PowMod(pk.y, m, pk.n)
	if err != nil {
		return nil, err
	}
	ur, err := bigint.PowMod(u, pk.r, pk.n)
	if err != nil {
		return nil, err
	}
	return bigint.MulMod(ym, ur, pk.n)
}

// Combine returns omega1*omega2 mod n. Under the homomorphism, the
// residue class of the result is the sum mod r of the two operands'
// classes (spec.md §4.5).
func (pk *PublicKey) Combine(omega1, omega2 *big.Int) (*big.Int, error) {
	if !bigint.IsCoprime(omega1, pk.n) || !bigint.IsCoprime(omega2, pk.n) {
		return nil, ErrNotCoprime
	}
	return bigint.MulMod(omega1, omega2, pk.n)
}

// Decrypt recovers m in [0, r) such that omega encrypts m.
//
// It computes a = omega^{phi/r} mod n, then scans m = 0, 1, 2, ... looking
// for x^m = a mod n, maintaining a running accumulator to avoid a fresh
// exponentiation per step. Per spec.md §4.5 and §9, the scan always walks
// the full range [0, r) even after it finds the match: this is a
// best-effort defense against a timing oracle that would otherwise leak
// the plaintext through the loop's early-exit point. It is not
// constant-time with respect to r itself.
func (sk *SecretKey) Decrypt(omega *big.Int) (*big.Int, error) {
	if !bigint.IsCoprime(omega, sk.n) {
		return nil, ErrNotCoprime
	}
	phiOverR := new(big.Int).Div(sk.phi, sk.r)
	a, err := bigint.PowMod(omega, phiOverR, sk.n)
	if err != nil {
		return nil, err
	}

	var match *big.Int
	acc := new(big.Int).Set(bigint.One)
	for m := new(big.Int); m.Cmp(sk.r) < 0; m.Add(m, bigint.One) {
		if match == nil && acc.Cmp(a) == 0 {
			match = new(big.Int).Set(m)
		}
		acc, err = bigint.MulMod(acc, sk.x, sk.n)
		if err != nil {
			return nil, err
		}
	}
	if match == nil {
		return nil, ErrDecryptInconsistent
	}
	return match, nil
}

// rthResidue samples a fresh r-th residue z = u^r mod n together with its
// witness u. Used by the residue and consonance sigma protocols to build
// commitments.
func (pk *PublicKey) rthResidue() (z, u *big.Int, err error) {
	u, err = bigint.RandUnitMod(pk.n)
	if err != nil {
		return nil, nil, err
	}
	z, err = bigint.PowMod(u, pk.r, pk.n)
	if err != nil {
		return nil, nil, err
	}
	return z, u, nil
}

// RthResidue exposes rthResidue for the zkproof package.
func (pk *PublicKey) RthResidue() (z, u *big.Int, err error) {
	return pk.rthResidue()
}

// EncryptWithUnit exposes encryptWithUnit for the zkproof package, which
// needs to build ballot commitments of the exact shape y^c * u^r without
// generating a fresh random message-range check.
func (pk *PublicKey) EncryptWithUnit(m, u *big.Int) (*big.Int, error) {
	return pk.encryptWithUnit(m, u)
}
