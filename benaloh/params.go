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

const (
	// maxPGenRestarts bounds the outer restart-from-step-2 loop of PGen.
	maxPGenRestarts = 200
	// maxPrimeSearchAttempts bounds each arithmetic-progression prime search.
	maxPrimeSearchAttempts = 4096
)

// ErrPGenExhausted is returned if PGen fails to find a consonant triplet
// within its retry ceiling. This is intended to be practically unreachable.
var ErrPGenExhausted = errors.New("benaloh: exceeded PGen retry ceiling")

// Params is the consonant triplet (r, p, q) produced by GenerateParams. r
// is prime, p and q are distinct primes such that r | (p-1), r^2 does not
// divide (p-1), and gcd(r, q-1) = 1.
type Params struct {
	R *big.Int
	P *big.Int
	Q *big.Int
}

// GenerateParams runs PGen (spec.md §4.3): sample r, then search the
// arithmetic progressions p = r^2*x + r*b + 1 and q = r*x + b + 1 for
// primes of the requested bit widths, restarting from a fresh b whenever
// the re-verification of the consonance invariants fails.
//
// For this progression, r^2*x + r*b + 1 ≡ 1 + r*b (mod r^2); since
// 1 <= b < r we get r | (p-1) but r^2 does not divide (p-1). Simultaneously
// q-1 = r*x + b has gcd(r, b) = 1 because b is in [2, r) and r is prime, so
// gcd(r, q-1) = 1 as required.
func GenerateParams(bitsR, bitsP, bitsQ int) (*Params, error) {
	r, err := bigint.RandPrime(bitsR)
	if err != nil {
		return nil, err
	}

	for restart := 0; restart < maxPGenRestarts; restart++ {
		b, err := sampleB(r)
		if err != nil {
			return nil, err
		}

		rSquared := new(big.Int).Mul(r, r)
		rb := new(big.Int).Mul(r, b)
		pResidue := new(big.Int).Add(rb, bigint.One)
		p, err := searchArithmeticProgressionPrime(rSquared, pResidue, bitsP, maxPrimeSearchAttempts)
		if err == bigint.ErrExceedMaxRetry {
			continue
		}
		if err != nil {
			return nil, err
		}

		qResidue := new(big.Int).Add(b, bigint.One)
		q, err := searchArithmeticProgressionPrime(r, qResidue, bitsQ, maxPrimeSearchAttempts)
		if err == bigint.ErrExceedMaxRetry {
			continue
		}
		if err != nil {
			return nil, err
		}

		if !verifyConsonance(r, p, q) {
			continue
		}
		return &Params{R: r, P: p, Q: q}, nil
	}
	return nil, ErrPGenExhausted
}

// sampleB draws b uniformly from [2, r).
func sampleB(r *big.Int) (*big.Int, error) {
	span := new(big.Int).Sub(r, big.NewInt(2))
	offset, err := bigint.RandMod(span)
	if err != nil {
		return nil, err
	}
	return offset.Add(offset, big.NewInt(2)), nil
}

// searchArithmeticProgressionPrime looks for a prime of the form
// modulus*x + residue with at least minBits bits, drawing x at random and
// retrying until a prime candidate of the right size is found or the
// attempt ceiling is hit.
func searchArithmeticProgressionPrime(modulus, residue *big.Int, minBits, maxAttempts int) (*big.Int, error) {
	xBits := minBits - modulus.BitLen() + 8
	if xBits < 8 {
		xBits = 8
	}
	bound := new(big.Int).Lsh(bigint.One, uint(xBits))
	for attempt := 0; attempt < maxAttempts; attempt++ {
		x, err := bigint.RandPositive(bound)
		if err != nil {
			return nil, err
		}
		candidate := new(big.Int).Mul(modulus, x)
		candidate.Add(candidate, residue)
		if candidate.BitLen() < minBits {
			continue
		}
		if bigint.IsPrime(candidate) {
			return candidate, nil
		}
	}
	return nil, bigint.ErrExceedMaxRetry
}

// verifyConsonance re-checks r | (p-1), r^2 !| (p-1), and gcd(r, q-1) = 1.
func verifyConsonance(r, p, q *big.Int) bool {
	if !bigint.IsPrime(r) || !bigint.IsPrime(p) || !bigint.IsPrime(q) {
		return false
	}
	pMinus1 := new(big.Int).Sub(p, bigint.One)
	if new(big.Int).Mod(pMinus1, r).Sign() != 0 {
		return false
	}
	rSquared := new(big.Int).Mul(r, r)
	if new(big.Int).Mod(pMinus1, rSquared).Sign() == 0 {
		return false
	}
	qMinus1 := new(big.Int).Sub(q, bigint.One)
	return bigint.IsCoprime(r, qMinus1)
}
