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

// Package bigint is the facade every other package in this module goes
// through for modular arithmetic. It exists so that the rest of the core
// depends on a handful of named operations instead of math/big directly,
// and so the non-early-exiting exponentiation schedule lives in one place.
package bigint

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	// millerRabinRounds is the round count IsPrime passes to
	// ProbablyPrime, set high for adversary-chosen moduli (r, p, q are all
	// sampled under attacker-visible constraints, not blindly trusted inputs).
	millerRabinRounds = 20
	// maxGenUnitInt bounds the rejection loop in RandUnitMod.
	maxGenUnitInt = 128
)

var (
	// ErrNotCoprime is returned by InvMod when a has no inverse mod m.
	ErrNotCoprime = errors.New("bigint: not coprime")
	// ErrInvalidInput is returned when a modulus or range argument is malformed.
	ErrInvalidInput = errors.New("bigint: invalid input")
	// ErrNotInRange is returned by InRange when checkValue falls outside [floor, ceil).
	ErrNotInRange = errors.New("bigint: not in range")
	// ErrExceedMaxRetry is returned when a rejection-sampling loop exhausts its retry budget.
	ErrExceedMaxRetry = errors.New("bigint: exceed max retries")

	// Zero and One are shared immutable constants; callers must not mutate them.
	Zero = big.NewInt(0)
	One  = big.NewInt(1)
	two  = big.NewInt(2)
)

// MulMod returns a*b mod m. Requires m > 0.
func MulMod(a, b, m *big.Int) (*big.Int, error) {
	if m.Sign() <= 0 {
		return nil, ErrInvalidInput
	}
	z := new(big.Int).Mul(a, b)
	return z.Mod(z, m), nil
}

// PowMod returns base^exp mod m. Requires m > 0 and exp >= 0.
//
// Unlike big.Int.Exp, the square-and-multiply schedule below always
// performs the multiply step and only conditionally keeps the result, so
// the number of modular multiplications depends on the bit length of exp
// and not on which bits happen to be set. This is the "constant-time-in-exp"
// discipline spec.md §4.1 asks implementations to honor; it makes no claim
// about constant-time-ness in base or m.
func PowMod(base, exp, m *big.Int) (*big.Int, error) {
	if m.Sign() <= 0 {
		return nil, ErrInvalidInput
	}
	if exp.Sign() < 0 {
		return nil, ErrInvalidInput
	}
	result := new(big.Int).Mod(big.NewInt(1), m)
	b := new(big.Int).Mod(base, m)
	for i := exp.BitLen() - 1; i >= 0; i-- {
		result = new(big.Int).Mod(new(big.Int).Mul(result, result), m)
		candidate := new(big.Int).Mod(new(big.Int).Mul(result, b), m)
		if exp.Bit(i) == 1 {
			result = candidate
		}
	}
	return result, nil
}

// InvMod returns a^-1 mod m, or ErrNotCoprime if gcd(a, m) != 1.
func InvMod(a, m *big.Int) (*big.Int, error) {
	if m.Sign() <= 0 {
		return nil, ErrInvalidInput
	}
	inv := new(big.Int).ModInverse(a, m)
	if inv == nil {
		return nil, ErrNotCoprime
	}
	return inv, nil
}

// Gcd returns the greatest common divisor of a and b.
func Gcd(a, b *big.Int) *big.Int {
	return new(big.Int).GCD(nil, nil, a, b)
}

// IsCoprime reports whether gcd(a, b) == 1.
func IsCoprime(a, b *big.Int) bool {
	return Gcd(a, b).Cmp(One) == 0
}

// Lcm returns the least common multiple of a and b. Both must be positive.
func Lcm(a, b *big.Int) (*big.Int, error) {
	if a.Sign() <= 0 || b.Sign() <= 0 {
		return nil, ErrInvalidInput
	}
	g := Gcd(a, b)
	t := new(big.Int).Div(a, g)
	return t.Mul(t, b), nil
}

// InRange reports whether checkValue is in [floor, ceil).
func InRange(checkValue, floor, ceil *big.Int) error {
	if ceil.Cmp(floor) < 1 {
		return ErrInvalidInput
	}
	if checkValue.Cmp(floor) < 0 || checkValue.Cmp(ceil) >= 0 {
		return ErrNotInRange
	}
	return nil
}

// RandMod draws x uniformly from [0, n) using crypto/rand.
func RandMod(n *big.Int) (*big.Int, error) {
	if n.Sign() <= 0 {
		return nil, ErrInvalidInput
	}
	return rand.Int(rand.Reader, n)
}

// RandPositive draws x uniformly from [1, n).
func RandPositive(n *big.Int) (*big.Int, error) {
	if n.Cmp(two) < 0 {
		return nil, ErrInvalidInput
	}
	x, err := RandMod(new(big.Int).Sub(n, One))
	if err != nil {
		return nil, err
	}
	return x.Add(x, One), nil
}

// RandUnitMod draws x uniformly from Z_n^* by rejection sampling on gcd(x, n) > 1.
func RandUnitMod(n *big.Int) (*big.Int, error) {
	if n.Cmp(two) < 0 {
		return nil, ErrInvalidInput
	}
	for i := 0; i < maxGenUnitInt; i++ {
		x, err := RandMod(n)
		if err != nil {
			return nil, err
		}
		if x.Sign() == 0 {
			continue
		}
		if IsCoprime(x, n) {
			return x, nil
		}
	}
	return nil, ErrExceedMaxRetry
}

// RandPrime returns a random prime of the given bit length.
func RandPrime(bits int) (*big.Int, error) {
	return rand.Prime(rand.Reader, bits)
}

// IsPrime reports whether x is prime with negligible false-positive probability.
func IsPrime(x *big.Int) bool {
	return x.ProbablyPrime(millerRabinRounds)
}
