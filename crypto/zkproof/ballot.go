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

package zkproof

import (
	"math/big"

	"github.com/getamis/benaloh/benaloh"
	"github.com/getamis/benaloh/crypto/bigint"
	"github.com/getamis/benaloh/crypto/challenge"
)

// DefaultBallotCapsules is the capsule count N spec.md §4.6 and §8 use for
// the ballot-validity proof: soundness error 2^-256.
const DefaultBallotCapsules = 256

// capsule is one committed pair (u, v): one random element of RC[0] and
// one of RC[1], in an order only the prover knows.
type capsule struct {
	U *big.Int
	V *big.Int
}

// capsuleWitness is the prover's private state for one capsule; it never
// leaves NewBallotProof.
type capsuleWitness struct {
	a, b *big.Int
	swap bool
}

// branchResponse is the revealed half of one capsule. When Opened is true
// the branch reveals its full decomposition (A, B, Swap); otherwise it
// reveals the single consuming witness.
type branchResponse struct {
	Opened  bool
	A       *big.Int
	B       *big.Int
	Swap    bool
	Witness *big.Int
}

// BallotProof is the N-capsule Fiat-Shamir ballot-validity proof of
// spec.md §4.6: a transcript showing that Omega encrypts 0 or 1 without
// revealing which, with soundness error 2^-N.
type BallotProof struct {
	Omega     *big.Int
	Capsules  []capsule
	Challenge []bool
	Responses []branchResponse
}

// NewBallotProof proves that omega = pk.EncryptWithRandomness(vote) for the
// witness unit, with vote in {0, 1}.
func NewBallotProof(pk *benaloh.PublicKey, vote uint64, unit, omega *big.Int, capsuleCount int) (*BallotProof, error) {
	if vote != 0 && vote != 1 {
		return nil, ErrInvalidVote
	}
	return newBallotProof(pk, vote, unit, omega, capsuleCount)
}

// newBallotProof builds the proof transcript for an arbitrary claimed
// branch bit (0 or 1), with no check that omega actually encrypts a value
// in {0, 1}. NewBallotProof is the only exported entry point and enforces
// that restriction; newBallotProof itself is also how the test suite
// builds a transcript for a ciphertext that truly encrypts an out-of-range
// vote, to exercise the soundness property the {0, 1} guard exists for
// (spec.md property 8 / E4).
func newBallotProof(pk *benaloh.PublicKey, claimedBit uint64, unit, omega *big.Int, capsuleCount int) (*BallotProof, error) {
	n := pk.N()
	y := pk.Y()
	r := pk.R()

	witnesses := make([]capsuleWitness, capsuleCount)
	capsules := make([]capsule, capsuleCount)
	for i := 0; i < capsuleCount; i++ {
		a, err := bigint.RandUnitMod(n)
		if err != nil {
			return nil, err
		}
		b, err := bigint.RandUnitMod(n)
		if err != nil {
			return nil, err
		}
		swapBit, err := bigint.RandMod(big.NewInt(2))
		if err != nil {
			return nil, err
		}
		swap := swapBit.Sign() != 0

		ar, err := bigint.PowMod(a, r, n)
		if err != nil {
			return nil, err
		}
		br, err := bigint.PowMod(b, r, n)
		if err != nil {
			return nil, err
		}
		ybr, err := bigint.MulMod(y, br, n)
		if err != nil {
			return nil, err
		}

		u, v := ar, ybr
		if swap {
			u, v = ybr, ar
		}

		witnesses[i] = capsuleWitness{a: a, b: b, swap: swap}
		capsules[i] = capsule{U: u, V: v}
	}

	e, err := ballotChallenge(pk, omega, capsules)
	if err != nil {
		return nil, err
	}

	unitInv, err := bigint.InvMod(unit, n)
	if err != nil {
		return nil, err
	}

	responses := make([]branchResponse, capsuleCount)
	for i, consume := range e {
		w := witnesses[i]
		if !consume {
			responses[i] = branchResponse{Opened: true, A: w.a, B: w.b, Swap: w.swap}
			continue
		}
		z := w.a
		if claimedBit == 1 {
			z = w.b
		}
		witness, err := bigint.MulMod(unitInv, z, n)
		if err != nil {
			return nil, err
		}
		responses[i] = branchResponse{Opened: false, Witness: witness}
	}

	return &BallotProof{
		Omega:     new(big.Int).Set(omega),
		Capsules:  capsules,
		Challenge: e,
		Responses: responses,
	}, nil
}

// ballotChallenge derives the N-bit challenge vector from the canonical
// encoding of (omega, (u_i, v_i)_{i<N}), per spec.md §4.6 step 2.
func ballotChallenge(pk *benaloh.PublicKey, omega *big.Int, capsules []capsule) ([]bool, error) {
	fields := make([]*big.Int, 0, 1+2*len(capsules))
	fields = append(fields, omega)
	for _, c := range capsules {
		fields = append(fields, c.U, c.V)
	}
	msg, err := challenge.Canon(pk.Width(), fields...)
	if err != nil {
		return nil, err
	}
	return challenge.HashBits(msg, len(capsules))
}

// Verify recomputes the challenge from the commitment and checks every
// capsule branch (spec.md §4.6 step 4). Accepts iff all N branches pass.
func (proof *BallotProof) Verify(pk *benaloh.PublicKey) error {
	capsuleCount := len(proof.Capsules)
	if len(proof.Responses) != capsuleCount || len(proof.Challenge) != capsuleCount {
		return ErrProofShape
	}

	e, err := ballotChallenge(pk, proof.Omega, proof.Capsules)
	if err != nil {
		return err
	}
	for i := range e {
		if e[i] != proof.Challenge[i] {
			return ErrVerifyFailure
		}
	}

	n := pk.N()
	y := pk.Y()
	r := pk.R()

	for i, resp := range proof.Responses {
		c := proof.Capsules[i]
		if proof.Challenge[i] {
			wr, err := bigint.PowMod(resp.Witness, r, n)
			if err != nil {
				return err
			}
			candidate, err := bigint.MulMod(proof.Omega, wr, n)
			if err != nil {
				return err
			}
			if candidate.Cmp(c.U) != 0 && candidate.Cmp(c.V) != 0 {
				return ErrVerifyFailure
			}
			continue
		}

		ar, err := bigint.PowMod(resp.A, r, n)
		if err != nil {
			return err
		}
		br, err := bigint.PowMod(resp.B, r, n)
		if err != nil {
			return err
		}
		ybr, err := bigint.MulMod(y, br, n)
		if err != nil {
			return err
		}
		u, v := ar, ybr
		if resp.Swap {
			u, v = ybr, ar
		}
		if u.Cmp(c.U) != 0 || v.Cmp(c.V) != 0 {
			return ErrVerifyFailure
		}
	}
	return nil
}
