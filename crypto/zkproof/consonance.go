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

// ConsonanceProof is Phase A of the residue-class knowledge protocol of
// spec.md §4.8. A voter picks a ciphertext Omega encrypting a value only it
// knows and proves it knows that value's residue class without revealing
// it; once the authority accepts this proof, Phase B (the authority
// decrypting Omega and the voter checking the result against its own
// value, run by the election package) either vindicates or indicts the
// authority's decryption oracle.
type ConsonanceProof struct {
	Omega      *big.Int
	OmegaPrime *big.Int
	Challenge  *big.Int
	Response   *big.Int
}

// NewConsonanceProof proves that omega = pk.EncryptWithRandomness(vote),
// for a vote the prover alone knows. Unlike BallotProof and ResidueProof,
// this protocol's response is a bare integer in Z_r; it needs no witness
// over the encryption randomness because the verifier tests residue-ness
// directly with its secret phi instead of checking an exponentiation
// against a revealed root.
func NewConsonanceProof(pk *benaloh.PublicKey, vote, omega *big.Int) (*ConsonanceProof, error) {
	r := pk.R()

	votePrime, err := bigint.RandMod(r)
	if err != nil {
		return nil, err
	}
	_, unitPrime, err := pk.RthResidue()
	if err != nil {
		return nil, err
	}
	omegaPrime, err := pk.EncryptWithUnit(votePrime, unitPrime)
	if err != nil {
		return nil, err
	}

	msg, err := challenge.Canon(pk.Width(), omega, omegaPrime)
	if err != nil {
		return nil, err
	}
	b := challenge.HashR(msg, r)

	rho := new(big.Int).Mul(b, vote)
	rho.Add(rho, votePrime)
	rho.Mod(rho, r)

	return &ConsonanceProof{
		Omega:      new(big.Int).Set(omega),
		OmegaPrime: omegaPrime,
		Challenge:  b,
		Response:   rho,
	}, nil
}

// Verify checks 0 <= Response < r and that
// (Omega^Challenge * OmegaPrime * y^-Response) is an r-th residue mod n,
// using the authority's secret phi to test residue-ness directly rather
// than attempting to extract a root (spec.md §4.8).
func (proof *ConsonanceProof) Verify(sk *benaloh.SecretKey) error {
	pk := sk.PublicKey
	n := pk.N()
	r := pk.R()

	if err := bigint.InRange(proof.Response, bigint.Zero, r); err != nil {
		return ErrInvalidRange
	}

	msg, err := challenge.Canon(pk.Width(), proof.Omega, proof.OmegaPrime)
	if err != nil {
		return err
	}
	b := challenge.HashR(msg, r)
	if b.Cmp(proof.Challenge) != 0 {
		return ErrVerifyFailure
	}

	omegaB, err := bigint.PowMod(proof.Omega, b, n)
	if err != nil {
		return err
	}
	lhs, err := bigint.MulMod(omegaB, proof.OmegaPrime, n)
	if err != nil {
		return err
	}
	yInv, err := bigint.InvMod(pk.Y(), n)
	if err != nil {
		return err
	}
	yInvRho, err := bigint.PowMod(yInv, proof.Response, n)
	if err != nil {
		return err
	}
	lhs, err = bigint.MulMod(lhs, yInvRho, n)
	if err != nil {
		return err
	}

	ok, err := sk.IsRthResidue(lhs)
	if err != nil {
		return err
	}
	if !ok {
		return ErrVerifyFailure
	}
	return nil
}
