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

// ResidueProof is a Fiat-Shamir transcript proving that Z is an r-th
// residue mod N, i.e. that the prover knows a root with Z = root^r mod n
// (spec.md §4.7). The election driver uses this over the aggregated tally
// ciphertext, divided by y^tally, to let anyone check the reported tally
// without learning the factorization.
type ResidueProof struct {
	Z         *big.Int
	ZPrime    *big.Int
	Challenge *big.Int
	Response  *big.Int
}

// NewResidueProof proves knowledge of root such that z = root^r mod n.
func NewResidueProof(pk *benaloh.PublicKey, z, root *big.Int) (*ResidueProof, error) {
	n := pk.N()
	r := pk.R()

	zPrime, rootPrime, err := pk.RthResidue()
	if err != nil {
		return nil, err
	}

	msg, err := challenge.Canon(pk.Width(), z, zPrime)
	if err != nil {
		return nil, err
	}
	b := challenge.HashR(msg, r)

	rootB, err := bigint.PowMod(root, b, n)
	if err != nil {
		return nil, err
	}
	rho, err := bigint.MulMod(rootPrime, rootB, n)
	if err != nil {
		return nil, err
	}

	return &ResidueProof{
		Z:         new(big.Int).Set(z),
		ZPrime:    zPrime,
		Challenge: b,
		Response:  rho,
	}, nil
}

// Verify recomputes the challenge from (Z, ZPrime) rather than trusting the
// stored Challenge field, then checks Response^r == ZPrime * Z^Challenge (mod n).
func (proof *ResidueProof) Verify(pk *benaloh.PublicKey) error {
	n := pk.N()
	r := pk.R()

	msg, err := challenge.Canon(pk.Width(), proof.Z, proof.ZPrime)
	if err != nil {
		return err
	}
	b := challenge.HashR(msg, r)
	if b.Cmp(proof.Challenge) != 0 {
		return ErrVerifyFailure
	}

	lhs, err := bigint.PowMod(proof.Response, r, n)
	if err != nil {
		return err
	}
	zb, err := bigint.PowMod(proof.Z, b, n)
	if err != nil {
		return err
	}
	rhs, err := bigint.MulMod(proof.ZPrime, zb, n)
	if err != nil {
		return err
	}
	if lhs.Cmp(rhs) != 0 {
		return ErrVerifyFailure
	}
	return nil
}
