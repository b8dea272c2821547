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

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/getamis/benaloh/crypto/bigint"
	"github.com/getamis/benaloh/crypto/challenge"
)

var _ = Describe("ResidueProof", func() {
	var sk = testKeys()

	It("accepts an honestly generated r-th residue (spec.md E5)", func() {
		root := big.NewInt(2)
		z, err := bigint.PowMod(root, sk.R(), sk.N())
		Expect(err).Should(BeNil())
		Expect(z.Int64()).Should(Equal(int64(32)))

		proof, err := NewResidueProof(sk.PublicKey, z, root)
		Expect(err).Should(BeNil())
		Expect(proof.Verify(sk.PublicKey)).Should(BeNil())
	})

	It("derives the same challenge from the same commitment every time (spec.md E6)", func() {
		root := big.NewInt(2)
		z, err := bigint.PowMod(root, sk.R(), sk.N())
		Expect(err).Should(BeNil())
		zPrime := big.NewInt(9)

		msg, err := challenge.Canon(sk.PublicKey.Width(), z, zPrime)
		Expect(err).Should(BeNil())
		b1 := challenge.HashR(msg, sk.R())
		b2 := challenge.HashR(msg, sk.R())
		Expect(b1.Cmp(b2)).Should(BeZero())
	})

	It("rejects a forged proof over a non r-th-residue", func() {
		r := sk.R()
		n := sk.N()
		y := sk.Y()

		a, err := bigint.RandUnitMod(n)
		Expect(err).Should(BeNil())
		ar, err := bigint.PowMod(a, r, n)
		Expect(err).Should(BeNil())
		z, err := bigint.MulMod(y, ar, n) // y * a^r is not an r-th residue under consonance
		Expect(err).Should(BeNil())

		// A zero challenge would make rootPrime a valid response for any z,
		// so the commitment is redrawn until the challenge is nonzero.
		var zPrime, rootPrime, b *big.Int
		for {
			zPrime, rootPrime, err = sk.RthResidue()
			Expect(err).Should(BeNil())
			msg, err := challenge.Canon(sk.PublicKey.Width(), z, zPrime)
			Expect(err).Should(BeNil())
			b = challenge.HashR(msg, r)
			if b.Sign() != 0 {
				break
			}
		}

		forged := &ResidueProof{
			Z:         z,
			ZPrime:    zPrime,
			Challenge: b,
			Response:  rootPrime, // no root of z is known, so this response is wrong
		}
		Expect(forged.Verify(sk.PublicKey)).ShouldNot(BeNil())
	})

	It("rejects a tampered challenge field", func() {
		root := big.NewInt(2)
		z, err := bigint.PowMod(root, sk.R(), sk.N())
		Expect(err).Should(BeNil())
		proof, err := NewResidueProof(sk.PublicKey, z, root)
		Expect(err).Should(BeNil())

		proof.Challenge = new(big.Int).Add(proof.Challenge, big.NewInt(1))
		Expect(proof.Verify(sk.PublicKey)).Should(Equal(ErrVerifyFailure))
	})
})
