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
)

var _ = Describe("ConsonanceProof", func() {
	var sk = testKeys()

	It("accepts an honest voter for every vote in [0, r)", func() {
		r := sk.R()
		for m := int64(0); m < r.Int64(); m++ {
			vote := big.NewInt(m)
			omega, _, err := sk.PublicKey.EncryptWithRandomness(vote)
			Expect(err).Should(BeNil())

			proof, err := NewConsonanceProof(sk.PublicKey, vote, omega)
			Expect(err).Should(BeNil())
			Expect(proof.Verify(sk)).Should(BeNil())
		}
	})

	It("rejects a response outside [0, r)", func() {
		omega, _, err := sk.PublicKey.EncryptWithRandomness(big.NewInt(1))
		Expect(err).Should(BeNil())
		proof, err := NewConsonanceProof(sk.PublicKey, big.NewInt(1), omega)
		Expect(err).Should(BeNil())

		proof.Response = new(big.Int).Set(sk.R())
		Expect(proof.Verify(sk)).Should(Equal(ErrInvalidRange))
	})

	It("rejects a proof built around the wrong vote", func() {
		trueVote := big.NewInt(1)
		claimedVote := big.NewInt(2)
		omega, _, err := sk.PublicKey.EncryptWithRandomness(trueVote)
		Expect(err).Should(BeNil())

		// Build the proof as if omega encrypted claimedVote instead of
		// trueVote: the response no longer lines up with omega's real class.
		// A zero challenge makes the response independent of the vote, so
		// the proof is rebuilt until the challenge is nonzero.
		var proof *ConsonanceProof
		for {
			proof, err = NewConsonanceProof(sk.PublicKey, claimedVote, omega)
			Expect(err).Should(BeNil())
			if proof.Challenge.Sign() != 0 {
				break
			}
		}
		Expect(proof.Verify(sk)).Should(Equal(ErrVerifyFailure))
	})

})
