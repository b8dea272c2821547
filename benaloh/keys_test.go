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
	"math/big"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/getamis/benaloh/crypto/bigint"
)

var _ = Describe("GenerateKeys", func() {
	It("produces a key whose x has multiplicative order exactly r (spec.md §8, property 2)", func() {
		// spec.md E1: r=5, p=11, q=7, n=77, phi=60, phi/r=12.
		params := &Params{R: big.NewInt(5), P: big.NewInt(11), Q: big.NewInt(7)}
		sk, err := GenerateKeys(params)
		Expect(err).Should(BeNil())

		Expect(bigint.IsCoprime(sk.Y(), sk.N())).Should(BeTrue())

		phiOverR := new(big.Int).Div(sk.phi, sk.r)
		xCheck, err := bigint.PowMod(sk.Y(), phiOverR, sk.N())
		Expect(err).Should(BeNil())
		Expect(xCheck.Cmp(bigint.One)).ShouldNot(BeZero())

		xr, err := bigint.PowMod(sk.X(), sk.R(), sk.N())
		Expect(err).Should(BeNil())
		Expect(xr.Cmp(bigint.One)).Should(BeZero())

		for k := int64(1); k < 5; k++ {
			xk, err := bigint.PowMod(sk.X(), big.NewInt(k), sk.N())
			Expect(err).Should(BeNil())
			Expect(xk.Cmp(bigint.One)).ShouldNot(BeZero())
		}
	})

	It("holds key validity for a PGen-generated triplet too", func() {
		params, err := GenerateParams(10, 32, 32)
		Expect(err).Should(BeNil())
		sk, err := GenerateKeys(params)
		Expect(err).Should(BeNil())
		Expect(sk.X().Cmp(bigint.One)).ShouldNot(BeZero())
	})
})
