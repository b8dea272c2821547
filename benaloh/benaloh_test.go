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
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

// e1Keys returns the spec.md E1 keypair: r=5, p=11, q=7 (n=77, phi=60, phi/r=12).
func e1Keys() *SecretKey {
	params := &Params{R: big.NewInt(5), P: big.NewInt(11), Q: big.NewInt(7)}
	sk, err := GenerateKeys(params)
	Expect(err).Should(BeNil())
	return sk
}

var _ = Describe("Encrypt/Decrypt", func() {
	var sk = e1Keys()

	DescribeTable("round-trips every message in [0, r) (spec.md E1, property 3)", func(m int64) {
		omega, err := sk.PublicKey.Encrypt(big.NewInt(m))
		Expect(err).Should(BeNil())
		got, err := sk.Decrypt(omega)
		Expect(err).Should(BeNil())
		Expect(got.Int64()).Should(Equal(m))
	},
		Entry("m = 0", int64(0)),
		Entry("m = 1", int64(1)),
		Entry("m = 2", int64(2)),
		Entry("m = 3", int64(3)),
		Entry("m = 4", int64(4)),
	)

	It("rejects an out-of-range message", func() {
		_, err := sk.PublicKey.Encrypt(big.NewInt(5))
		Expect(err).Should(Equal(ErrInvalidMessage))
	})

	It("rejects decrypting a non-unit", func() {
		_, err := sk.Decrypt(big.NewInt(0))
		Expect(err).Should(Equal(ErrNotCoprime))
	})
})

var _ = Describe("Combine", func() {
	var sk = e1Keys()

	It("homomorphically adds plaintexts mod r (spec.md E2, property 4)", func() {
		omega2, err := sk.PublicKey.Encrypt(big.NewInt(2))
		Expect(err).Should(BeNil())
		omega3, err := sk.PublicKey.Encrypt(big.NewInt(3))
		Expect(err).Should(BeNil())

		combined, err := sk.PublicKey.Combine(omega2, omega3)
		Expect(err).Should(BeNil())

		got, err := sk.Decrypt(combined)
		Expect(err).Should(BeNil())
		Expect(got.Int64()).Should(Equal(int64(0))) // (2+3) mod 5 == 0
	})

	DescribeTable("holds for every pair of plaintexts", func(m1, m2 int64) {
		o1, err := sk.PublicKey.Encrypt(big.NewInt(m1))
		Expect(err).Should(BeNil())
		o2, err := sk.PublicKey.Encrypt(big.NewInt(m2))
		Expect(err).Should(BeNil())
		combined, err := sk.PublicKey.Combine(o1, o2)
		Expect(err).Should(BeNil())
		got, err := sk.Decrypt(combined)
		Expect(err).Should(BeNil())
		Expect(got.Int64()).Should(Equal((m1 + m2) % 5))
	},
		Entry("0+0", int64(0), int64(0)),
		Entry("1+4", int64(1), int64(4)),
		Entry("3+3", int64(3), int64(3)),
		Entry("4+4", int64(4), int64(4)),
	)
})
