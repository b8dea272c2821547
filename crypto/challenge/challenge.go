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

// Package challenge derives Fiat-Shamir challenges from a canonical
// big-endian encoding of a sigma protocol's prior messages, the way
// crypto/oprf hashes its protocol messages with sha3 before reducing into
// a field. The encoding itself is the wire format spec.md §6 pins: every
// bigint is serialized at a fixed width and concatenated in
// protocol-defined order, with no length-prefixing or tagging.
package challenge

import (
	"errors"
	"math/big"

	"golang.org/x/crypto/sha3"
)

// ErrInvalidInput is returned when the width is too small for a field's value.
var ErrInvalidInput = errors.New("challenge: invalid input")

// Canon encodes a sequence of bigints as the big-endian concatenation of
// their fixed-width encodings, each zero-padded on the left to widthBytes.
// It is the sole canonical serialization used anywhere in this module.
func Canon(widthBytes int, fields ...*big.Int) ([]byte, error) {
	out := make([]byte, 0, widthBytes*len(fields))
	for _, f := range fields {
		b := f.Bytes()
		if len(b) > widthBytes {
			return nil, ErrInvalidInput
		}
		padded := make([]byte, widthBytes)
		copy(padded[widthBytes-len(b):], b)
		out = append(out, padded...)
	}
	return out, nil
}

// HashR hashes msg with SHA3-256 and reduces the digest modulo r, producing
// a challenge in Z_r. r is expected to be small (spec.md targets ~40 bits
// at most) so the reduction bias from a 256-bit digest is negligible.
func HashR(msg []byte, r *big.Int) *big.Int {
	digest := sha3.Sum256(msg)
	c := new(big.Int).SetBytes(digest[:])
	return c.Mod(c, r)
}

// HashBits hashes msg with SHA3-256 and returns the first n leading bits of
// the digest as a []bool, most-significant bit first. n must be <= 256.
func HashBits(msg []byte, n int) ([]bool, error) {
	if n < 0 || n > 256 {
		return nil, ErrInvalidInput
	}
	digest := sha3.Sum256(msg)
	bits := make([]bool, n)
	for i := 0; i < n; i++ {
		byteIdx := i / 8
		bitIdx := 7 - uint(i%8)
		bits[i] = (digest[byteIdx]>>bitIdx)&1 == 1
	}
	return bits, nil
}
