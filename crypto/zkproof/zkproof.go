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

// Package zkproof implements the three sigma protocols that make the
// benaloh package usable as a verifiable election scheme: a proof that a
// ciphertext encrypts 0 or 1 (BallotProof), a proof that a value is an
// r-th residue (ResidueProof, used over the tally), and a proof of
// knowledge of the residue class of a self-chosen ciphertext
// (ConsonanceProof, used to keep the authority's decryption honest). Each
// is a plain data value plus a Verify method, following the
// NewXxxProof/Verify shape of crypto/zkproof in this module's teacher
// repo rather than an inheritance hierarchy.
package zkproof

import "errors"

var (
	// ErrVerifyFailure is returned when a proof fails verification.
	ErrVerifyFailure = errors.New("zkproof: verification failed")
	// ErrInvalidRange is returned when a response value falls outside its required range.
	ErrInvalidRange = errors.New("zkproof: response out of range")
	// ErrInvalidVote is returned when NewBallotProof is asked to prove a vote outside {0, 1}.
	ErrInvalidVote = errors.New("zkproof: vote is not 0 or 1")
	// ErrProofShape is returned when a transcript's slice lengths are inconsistent.
	ErrProofShape = errors.New("zkproof: malformed proof transcript")
)
