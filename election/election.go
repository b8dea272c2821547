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

// Package election orchestrates a single-process simulation of the roles
// spec.md §4.9 describes: voters that cast encrypted ballots with a
// validity proof, an authority that tallies them and proves the tally
// honest, and a consonance challenge that lets a voter catch a lying
// decryption oracle. There are no goroutines or channels here (spec.md
// §5): every step is a synchronous call that returns a value.
package election

import (
	"errors"
	"math/big"

	"github.com/getamis/benaloh/benaloh"
	"github.com/getamis/benaloh/crypto/bigint"
	"github.com/getamis/benaloh/crypto/zkproof"
	"github.com/getamis/benaloh/logger"
)

// ErrNoVoters is returned by Election.Run when there are no voters to tally.
var ErrNoVoters = errors.New("election: no voters")

// Authority holds the secret key. It decrypts, tallies, proves the tally
// an r-th residue, and answers per-voter consonance challenges.
type Authority struct {
	sk *benaloh.SecretKey
}

// NewAuthority wraps a secret key as an election authority.
func NewAuthority(sk *benaloh.SecretKey) *Authority {
	return &Authority{sk: sk}
}

// PublicKey returns the authority's public key, the one voters encrypt against.
func (a *Authority) PublicKey() *benaloh.PublicKey {
	return a.sk.PublicKey
}

// Decrypt recovers the plaintext of omega. It backs both the tally
// decryption in Run and Phase B of the consonance protocol.
func (a *Authority) Decrypt(omega *big.Int) (*big.Int, error) {
	return a.sk.Decrypt(omega)
}

// Tally decrypts combined and proves that combined / y^tally is an r-th
// residue. combined is the product of every counted ballot's ciphertext,
// so combined = y^voteSum * W^r where W is combinedWitness (the product
// of every counted ballot's encryption randomness) and voteSum is the
// un-reduced integer sum of the accepted votes. tally = voteSum mod r, so
// combined / y^tally = (y^k * W)^r for k = (voteSum - tally) / r: once
// voteSum reaches r or beyond, the residue-proof witness is y^k * W, not
// W alone, or the proof is built around the wrong root and rejects a
// fully honest tally.
func (a *Authority) Tally(combined, combinedWitness, voteSum *big.Int) (tally *big.Int, proof *zkproof.ResidueProof, err error) {
	tally, err = a.sk.Decrypt(combined)
	if err != nil {
		return nil, nil, err
	}
	pk := a.sk.PublicKey
	n := pk.N()

	yInv, err := bigint.InvMod(pk.Y(), n)
	if err != nil {
		return nil, nil, err
	}
	yInvTally, err := bigint.PowMod(yInv, tally, n)
	if err != nil {
		return nil, nil, err
	}
	z, err := bigint.MulMod(combined, yInvTally, n)
	if err != nil {
		return nil, nil, err
	}

	k := new(big.Int).Sub(voteSum, tally)
	k.Div(k, pk.R())
	yk, err := bigint.PowMod(pk.Y(), k, n)
	if err != nil {
		return nil, nil, err
	}
	witness, err := bigint.MulMod(yk, combinedWitness, n)
	if err != nil {
		return nil, nil, err
	}

	proof, err = zkproof.NewResidueProof(pk, z, witness)
	if err != nil {
		return nil, nil, err
	}
	return tally, proof, nil
}

// VerifyConsonance checks Phase A of a voter's consonance challenge.
func (a *Authority) VerifyConsonance(proof *zkproof.ConsonanceProof) error {
	return proof.Verify(a.sk)
}

// Voter casts one ballot and can challenge the authority's honesty via the
// consonance protocol.
type Voter struct {
	ID   string
	Vote uint64

	pk *benaloh.PublicKey
}

// NewVoter creates a voter casting vote against pk. vote must be 0 or 1.
func NewVoter(id string, vote uint64, pk *benaloh.PublicKey) *Voter {
	return &Voter{ID: id, Vote: vote, pk: pk}
}

// Ballot is one voter's submission to the ballot box: a ciphertext and its
// validity proof. It is never mutated after construction.
type Ballot struct {
	VoterID string
	Omega   *big.Int
	Proof   *zkproof.BallotProof
}

// CastBallot encrypts the voter's vote and produces its ballot validity
// proof, returning the encryption randomness alongside so the election
// driver can fold it into the tally's residue proof. The randomness never
// appears on Ballot itself.
func (v *Voter) CastBallot(capsuleCount int) (*Ballot, *big.Int, error) {
	vote := new(big.Int).SetUint64(v.Vote)
	omega, unit, err := v.pk.EncryptWithRandomness(vote)
	if err != nil {
		return nil, nil, err
	}
	proof, err := zkproof.NewBallotProof(v.pk, v.Vote, unit, omega, capsuleCount)
	if err != nil {
		return nil, nil, err
	}
	return &Ballot{VoterID: v.ID, Omega: omega, Proof: proof}, unit, nil
}

// Challenge issues one round of the consonance protocol's Phase A: the
// voter picks a fresh ciphertext encrypting a value only it knows and
// proves knowledge of that value's residue class, returning the proof and
// the value so the caller can check the authority's Phase B decryption
// against it.
func (v *Voter) Challenge() (proof *zkproof.ConsonanceProof, vote *big.Int, err error) {
	vote, err = bigint.RandMod(v.pk.R())
	if err != nil {
		return nil, nil, err
	}
	omega, _, err := v.pk.EncryptWithRandomness(vote)
	if err != nil {
		return nil, nil, err
	}
	proof, err = zkproof.NewConsonanceProof(v.pk, vote, omega)
	if err != nil {
		return nil, nil, err
	}
	return proof, vote, nil
}

// BallotResult records whether one ballot's validity proof was accepted.
type BallotResult struct {
	VoterID  string
	Accepted bool
}

// ConsonanceResult records the outcome of one consonance-protocol round.
type ConsonanceResult struct {
	VoterID  string
	Round    int
	Accepted bool
}

// Result is everything Election.Run produced: the decrypted tally, the
// per-ballot acceptance record, the tally's residue-proof verdict, and
// every consonance round's verdict.
type Result struct {
	Tally             *big.Int
	Ballots           []BallotResult
	ResidueProofValid bool
	ConsonanceRounds  []ConsonanceResult
}

// Election wires one Authority against a roster of Voters.
type Election struct {
	Authority        *Authority
	Voters           []*Voter
	CapsuleCount     int
	ConsonanceRounds int
}

// New builds an Election. capsuleCount and consonanceRounds are the N and K
// of spec.md §4.6 and §4.8 respectively.
func New(authority *Authority, voters []*Voter, capsuleCount, consonanceRounds int) *Election {
	return &Election{
		Authority:        authority,
		Voters:           voters,
		CapsuleCount:     capsuleCount,
		ConsonanceRounds: consonanceRounds,
	}
}

// foldBallot verifies ballot's validity proof against pk. If it fails,
// combined and combinedWitness are returned unchanged and accepted is
// false: a spoiled ballot is dropped from the tally rather than aborting
// the whole election (see DESIGN.md). If it passes, ballot.Omega and its
// encryption randomness unit are folded in.
func foldBallot(pk *benaloh.PublicKey, ballot *Ballot, unit, combined, combinedWitness *big.Int) (newCombined, newCombinedWitness *big.Int, accepted bool, err error) {
	if err := ballot.Proof.Verify(pk); err != nil {
		return combined, combinedWitness, false, nil
	}
	newCombined, err = pk.Combine(combined, ballot.Omega)
	if err != nil {
		return nil, nil, false, err
	}
	newCombinedWitness, err = bigint.MulMod(combinedWitness, unit, pk.N())
	if err != nil {
		return nil, nil, false, err
	}
	return newCombined, newCombinedWitness, true, nil
}

// Run collects every voter's ballot, verifies its validity proof (a
// rejected ballot is logged and excluded from the tally rather than
// aborting the whole election), combines the accepted ciphertexts,
// decrypts the tally and proves it an r-th residue, and runs
// ConsonanceRounds rounds of the consonance check cycling through Voters.
func (e *Election) Run() (*Result, error) {
	if len(e.Voters) == 0 {
		return nil, ErrNoVoters
	}
	pk := e.Authority.PublicKey()
	n := pk.N()

	combined := new(big.Int).Set(bigint.One)
	combinedWitness := new(big.Int).Set(bigint.One)
	voteSum := new(big.Int)

	ballotResults := make([]BallotResult, 0, len(e.Voters))
	for _, voter := range e.Voters {
		ballot, unit, err := voter.CastBallot(e.CapsuleCount)
		if err != nil {
			return nil, err
		}

		var accepted bool
		combined, combinedWitness, accepted, err = foldBallot(pk, ballot, unit, combined, combinedWitness)
		if err != nil {
			return nil, err
		}
		if !accepted {
			logger.Logger().Warn("ballot rejected", "voter", voter.ID)
		} else {
			voteSum.Add(voteSum, new(big.Int).SetUint64(voter.Vote))
		}
		ballotResults = append(ballotResults, BallotResult{VoterID: voter.ID, Accepted: accepted})
	}

	tally, residueProof, err := e.Authority.Tally(combined, combinedWitness, voteSum)
	if err != nil {
		return nil, err
	}
	residueValid := residueProof.Verify(pk) == nil

	consonanceResults := make([]ConsonanceResult, 0, e.ConsonanceRounds)
	for round := 0; round < e.ConsonanceRounds; round++ {
		voter := e.Voters[round%len(e.Voters)]
		proof, vote, err := voter.Challenge()
		if err != nil {
			return nil, err
		}

		accepted := e.Authority.VerifyConsonance(proof) == nil
		if accepted {
			decrypted, err := e.Authority.Decrypt(proof.Omega)
			if err != nil {
				return nil, err
			}
			accepted = decrypted.Cmp(vote) == 0
		}
		if !accepted {
			logger.Logger().Warn("consonance round rejected", "voter", voter.ID, "round", round)
		}
		consonanceResults = append(consonanceResults, ConsonanceResult{VoterID: voter.ID, Round: round, Accepted: accepted})
	}

	return &Result{
		Tally:             tally,
		Ballots:           ballotResults,
		ResidueProofValid: residueValid,
		ConsonanceRounds:  consonanceResults,
	}, nil
}
