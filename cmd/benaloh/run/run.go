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

// Package run is the benaloh CLI's only subcommand: it reads an election
// config (or falls back to config.Defaults), runs the simulated election,
// prints the tally and proof-verification summary, and picks the process
// exit code per spec.md §6.
package run

import (
	"errors"
	"math/big"

	"github.com/getamis/sirius/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/getamis/benaloh/benaloh"
	"github.com/getamis/benaloh/config"
	"github.com/getamis/benaloh/crypto/bigint"
	"github.com/getamis/benaloh/election"
	"github.com/getamis/benaloh/logger"
)

// ErrElectionFailed is returned when the election completes but some
// ballot, the residue proof, or a consonance round did not verify.
var ErrElectionFailed = errors.New("run: election did not fully verify")

// Cmd is the "run" subcommand.
var Cmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulated election and report the tally and proof verdicts",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}
		logger.SetLogger(log.New())

		cfg, err := loadConfig(viper.GetString("config"))
		if err != nil {
			return err
		}

		code, err := execute(cfg)
		if err != nil {
			return err
		}
		if code != 0 {
			return ErrElectionFailed
		}
		return nil
	},
}

func init() {
	Cmd.Flags().String("config", "", "election config file path; defaults to the bundled example sizes")
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Defaults(), nil
	}
	return config.Load(path)
}

// execute runs cfg's election and returns the process exit code: 0 iff
// every ballot, the residue proof, and every consonance round verified.
// It is split out from RunE so a test can drive it directly without
// shelling out to a binary.
func execute(cfg *config.Config) (int, error) {
	params, err := benaloh.GenerateParams(cfg.BitsR, cfg.BitsP, cfg.BitsQ)
	if err != nil {
		return 1, err
	}
	sk, err := benaloh.GenerateKeys(params)
	if err != nil {
		return 1, err
	}
	authority := election.NewAuthority(sk)

	voters := make([]*election.Voter, 0, len(cfg.Voters))
	for _, vc := range cfg.Voters {
		vote, err := resolveVote(vc)
		if err != nil {
			return 1, err
		}
		voters = append(voters, election.NewVoter(vc.ID, vote, sk.PublicKey))
	}

	e := election.New(authority, voters, cfg.BallotCapsules, cfg.ConsonanceRounds)
	result, err := e.Run()
	if err != nil {
		return 1, err
	}

	ok := result.ResidueProofValid
	accepted := 0
	for _, b := range result.Ballots {
		if b.Accepted {
			accepted++
		} else {
			ok = false
		}
	}
	consonancePassed := 0
	for _, c := range result.ConsonanceRounds {
		if c.Accepted {
			consonancePassed++
		} else {
			ok = false
		}
	}

	logger.Logger().Info("election complete",
		"tally", result.Tally.String(),
		"ballotsAccepted", accepted,
		"ballotsTotal", len(result.Ballots),
		"residueProofValid", result.ResidueProofValid,
		"consonanceRoundsPassed", consonancePassed,
		"consonanceRounds", len(result.ConsonanceRounds),
	)

	if !ok {
		return 1, nil
	}
	return 0, nil
}

// resolveVote returns vc's fixed vote, or a fresh random binary vote when
// vc asks for one. Ballots encode a yes/no choice (spec.md §4.6: the
// ballot-validity proof's statement is c in {0, 1}), not an arbitrary
// residue class, so "random" picks a coin flip rather than sampling [0, r).
func resolveVote(vc config.VoterConfig) (uint64, error) {
	if vc.Random || vc.Vote == nil {
		v, err := bigint.RandMod(big.NewInt(2))
		if err != nil {
			return 0, err
		}
		return v.Uint64(), nil
	}
	return uint64(*vc.Vote), nil
}
