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

// Package config reads the YAML file that drives a simulated election,
// the way example/config.ReadConfigFile reads a DKG config in this
// module's teacher repo.
package config

import (
	"io/ioutil"

	"gopkg.in/yaml.v2"
)

// VoterConfig describes one simulated voter. Random draws a binary vote
// (0 or 1) at election time instead of using a fixed Vote.
type VoterConfig struct {
	ID     string `yaml:"id"`
	Vote   *int64 `yaml:"vote"`
	Random bool   `yaml:"random"`
}

// Config is the YAML-driven election configuration: the bit widths fed to
// PGen, the ballot-proof capsule count N, the consonance-proof round count
// K, and the roster of voters.
type Config struct {
	BitsR            int           `yaml:"bits_r"`
	BitsP            int           `yaml:"bits_p"`
	BitsQ            int           `yaml:"bits_q"`
	BallotCapsules   int           `yaml:"ballot_capsules"`
	ConsonanceRounds int           `yaml:"consonance_rounds"`
	Voters           []VoterConfig `yaml:"voters"`
}

// Defaults returns the small-but-meaningful parameter sizes spec.md §8
// names for its test suite (r ~16 bits, p, q ~64 bits), so the CLI runs to
// completion in well under a second with no config file supplied.
func Defaults() *Config {
	return &Config{
		BitsR:            16,
		BitsP:            64,
		BitsQ:            64,
		BallotCapsules:   DefaultCapsuleCount,
		ConsonanceRounds: DefaultConsonanceRounds,
		Voters: []VoterConfig{
			{ID: "voter-1", Random: true},
			{ID: "voter-2", Random: true},
			{ID: "voter-3", Random: true},
		},
	}
}

// DefaultCapsuleCount and DefaultConsonanceRounds are the N and K Defaults uses.
const (
	DefaultCapsuleCount     = 256
	DefaultConsonanceRounds = 8
)

// Load reads and parses a YAML election config from path.
func Load(path string) (*Config, error) {
	c := &Config{}
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, err
	}
	return c, nil
}
