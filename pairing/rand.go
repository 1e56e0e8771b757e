// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package pairing

import "math/rand/v2"

// Rand is the randomness the balancer draws on. *rand.Rand satisfies it.
type Rand interface {
	// Shuffle pseudo-randomizes the order of n elements.
	Shuffle(n int, swap func(i, j int))
	// IntN returns a value in [0, n). Panics if n <= 0.
	IntN(n int) int
}

var _ Rand = (*rand.Rand)(nil)

// NewRand returns a PCG source for seed. Different streams with the same seed
// are independent, so each source file can own one.
func NewRand(seed int64, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), stream))
}

// NewRandomRand returns a PCG source seeded from the runtime.
func NewRandomRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
