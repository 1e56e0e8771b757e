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


// Package pairing builds labeled sentence pairs.
//
// A Splitter cuts each sentence into a head and a tail at a fixed ratio,
// giving a related pair. The Balancer then turns exactly half of a pair set
// into unrelated pairs by swapping in the tail of another pair, so a
// coherence classifier sees as many negatives as positives.
//
// All randomness comes from an explicit Rand. Seeding it makes a run
// reproducible:
//
//	b, err := pairing.NewBalancer(pairing.NewRand(42, 0))
//	if err != nil {
//	    return err
//	}
//	stats, err := b.Balance(pairs)
package pairing
