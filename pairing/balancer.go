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

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/pairgen/core"
)

var (
	// ErrRandRequired is returned when a balancer is built without randomness.
	ErrRandRequired = errors.New("randomness source required")

	// ErrInvalidChunkSize is returned for a negative chunk size.
	ErrInvalidChunkSize = errors.New("chunk size must not be negative")
)

// BalanceStats reports the label counts after balancing.
type BalanceStats struct {
	Pairs     int
	Related   int
	Unrelated int
	Chunks    int // Independently balanced chunks
}

// Balancer relabels half of a pair set as unrelated by giving each of them
// the tail of another pair.
type Balancer struct {
	rnd       Rand
	chunkSize int
	logger    *slog.Logger
}

// Option configures a Balancer.
type Option func(*Balancer) error

// WithChunkSize makes Balance work on consecutive chunks of n pairs, each
// balanced on its own. Zero balances the whole set at once.
func WithChunkSize(n int) Option {
	return func(b *Balancer) error {
		if n < 0 {
			return ErrInvalidChunkSize
		}
		b.chunkSize = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Balancer) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewBalancer creates a Balancer drawing on rnd.
func NewBalancer(rnd Rand, opts ...Option) (*Balancer, error) {
	if rnd == nil {
		return nil, ErrRandRequired
	}
	b := &Balancer{
		rnd:    rnd,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Balance reorders and relabels pairs in place. With no chunk size it is
// BalanceChunks(pairs, 0).
func (b *Balancer) Balance(pairs []core.SentencePair) (BalanceStats, error) {
	return b.BalanceChunks(pairs, b.chunkSize)
}

// BalanceChunks balances every run of chunkSize consecutive pairs on its own;
// the last chunk may be shorter. chunkSize 0 treats pairs as one chunk.
// Each chunk of n pairs ends with exactly n/2 unrelated pairs.
//
// On error the contents of pairs are unspecified and must not be emitted.
func (b *Balancer) BalanceChunks(pairs []core.SentencePair, chunkSize int) (BalanceStats, error) {
	if chunkSize < 0 {
		return BalanceStats{}, ErrInvalidChunkSize
	}
	if chunkSize == 0 || chunkSize > len(pairs) {
		chunkSize = len(pairs)
	}

	stats := BalanceStats{Pairs: len(pairs)}
	for start := 0; start < len(pairs); start += chunkSize {
		end := min(start+chunkSize, len(pairs))
		related, unrelated, err := b.balance(pairs[start:end])
		if err != nil {
			return BalanceStats{}, fmt.Errorf("chunk at %d: %w", start, err)
		}
		stats.Related += related
		stats.Unrelated += unrelated
		stats.Chunks++
	}

	b.logger.Debug("balanced pairs",
		"pairs", stats.Pairs, "related", stats.Related, "unrelated", stats.Unrelated, "chunks", stats.Chunks)
	return stats, nil
}

// balance applies the four steps to one chunk:
//  1. shuffle
//  2. for i in [0, k), k = n/2: borrow the tail of a uniformly chosen j != i
//     and mark unrelated; donors are drawn with replacement
//  3. mark [k, n) related
//  4. shuffle again
//
// span_a is never written.
func (b *Balancer) balance(pairs []core.SentencePair) (related, unrelated int, err error) {
	n := len(pairs)
	if n == 0 {
		return 0, 0, nil
	}
	if n == 1 {
		// No donor exists.
		pairs[0].Label = core.LabelRelated
		return 1, 0, nil
	}

	swap := func(i, j int) { pairs[i], pairs[j] = pairs[j], pairs[i] }
	b.rnd.Shuffle(n, swap)

	k := n / 2
	for i := 0; i < k; i++ {
		// Uniform over [0, n) \ {i}.
		j := b.rnd.IntN(n - 1)
		if j >= i {
			j++
		}
		if j == i || j >= n {
			return 0, 0, fmt.Errorf("%w: donor %d for pair %d of %d", core.ErrInvariantViolation, j, i, n)
		}
		pairs[i].SpanB = pairs[j].SpanB
		pairs[i].Label = core.LabelUnrelated
	}
	for i := k; i < n; i++ {
		pairs[i].Label = core.LabelRelated
	}

	b.rnd.Shuffle(n, swap)

	for i := range pairs {
		switch pairs[i].Label {
		case core.LabelRelated:
			related++
		case core.LabelUnrelated:
			unrelated++
		}
	}
	if unrelated != k || related != n-k {
		return 0, 0, fmt.Errorf("%w: %d unrelated and %d related of %d, want %d unrelated",
			core.ErrInvariantViolation, unrelated, related, n, k)
	}
	return related, unrelated, nil
}
