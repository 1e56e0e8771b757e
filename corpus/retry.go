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


package corpus

import (
	"context"
	"log/slog"
	"time"
)

// retryPolicy runs an operation up to attempts times, sleeping delay before
// the first retry and doubling it after each one.
type retryPolicy struct {
	attempts int
	delay    time.Duration
	logger   *slog.Logger
	// permanent reports errors that retrying cannot fix. Nil retries all.
	permanent func(error) bool
}

// do returns nil on the first success, ctx.Err() if ctx ends first, and
// otherwise the last error.
func (p retryPolicy) do(ctx context.Context, what string, op func(ctx context.Context) error) error {
	if p.attempts < 1 {
		return ErrInvalidMaxAttempts
	}

	delay := p.delay
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := op(ctx)
		if err == nil {
			return nil
		}
		if attempt == p.attempts || (p.permanent != nil && p.permanent(err)) {
			return err
		}

		p.logger.Warn("retrying", "op", what, "attempt", attempt, "of", p.attempts, "delay", delay, "err", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}
