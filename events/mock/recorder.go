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


// Package mock provides an in-memory events.Recorder for tests.
package mock

import (
	"context"
	"sync"

	"github.com/poiesic/pairgen/events"
)

// Recorder keeps every recorded event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []events.Event

	// RecordFunc, if set, is called for every event after it is stored.
	RecordFunc func(ctx context.Context, ev events.Event)
}

var _ events.Recorder = (*Recorder)(nil)

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record implements events.Recorder.
func (r *Recorder) Record(ctx context.Context, ev events.Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	fn := r.RecordFunc
	r.mu.Unlock()

	if fn != nil {
		fn(ctx, ev)
	}
}

// Events returns a copy of the recorded events in arrival order.
func (r *Recorder) Events() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Kinds returns the kinds of the recorded events in arrival order.
func (r *Recorder) Kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Kind
	}
	return out
}

// Count returns how many events of kind were recorded.
func (r *Recorder) Count(kind string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

// ForSource returns the events recorded for source.
func (r *Recorder) ForSource(source string) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, ev := range r.events {
		if ev.Source == source {
			out = append(out, ev)
		}
	}
	return out
}
