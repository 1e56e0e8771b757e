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


// Package corpus runs the dataset build over a directory of source files.
//
// Each file is read whole, deduplicated line by line (or paragraph by
// paragraph in blocks mode), cleaned, split into related pairs, balanced and
// written atomically next to its siblings in the output directory. Files are
// independent: they run concurrently on a worker pool, each with its own
// randomness source, and a failure in one never stops the others.
//
// Usage:
//
//	runner, err := corpus.NewRunner(cfg,
//	    corpus.WithRecorder(events.NewSlogRecorder(nil)),
//	    corpus.WithProgress(os.Stderr),
//	)
//	if err != nil {
//	    return err
//	}
//	summary, err := runner.Run(ctx)
package corpus
