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


package dataset

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/poiesic/pairgen/core"
)

const writeBufferSize = 64 * 1024

// WriteFileAtomic writes path through fn so that readers only ever see the
// previous file or the complete new one. Data goes to a temp file in the same
// directory, is flushed and fsynced, then renamed over path. On any failure
// the temp file is removed and path is left untouched.
func WriteFileAtomic(path string, perm os.FileMode, fn func(w io.Writer) error) error {
	tmpPath, err := stage(path, perm, fn)
	if err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	// Best effort: persist the rename itself.
	_ = syncDir(filepath.Dir(path))
	return nil
}

// stage writes the output of fn to a synced temp file next to path and
// returns its name. The caller must rename or remove it.
func stage(path string, perm os.FileMode, fn func(w io.Writer) error) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()

	fail := func(err error) (string, error) {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", err
	}

	if err := tmp.Chmod(perm); err != nil {
		return fail(err)
	}
	bw := bufio.NewWriterSize(tmp, writeBufferSize)
	if err := fn(bw); err != nil {
		return fail(err)
	}
	if err := bw.Flush(); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", err
	}
	return tmpPath, nil
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}

// WriteDataset atomically writes pairs as a CSV dataset at path.
func WriteDataset(path string, pairs []core.SentencePair) error {
	return WriteFileAtomic(path, 0o644, func(w io.Writer) error {
		return WriteCSV(w, pairs)
	})
}
