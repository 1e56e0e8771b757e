package publish

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
)

// ErrPublisherDisabled indicates that publication is not configured.
var ErrPublisherDisabled = errors.New("dataset publisher disabled")

// ErrMissingPath indicates an Input without a local file to publish.
var ErrMissingPath = errors.New("publish input path is required")

// Input names a finished dataset file and the object key it is stored under.
type Input struct {
	Path string
	Key  string
}

// Result captures where a dataset ended up.
type Result struct {
	Key      string
	Location string
}

// Publisher copies finished datasets to shared storage.
type Publisher interface {
	Publish(ctx context.Context, input Input) (Result, error)
}

type disabledPublisher struct{}

func (disabledPublisher) Publish(_ context.Context, _ Input) (Result, error) {
	return Result{}, ErrPublisherDisabled
}

// Disabled returns a publisher that always signals disabled publication.
func Disabled() Publisher {
	return disabledPublisher{}
}

// IsDisabled reports whether p is the disabled publisher.
func IsDisabled(p Publisher) bool {
	if p == nil {
		return true
	}
	_, ok := p.(disabledPublisher)
	return ok
}

// IsPermanent reports whether err will recur on retry: publication is
// disabled, or the local dataset file is missing.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrPublisherDisabled) ||
		errors.Is(err, ErrMissingPath) ||
		errors.Is(err, fs.ErrNotExist)
}

// Key builds the object key for a dataset file: prefix/runID/base name.
// Empty segments are omitted.
func Key(prefix, runID, file string) string {
	parts := make([]string, 0, 3)
	if p := strings.Trim(prefix, "/"); p != "" {
		parts = append(parts, p)
	}
	if runID != "" {
		parts = append(parts, runID)
	}
	parts = append(parts, filepath.Base(file))
	return path.Join(parts...)
}
