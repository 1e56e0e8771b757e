// Package publish uploads finished datasets to S3 or an S3-compatible store.
//
// Publication is optional. NewPublisher returns Disabled() when no bucket is
// configured, and callers treat ErrPublisherDisabled as "nothing to do".
package publish
