package numidx

import (
	"errors"
	"fmt"

	"github.com/attrindex/numidx/bucket"
	"github.com/attrindex/numidx/forward"
	"github.com/attrindex/numidx/kvstore"
	"github.com/attrindex/numidx/resource"
)

var (
	// ErrNotFound is returned when a requested record or bucket key
	// does not exist.
	ErrNotFound = errors.New("numidx: not found")

	// ErrCorrupt is returned when a serialized bucket fails a
	// structural check during deserialization.
	ErrCorrupt = errors.New("numidx: corrupt bucket payload")

	// ErrInvariantViolation is returned when an add violates bucket
	// ordering or range invariants. It indicates a caller bug in the
	// covering-bucket lookup, never a data problem.
	ErrInvariantViolation = errors.New("numidx: invariant violation")

	// ErrBackpressure is returned by Put when the writer-admission
	// wait deadline expires before a writer slot becomes available.
	ErrBackpressure = errors.New("numidx: writer backpressure")
)

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, kvstore.ErrNotFound) || errors.Is(err, kvstore.ErrBucketNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if errors.Is(err, forward.ErrCorrupt) || errors.Is(err, bucket.ErrCorrupt) {
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if errors.Is(err, bucket.ErrInvariantViolation) {
		return fmt.Errorf("%w: %w", ErrInvariantViolation, err)
	}
	if errors.Is(err, resource.ErrBackpressure) {
		return fmt.Errorf("%w: %w", ErrBackpressure, err)
	}
	return err
}
