package numidx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/attrindex/numidx/forward"
	"github.com/attrindex/numidx/internal/ridbitmap"
	"github.com/attrindex/numidx/inverted"
	"github.com/attrindex/numidx/kvstore"
	"github.com/attrindex/numidx/resource"
	"github.com/attrindex/numidx/rid"
	"github.com/attrindex/numidx/snapshot"
)

// ErrNoBackend is returned by New when no kvstore.Env was supplied via
// WithBackend.
var ErrNoBackend = errors.New("numidx: no backend configured, use WithBackend")

// Index is the numeric secondary index for one or more fields, backed
// by a forward index (point update/delete by record id) and an
// inverted index (bucketed range scan) sharing one kvstore.Env.
type Index struct {
	env        kvstore.Env
	maxSize    int
	logger     *Logger
	controller *resource.Controller
	metrics    MetricsCollector
}

// New builds an Index over the backend supplied via WithBackend.
func New(optFns ...Option) (*Index, error) {
	o := applyOptions(optFns)
	if o.backend == nil {
		return nil, ErrNoBackend
	}
	return &Index{
		env:        o.backend,
		maxSize:    o.maxSize,
		logger:     o.logger,
		controller: o.controller,
		metrics:    o.metrics,
	}, nil
}

// Put upserts (field, id) to value. If id already holds a different
// value for field, it is first removed from the bucket that covers
// the old value. Both the forward-index update and the inverted-index
// insert happen within the same read-write transaction.
func (idx *Index) Put(ctx context.Context, field string, id rid.ID, value uint32) error {
	start := time.Now()
	if err := idx.controller.AcquireWriter(ctx); err != nil {
		idx.logger.LogBackpressure(ctx, field)
		idx.metrics.RecordPut(time.Since(start), err)
		return translateError(err)
	}
	defer idx.controller.ReleaseWriter()

	err := idx.withWriteTx(ctx, func(fwdBucket, invBucket kvstore.Bucket) error {
		oldValue, ok, err := forward.Get(fwdBucket, field, id)
		if err != nil {
			return err
		}
		if ok && oldValue != value {
			if err := inverted.Delete(invBucket, field, oldValue, id); err != nil {
				return err
			}
		}
		if err := forward.Put(fwdBucket, field, id, value); err != nil {
			return err
		}
		if !ok || oldValue != value {
			if err := inverted.Insert(ctx, invBucket, field, value, id, idx.maxSize, idx.controller); err != nil {
				return err
			}
		}
		return nil
	})
	idx.logger.LogPut(ctx, field, uint64(id), value, err)
	idx.metrics.RecordPut(time.Since(start), err)
	return translateError(err)
}

// Remove deletes (field, id) from both the forward and inverted
// indexes. Removing an id that is not present is a no-op.
func (idx *Index) Remove(ctx context.Context, field string, id rid.ID) error {
	start := time.Now()
	if err := idx.controller.AcquireWriter(ctx); err != nil {
		idx.logger.LogBackpressure(ctx, field)
		idx.metrics.RecordRemove(time.Since(start), err)
		return translateError(err)
	}
	defer idx.controller.ReleaseWriter()

	err := idx.withWriteTx(ctx, func(fwdBucket, invBucket kvstore.Bucket) error {
		value, ok, err := forward.Get(fwdBucket, field, id)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := inverted.Delete(invBucket, field, value, id); err != nil {
			return err
		}
		return forward.Delete(fwdBucket, field, id)
	})
	idx.logger.LogRemove(ctx, field, uint64(id), err)
	idx.metrics.RecordRemove(time.Since(start), err)
	return translateError(err)
}

// Range returns the set of record ids whose value for field falls in
// [min, max]. Equality is Range(ctx, field, v, v).
func (idx *Index) Range(ctx context.Context, field string, min, max uint32) (*ridbitmap.Bitmap, error) {
	start := time.Now()
	tx, err := idx.env.Begin(ctx, false)
	if err != nil {
		idx.metrics.RecordRange(0, time.Since(start), err)
		return nil, translateError(err)
	}
	defer tx.Abort()

	invBucket, err := tx.Bucket(inverted.BucketName)
	if err != nil {
		idx.metrics.RecordRange(0, time.Since(start), err)
		return nil, translateError(err)
	}
	result, err := inverted.Range(invBucket, field, min, max)
	var matched int
	if err == nil {
		matched = int(result.Cardinality())
	}
	idx.logger.LogRangeScan(ctx, field, min, max, matched, err)
	idx.metrics.RecordRange(matched, time.Since(start), err)
	if err != nil {
		return nil, translateError(err)
	}
	return result, nil
}

// In returns the union of Range(v, v) over values, implementing the
// $in predicate as a union of per-value point ranges.
func (idx *Index) In(ctx context.Context, field string, values []uint32) (*ridbitmap.Bitmap, error) {
	result := ridbitmap.New()
	for _, v := range values {
		hit, err := idx.Range(ctx, field, v, v)
		if err != nil {
			result.Release()
			return nil, err
		}
		result.Or(hit)
		hit.Release()
	}
	return result, nil
}

// CheckRange reports whether record id's current value for field lies
// in [min, max]. It reads only the forward index, never the inverted
// index's buckets.
func (idx *Index) CheckRange(ctx context.Context, field string, id rid.ID, min, max uint32) (bool, error) {
	start := time.Now()
	result, err := idx.checkRange(ctx, field, id, min, max)
	idx.metrics.RecordCheckRange(time.Since(start), err)
	return result, err
}

func (idx *Index) checkRange(ctx context.Context, field string, id rid.ID, min, max uint32) (bool, error) {
	tx, err := idx.env.Begin(ctx, false)
	if err != nil {
		return false, translateError(err)
	}
	defer tx.Abort()

	fwdBucket, err := tx.Bucket(forward.BucketName)
	if err != nil {
		return false, translateError(err)
	}
	value, ok, err := forward.Get(fwdBucket, field, id)
	if err != nil {
		return false, translateError(err)
	}
	if !ok {
		return false, nil
	}
	return value >= min && value <= max, nil
}

// Snapshot exports a consistent, compressed copy of the index's
// backing store to exporter under name.
func (idx *Index) Snapshot(ctx context.Context, exporter snapshot.Exporter, name string) error {
	err := snapshot.Snapshot(ctx, idx.env, exporter, name)
	idx.logger.LogSnapshot(ctx, name, err)
	return err
}

// Close releases resources held by the backing kvstore.Env.
func (idx *Index) Close() error {
	return idx.env.Close()
}

func (idx *Index) withWriteTx(ctx context.Context, fn func(fwdBucket, invBucket kvstore.Bucket) error) error {
	tx, err := idx.env.Begin(ctx, true)
	if err != nil {
		return err
	}

	fwdBucket, err := tx.Bucket(forward.BucketName)
	if err != nil {
		tx.Abort()
		return err
	}
	invBucket, err := tx.Bucket(inverted.BucketName)
	if err != nil {
		tx.Abort()
		return err
	}

	if err := fn(fwdBucket, invBucket); err != nil {
		if abortErr := tx.Abort(); abortErr != nil {
			return fmt.Errorf("%w (abort also failed: %v)", err, abortErr)
		}
		return err
	}
	return tx.Commit()
}
