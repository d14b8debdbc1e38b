package numidx

import (
	"context"
	"fmt"

	"github.com/attrindex/numidx/internal/ridbitmap"
)

// Op identifies the shape of a Predicate.
type Op int

const (
	// OpEq matches records whose field value equals Value, i.e.
	// Range(Value, Value).
	OpEq Op = iota
	// OpRange matches records whose field value falls in [Min, Max].
	OpRange
	// OpIn matches records whose field value is one of Values, i.e.
	// the union of Range(v, v) for each v.
	OpIn
)

// Predicate is a single per-field condition as would be produced by a
// query-language parser (an external collaborator). Evaluate turns it
// into a result bitmap; intersecting bitmaps across fields to satisfy
// an AND of predicates is the enclosing filter compositor's job, not
// this package's.
type Predicate struct {
	Field  string
	Op     Op
	Value  uint32   // used by OpEq
	Min    uint32   // used by OpRange
	Max    uint32   // used by OpRange
	Values []uint32 // used by OpIn
}

// Evaluate translates p into a result bitmap over p.Field.
func (idx *Index) Evaluate(ctx context.Context, p Predicate) (*ridbitmap.Bitmap, error) {
	switch p.Op {
	case OpEq:
		return idx.Range(ctx, p.Field, p.Value, p.Value)
	case OpRange:
		return idx.Range(ctx, p.Field, p.Min, p.Max)
	case OpIn:
		return idx.In(ctx, p.Field, p.Values)
	default:
		return nil, fmt.Errorf("numidx: unknown predicate op %d", p.Op)
	}
}
