package sortkey

import (
	"math"
	"sort"
	"testing"
)

func TestFloat32RoundTrip(t *testing.T) {
	values := []float32{0, -0, 1, -1, 0.5, -0.5, 10.25, -10.25,
		math.MaxFloat32, -math.MaxFloat32, 1e-30, -1e-30}
	for _, v := range values {
		got := DecodeFloat32(EncodeFloat32(v))
		if got != v {
			t.Errorf("round trip for %v: got %v", v, got)
		}
	}
}

func TestFloat32Ordering(t *testing.T) {
	// -1.5, -0.0, 0.0, 0.5, 10.25: -0.0 and 0.0 compare equal, so only
	// their relation to strictly-ordered neighbors is checked.
	values := []float32{-1.5, -0.0, 0.0, 0.5, 10.25}
	for i := 0; i < len(values)-1; i++ {
		a, b := values[i], values[i+1]
		ea, eb := EncodeFloat32(a), EncodeFloat32(b)
		switch {
		case a < b:
			if ea >= eb {
				t.Fatalf("expected encode(%v) < encode(%v), got %d >= %d", a, b, ea, eb)
			}
		case a == b:
			// order-preserving only requires neighbors outside the
			// equal run to compare correctly; nothing to assert here.
		}
	}

	// every value in this slice is strictly distinct: a plain sort
	// comparison of the full sequence must agree with encoding.
	distinct := []float32{-1.5, -0.25, 0.5, 10.25, 1000}
	sorted := append([]float32(nil), distinct...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for i := 0; i < len(sorted)-1; i++ {
		if EncodeFloat32(sorted[i]) >= EncodeFloat32(sorted[i+1]) {
			t.Fatalf("encoded ordering broke between %v and %v", sorted[i], sorted[i+1])
		}
	}
}

func TestInt32RoundTrip(t *testing.T) {
	values := []int32{0, 1, -1, math.MaxInt32, math.MinInt32, 12345, -12345}
	for _, v := range values {
		got := DecodeInt32(EncodeInt32(v))
		if got != v {
			t.Errorf("round trip for %d: got %d", v, got)
		}
	}
}

func TestInt32Ordering(t *testing.T) {
	values := []int32{-100, -1, 0, 1, 100, math.MinInt32, math.MaxInt32}
	sorted := append([]int32(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	for i := 0; i < len(sorted)-1; i++ {
		if EncodeInt32(sorted[i]) >= EncodeInt32(sorted[i+1]) {
			t.Fatalf("encoded ordering broke between %d and %d", sorted[i], sorted[i+1])
		}
	}
}
