// Copyright © 2023 DyStorzion
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package heavymer

import (
	"math/rand"
	"testing"
)

func TestNewCountMinCUParams(t *testing.T) {
	if _, err := NewCountMinCU[uint8](0, 10); err != ErrInvalidParameter {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
	if _, err := NewCountMinCU[uint32](3, 0); err != ErrInvalidParameter {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}

	s8, _ := NewCountMinCU[uint8](2, 4)
	if s8.Max() != 255 {
		t.Errorf("uint8 max = %d, want 255", s8.Max())
	}
	s16, _ := NewCountMinCU[uint16](2, 4)
	if s16.Max() != 65535 {
		t.Errorf("uint16 max = %d, want 65535", s16.Max())
	}
	s32, _ := NewCountMinCU[uint32](2, 4)
	if s32.Max() != 1<<32-1 {
		t.Errorf("uint32 max = %d, want 2^32-1", s32.Max())
	}

	if s8.SizeBytes() != 8 || s16.SizeBytes() != 16 || s32.SizeBytes() != 32 {
		t.Errorf("SizeBytes: %d/%d/%d", s8.SizeBytes(), s16.SizeBytes(), s32.SizeBytes())
	}
}

// TestCountMinCUUpperBound: every counter a key hashes to stays an
// upper bound of the key's true count, and the estimate never
// underestimates.
func TestCountMinCUUpperBound(t *testing.T) {
	s, _ := NewCountMinCU[uint32](4, 64)

	counts := map[uint64]uint64{}
	for i := 0; i < 5000; i++ {
		code := uint64(rand.Intn(300))
		s.Insert(code)
		counts[code]++
	}

	for code, want := range counts {
		if got := s.Estimate(code); got < want {
			t.Errorf("estimate(%d) = %d underestimates true count %d", code, got, want)
		}
		for j := 0; j < s.d; j++ {
			if v := uint64(s.table[j][rowHash(code, j, s.w)]); v < want {
				t.Errorf("row %d counter for %d is %d < true count %d", j, code, v, want)
			}
		}
	}
}

// TestCountMinCUConservative: a single key with no collisions is
// counted exactly, and only counters on the minimum move.
func TestCountMinCUConservative(t *testing.T) {
	s, _ := NewCountMinCU[uint16](3, 128)

	code := Canonical(uint64(0x1b), 3)
	for i := uint64(1); i <= 100; i++ {
		s.Insert(code)
		if got := s.Estimate(code); got != i {
			t.Fatalf("estimate after %d inserts = %d", i, got)
		}
	}
}

// TestCountMinCUSaturation: an 8-bit tier freezes at 255 and reports
// itself full; further inserts are suppressed.
func TestCountMinCUSaturation(t *testing.T) {
	s, _ := NewCountMinCU[uint8](2, 16)

	code := uint64(7)
	for i := 0; i < 300; i++ {
		s.Insert(code)
	}

	if got := s.Estimate(code); got != 255 {
		t.Errorf("saturated estimate = %d, want 255", got)
	}
	if !s.Full(code) {
		t.Error("Full() = false at saturation")
	}

	// no counter may have wrapped
	for j := range s.table {
		for _, v := range s.table[j] {
			if v != 0 && v != 255 {
				t.Errorf("unexpected counter value %d after saturation", v)
			}
		}
	}
}

func TestCountMinCUMerge(t *testing.T) {
	whole, _ := NewCountMinCU[uint32](3, 64)
	partA, _ := NewCountMinCU[uint32](3, 64)
	partB, _ := NewCountMinCU[uint32](3, 64)

	counts := map[uint64]uint64{}
	for i := 0; i < 2000; i++ {
		code := uint64(rand.Intn(100))
		whole.Insert(code)
		counts[code]++
		if i%2 == 0 {
			partA.Insert(code)
		} else {
			partB.Insert(code)
		}
	}

	if err := partA.Merge(partB); err != nil {
		t.Fatalf("Merge: %s", err)
	}
	// conservative update is order-dependent, so the merged tables need
	// not be bit-equal to the whole-stream sketch; the upper bound must
	// still hold for every key
	for code, want := range counts {
		if got := partA.Estimate(code); got < want {
			t.Errorf("merged estimate(%d) = %d underestimates true count %d", code, got, want)
		}
	}

	mismatch, _ := NewCountMinCU[uint32](3, 32)
	if err := partA.Merge(mismatch); err != ErrShapeMismatch {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}
}

// TestCountMinCUMergeSaturates: merging may not wrap 8-bit counters.
func TestCountMinCUMergeSaturates(t *testing.T) {
	a, _ := NewCountMinCU[uint8](1, 4)
	b, _ := NewCountMinCU[uint8](1, 4)
	code := uint64(3)
	for i := 0; i < 200; i++ {
		a.Insert(code)
		b.Insert(code)
	}

	if err := a.Merge(b); err != nil {
		t.Fatal(err)
	}
	if got := a.Estimate(code); got != 255 {
		t.Errorf("merged estimate = %d, want saturation at 255", got)
	}
}

func BenchmarkCountMinCUInsert(b *testing.B) {
	s, _ := NewCountMinCU[uint8](4, 1<<16)
	for i := 0; i < b.N; i++ {
		s.Insert(uint64(i % 10000))
	}
}
