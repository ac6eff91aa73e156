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
	"errors"
	"sort"
)

// ErrInvalidParameter means a sketch dimension or threshold parameter
// is out of its valid range.
var ErrInvalidParameter = errors.New("heavymer: invalid parameter")

// ErrShapeMismatch means two sketches of different (d, w) cannot be merged.
var ErrShapeMismatch = errors.New("heavymer: sketch shape mismatch")

// CountSketch is a d×w matrix of signed counters. Each row pairs a
// column hash with an independent ±1 sign hash; estimates take the
// median across rows, so E[Estimate(x)] equals the true count of x.
//
// All tables are allocated up-front and only mutated by Insert.
// Keys are canonical k-mer codes; callers canonicalize before
// inserting or querying.
type CountSketch struct {
	d, w  int
	table [][]int32

	ests []int64 // scratch for Estimate
}

// NewCountSketch allocates a zeroed d×w Count Sketch.
func NewCountSketch(d, w int) (*CountSketch, error) {
	if d < 1 || w < 1 {
		return nil, ErrInvalidParameter
	}
	table := make([][]int32, d)
	for j := range table {
		table[j] = make([]int32, w)
	}
	return &CountSketch{d: d, w: w, table: table, ests: make([]int64, d)}, nil
}

// Insert records one occurrence of a canonical k-mer code.
func (s *CountSketch) Insert(code uint64) {
	for j := 0; j < s.d; j++ {
		s.table[j][rowHash(code, j, s.w)] += int32(signHash(code, j))
	}
}

// Estimate returns the median of the signed per-row counters for a
// canonical k-mer code. With d even, the element at index d/2 of the
// ascending-sorted estimates is returned. Estimates may be negative.
func (s *CountSketch) Estimate(code uint64) int64 {
	for j := 0; j < s.d; j++ {
		s.ests[j] = signHash(code, j) * int64(s.table[j][rowHash(code, j, s.w)])
	}
	sort.Slice(s.ests, func(i, j int) bool { return s.ests[i] < s.ests[j] })
	return s.ests[s.d/2]
}

// Merge adds another sketch element-wise. Two shards built with the
// same (d, w) merge into the sketch of the concatenated stream.
func (s *CountSketch) Merge(other *CountSketch) error {
	if other == nil || s.d != other.d || s.w != other.w {
		return ErrShapeMismatch
	}
	for j := range s.table {
		for c := range s.table[j] {
			s.table[j][c] += other.table[j][c]
		}
	}
	return nil
}

// Depth returns d.
func (s *CountSketch) Depth() int { return s.d }

// Width returns w.
func (s *CountSketch) Width() int { return s.w }

// SizeBytes returns the counter storage size.
func (s *CountSketch) SizeBytes() int { return s.d * s.w * 4 }
