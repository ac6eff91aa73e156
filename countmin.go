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

// counter is the set of unsigned counter widths a CountMinCU tier may
// use. The width is fixed per instantiation, so each tier of a tower
// is a monomorphic table with no dynamic dispatch.
type counter interface {
	~uint8 | ~uint16 | ~uint32
}

// CountMinCU is a Count-Min sketch with the conservative-update rule:
// on insert, only the counters currently at the estimated minimum are
// raised. Every per-row counter stays an upper bound of the true count
// of every key hashing to it, while over-estimation grows slower than
// with plain Count-Min.
//
// Keys are canonical k-mer codes; callers canonicalize first.
type CountMinCU[C counter] struct {
	d, w  int
	table [][]C
	max   uint64 // 2^width - 1, the saturation value

	cols []int // scratch: per-row column of the last estimate
}

// NewCountMinCU allocates a zeroed d×w sketch of W-bit counters.
func NewCountMinCU[C counter](d, w int) (*CountMinCU[C], error) {
	if d < 1 || w < 1 {
		return nil, ErrInvalidParameter
	}
	table := make([][]C, d)
	for j := range table {
		table[j] = make([]C, w)
	}
	var full C
	full--
	return &CountMinCU[C]{d: d, w: w, table: table, max: uint64(full), cols: make([]int, d)}, nil
}

// Estimate returns the minimum counter over all rows for code.
func (s *CountMinCU[C]) Estimate(code uint64) uint64 {
	est := s.max
	for j := 0; j < s.d; j++ {
		c := rowHash(code, j, s.w)
		s.cols[j] = c
		if v := uint64(s.table[j][c]); v < est {
			est = v
		}
	}
	return est
}

// Insert records one occurrence of code with conservative update:
// only rows whose counter equals the current estimate are raised.
// When the estimate has reached the counter maximum the tier is full
// for this key and the insert is suppressed; the caller routes the
// update to a wider tier.
func (s *CountMinCU[C]) Insert(code uint64) {
	est := s.Estimate(code)
	if est >= s.max {
		return
	}
	for j := 0; j < s.d; j++ {
		if uint64(s.table[j][s.cols[j]]) == est {
			s.table[j][s.cols[j]]++
		}
	}
}

// Full reports whether this tier is saturated for code.
func (s *CountMinCU[C]) Full(code uint64) bool {
	return s.Estimate(code) >= s.max
}

// Merge adds another sketch element-wise, saturating at the counter
// maximum instead of wrapping.
func (s *CountMinCU[C]) Merge(other *CountMinCU[C]) error {
	if other == nil || s.d != other.d || s.w != other.w {
		return ErrShapeMismatch
	}
	for j := range s.table {
		for c := range s.table[j] {
			sum := uint64(s.table[j][c]) + uint64(other.table[j][c])
			if sum > s.max {
				sum = s.max
			}
			s.table[j][c] = C(sum)
		}
	}
	return nil
}

// Depth returns d.
func (s *CountMinCU[C]) Depth() int { return s.d }

// Width returns w.
func (s *CountMinCU[C]) Width() int { return s.w }

// Max returns the saturation value 2^W - 1.
func (s *CountMinCU[C]) Max() uint64 { return s.max }

// SizeBytes returns the counter storage size.
func (s *CountMinCU[C]) SizeBytes() int {
	bytes := 1
	switch {
	case s.max > 1<<16-1:
		bytes = 4
	case s.max > 1<<8-1:
		bytes = 2
	}
	return s.d * s.w * bytes
}
