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
	"github.com/twotwotwo/sorts/sortutil"
)

// ExactCounter is the ground-truth mapping from canonical k-mer code
// to occurrence count. Memory grows with the number of distinct
// k-mers, so it is meant for bounded inputs used in evaluation.
type ExactCounter struct {
	counts map[uint64]uint64
	total  uint64
}

// NewExactCounter returns an empty counter.
func NewExactCounter() *ExactCounter {
	return &ExactCounter{counts: make(map[uint64]uint64, mapInitSize)}
}

var mapInitSize = 100000

// Add records one occurrence of a canonical k-mer code.
func (c *ExactCounter) Add(code uint64) {
	c.counts[code]++
	c.total++
}

// Count returns the exact count of code.
func (c *ExactCounter) Count(code uint64) uint64 {
	return c.counts[code]
}

// Total returns N, the number of valid k-mer windows counted.
func (c *ExactCounter) Total() uint64 {
	return c.total
}

// Distinct returns the number of distinct canonical k-mers.
func (c *ExactCounter) Distinct() int {
	return len(c.counts)
}

// Codes returns all distinct canonical codes, sorted ascending.
func (c *ExactCounter) Codes() []uint64 {
	codes := make([]uint64, 0, len(c.counts))
	for code := range c.counts {
		codes = append(codes, code)
	}
	sortutil.Uint64s(codes)
	return codes
}

// Counts returns a copy of the code → count mapping with int64 counts,
// the shape the evaluator consumes.
func (c *ExactCounter) Counts() map[uint64]int64 {
	m := make(map[uint64]int64, len(c.counts))
	for code, n := range c.counts {
		m[code] = int64(n)
	}
	return m
}

// HeavyHitters returns the codes with count >= threshold, ranked by
// count descending, ties by code (lexicographic k-mer order).
func (c *ExactCounter) HeavyHitters(k int, threshold uint64) []HeavyHitter {
	hh := make([]HeavyHitter, 0, 64)
	for code, n := range c.counts {
		if n >= threshold {
			hh = append(hh, HeavyHitter{Code: code, K: k, Count: int64(n)})
		}
	}
	sortHeavyHitters(hh)
	return hh
}

// CodeSet accumulates the distinct canonical k-mers seen by the
// stream, the candidate set for heavy-hitter extraction.
type CodeSet struct {
	m map[uint64]struct{}
	n uint64 // insertions observed, including sampled-out ones
}

// NewCodeSet returns an empty set.
func NewCodeSet() *CodeSet {
	return &CodeSet{m: make(map[uint64]struct{}, mapInitSize)}
}

// Add records a canonical code.
func (s *CodeSet) Add(code uint64) {
	s.m[code] = struct{}{}
	s.n++
}

// AddSampled keeps only every n-th observation (1-in-every sampling),
// trading recall of the candidate set for memory. every <= 1 keeps all.
func (s *CodeSet) AddSampled(code uint64, every int) {
	if every <= 1 || s.n%uint64(every) == 0 {
		s.m[code] = struct{}{}
	}
	s.n++
}

// Observed returns the number of observations offered to the set,
// including sampled-out ones.
func (s *CodeSet) Observed() uint64 {
	return s.n
}

// Contains reports membership.
func (s *CodeSet) Contains(code uint64) bool {
	_, ok := s.m[code]
	return ok
}

// Len returns the number of distinct codes kept.
func (s *CodeSet) Len() int {
	return len(s.m)
}

// Sorted returns the kept codes in ascending order.
func (s *CodeSet) Sorted() []uint64 {
	codes := make([]uint64, 0, len(s.m))
	for code := range s.m {
		codes = append(codes, code)
	}
	sortutil.Uint64s(codes)
	return codes
}
