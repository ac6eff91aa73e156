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
	"testing"
)

func TestExactCounter(t *testing.T) {
	c := NewExactCounter()

	for i := 0; i < 3; i++ {
		c.Add(10)
	}
	c.Add(20)
	c.Add(30)

	if c.Total() != 5 {
		t.Errorf("Total = %d, want 5", c.Total())
	}
	if c.Distinct() != 3 {
		t.Errorf("Distinct = %d, want 3", c.Distinct())
	}
	if c.Count(10) != 3 || c.Count(20) != 1 || c.Count(99) != 0 {
		t.Errorf("unexpected counts: %d %d %d", c.Count(10), c.Count(20), c.Count(99))
	}

	codes := c.Codes()
	if len(codes) != 3 || codes[0] != 10 || codes[1] != 20 || codes[2] != 30 {
		t.Errorf("Codes() = %v", codes)
	}

	hh := c.HeavyHitters(3, 2)
	if len(hh) != 1 || hh[0].Code != 10 || hh[0].Count != 3 {
		t.Errorf("HeavyHitters = %v", hh)
	}
}

func TestCodeSet(t *testing.T) {
	s := NewCodeSet()
	s.Add(5)
	s.Add(5)
	s.Add(1)

	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
	if !s.Contains(5) || s.Contains(9) {
		t.Error("Contains wrong")
	}
	if got := s.Sorted(); len(got) != 2 || got[0] != 1 || got[1] != 5 {
		t.Errorf("Sorted = %v", got)
	}
}

// TestCodeSetSampled keeps every n-th observation only.
func TestCodeSetSampled(t *testing.T) {
	s := NewCodeSet()
	for i := uint64(0); i < 10; i++ {
		s.AddSampled(i, 3)
	}
	// observations 0, 3, 6, 9 are kept
	if s.Len() != 4 {
		t.Errorf("Len = %d, want 4", s.Len())
	}
	for _, code := range []uint64{0, 3, 6, 9} {
		if !s.Contains(code) {
			t.Errorf("sampled set misses %d", code)
		}
	}

	all := NewCodeSet()
	for i := uint64(0); i < 10; i++ {
		all.AddSampled(i, 1)
	}
	if all.Len() != 10 {
		t.Errorf("every<=1 should keep all, got %d", all.Len())
	}
}
