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

import "math"

// TowerSketch stacks three conservative-update Count-Min tables with
// 8-, 16- and 32-bit counters. K-mer frequencies are heavily skewed:
// most keys never leave the 8-bit tier, so the stack needs a fraction
// of the memory of a monolithic 32-bit sketch at equal accuracy.
//
// A key's updates stay in the 8-bit tier until its estimate there
// saturates at 255, then move to the 16-bit tier until 65535, then to
// the 32-bit tier. Estimate consults tiers widest-first and returns
// the first non-zero value: a non-zero wide tier means the key
// saturated everything below it, and that tier is authoritative.
// Counts accumulated in lower tiers before promotion are NOT added
// in, so right after a key saturates the 8-bit tier its estimate
// drops to the 16-bit count alone.
type TowerSketch struct {
	tier8  *CountMinCU[uint8]
	tier16 *CountMinCU[uint16]
	tier32 *CountMinCU[uint32]
}

// NewTowerSketch builds a tower with independent (d, w) per tier.
func NewTowerSketch(d8, w8, d16, w16, d32, w32 int) (*TowerSketch, error) {
	tier8, err := NewCountMinCU[uint8](d8, w8)
	if err != nil {
		return nil, err
	}
	tier16, err := NewCountMinCU[uint16](d16, w16)
	if err != nil {
		return nil, err
	}
	tier32, err := NewCountMinCU[uint32](d32, w32)
	if err != nil {
		return nil, err
	}
	return &TowerSketch{tier8: tier8, tier16: tier16, tier32: tier32}, nil
}

// NewUniformTowerSketch builds a tower with the same (d, w) for all tiers.
func NewUniformTowerSketch(d, w int) (*TowerSketch, error) {
	return NewTowerSketch(d, w, d, w, d, w)
}

// Insert routes one occurrence of a canonical k-mer code to the
// narrowest unsaturated tier.
func (t *TowerSketch) Insert(code uint64) {
	if t.tier8.Estimate(code) < math.MaxUint8 {
		t.tier8.Insert(code)
		return
	}
	if t.tier16.Estimate(code) < math.MaxUint16 {
		t.tier16.Insert(code)
		return
	}
	t.tier32.Insert(code)
}

// Estimate returns the widest non-zero tier estimate for code.
func (t *TowerSketch) Estimate(code uint64) uint64 {
	if est32 := t.tier32.Estimate(code); est32 > 0 {
		return est32
	}
	if est16 := t.tier16.Estimate(code); est16 > 0 {
		return est16
	}
	return t.tier8.Estimate(code)
}

// Merge adds another tower tier-wise; all tier shapes must match.
func (t *TowerSketch) Merge(other *TowerSketch) error {
	if other == nil {
		return ErrShapeMismatch
	}
	if err := t.tier8.Merge(other.tier8); err != nil {
		return err
	}
	if err := t.tier16.Merge(other.tier16); err != nil {
		return err
	}
	return t.tier32.Merge(other.tier32)
}

// SizeBytes returns the summed counter storage of the three tiers.
func (t *TowerSketch) SizeBytes() int {
	return t.tier8.SizeBytes() + t.tier16.SizeBytes() + t.tier32.SizeBytes()
}
