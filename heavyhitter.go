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
	"math"
	"sort"
)

// Estimator estimates the frequency of a canonical k-mer code.
// CountSketch implements it directly; the unsigned sketches wrap
// their estimates via TowerEstimator and CountMinEstimator.
type Estimator interface {
	Estimate(code uint64) int64
}

// TowerEstimator adapts a TowerSketch to the Estimator interface.
type TowerEstimator struct {
	*TowerSketch
}

// Estimate clamps the unsigned tower estimate into int64 range.
func (e TowerEstimator) Estimate(code uint64) int64 {
	est := e.TowerSketch.Estimate(code)
	if est > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(est)
}

// CountMinEstimator adapts a single CMCU tier to the Estimator interface.
type CountMinEstimator[C counter] struct {
	*CountMinCU[C]
}

// Estimate converts the unsigned estimate; tier maxima fit int64.
func (e CountMinEstimator[C]) Estimate(code uint64) int64 {
	return int64(e.CountMinCU.Estimate(code))
}

// HeavyHitter pairs a canonical k-mer with its (estimated or exact)
// count.
type HeavyHitter struct {
	Code  uint64
	K     int
	Count int64
}

// Kmer returns the decoded canonical k-mer.
func (h HeavyHitter) Kmer() string {
	return string(Decode(h.Code, h.K))
}

// Threshold returns the heavy-hitter bound ⌈phi*n⌉, clamped to at
// least 1 so that phi=0 selects every k-mer with a positive estimate.
func Threshold(phi float64, n uint64) uint64 {
	t := uint64(math.Ceil(phi * float64(n)))
	if t < 1 {
		t = 1
	}
	return t
}

// Extract queries est for every candidate and keeps those at or above
// threshold, ranked by count descending, ties in lexicographic k-mer
// order. The candidate set must cover every distinct canonical k-mer
// of the stream for full recall; a sampled set trades recall for
// memory. Negative Count Sketch estimates never pass the positive
// threshold.
func Extract(est Estimator, candidates []uint64, k int, threshold uint64) []HeavyHitter {
	hh := make([]HeavyHitter, 0, 64)
	for _, code := range candidates {
		e := est.Estimate(code)
		if e >= 0 && uint64(e) >= threshold {
			hh = append(hh, HeavyHitter{Code: code, K: k, Count: e})
		}
	}
	sortHeavyHitters(hh)
	return hh
}

// sortHeavyHitters orders by count descending, ties by code ascending
// (ascending code order is lexicographic order on the bases).
func sortHeavyHitters(hh []HeavyHitter) {
	sort.Slice(hh, func(i, j int) bool {
		if hh[i].Count != hh[j].Count {
			return hh[i].Count > hh[j].Count
		}
		return hh[i].Code < hh[j].Code
	})
}
