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
)

// SetMetrics are the set-level heavy-hitter detection metrics between
// an estimated set E and a real set R.
type SetMetrics struct {
	TP, FP, FN      int
	Precision       float64
	Recall          float64
	F1              float64
	Estimated, Real int
}

// EvaluateSets compares two heavy-hitter sets.
// Precision is 0 when E is empty, recall is 0 when R is empty, and F1
// is 0 when precision+recall is 0.
func EvaluateSets(est, real map[uint64]struct{}) SetMetrics {
	var m SetMetrics
	for code := range est {
		if _, ok := real[code]; ok {
			m.TP++
		}
	}
	m.Estimated = len(est)
	m.Real = len(real)
	m.FP = m.Estimated - m.TP
	m.FN = m.Real - m.TP

	if m.Estimated > 0 {
		m.Precision = float64(m.TP) / float64(m.Estimated)
	}
	if m.Real > 0 {
		m.Recall = float64(m.TP) / float64(m.Real)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}

// HeavyHitterSet filters counts by threshold into a set.
func HeavyHitterSet(counts map[uint64]int64, threshold int64) map[uint64]struct{} {
	set := make(map[uint64]struct{}, len(counts))
	for code, n := range counts {
		if n >= threshold {
			set[code] = struct{}{}
		}
	}
	return set
}

// ErrorMetrics are the per-k-mer error statistics between estimated
// and real counts over a comparison set.
type ErrorMetrics struct {
	MAE      float64 // mean absolute error
	MRE      float64 // mean relative error, in percent, over keys with real > 0
	MSE      float64 // mean squared absolute error
	RMSE     float64 // sqrt(MSE)
	Pearson  float64 // correlation of (estimate, real) pairs; 0 when undefined
	Compared int     // size of the comparison set
}

// EvaluateErrors computes error statistics between estimated and real
// counts. With onlyHeavy, the comparison set is the union of the two
// heavy-hitter sets at the given thresholds (missing counts default
// to 0); otherwise it is the keys present in both maps.
func EvaluateErrors(est, real map[uint64]int64, onlyHeavy bool, estThreshold, realThreshold int64) ErrorMetrics {
	var keys []uint64
	if onlyHeavy {
		seen := make(map[uint64]struct{})
		for code := range HeavyHitterSet(est, estThreshold) {
			seen[code] = struct{}{}
			keys = append(keys, code)
		}
		for code := range HeavyHitterSet(real, realThreshold) {
			if _, ok := seen[code]; !ok {
				keys = append(keys, code)
			}
		}
	} else {
		for code := range est {
			if _, ok := real[code]; ok {
				keys = append(keys, code)
			}
		}
	}

	var m ErrorMetrics
	if len(keys) == 0 {
		return m
	}

	var sumAbs, sumSq, sumRel float64
	var nRel int
	ests := make([]float64, 0, len(keys))
	reals := make([]float64, 0, len(keys))
	for _, code := range keys {
		e := float64(est[code])
		r := float64(real[code])
		abs := math.Abs(e - r)
		sumAbs += abs
		sumSq += abs * abs
		if r > 0 {
			sumRel += abs * 100 / r
			nRel++
		}
		ests = append(ests, e)
		reals = append(reals, r)
	}

	m.Compared = len(keys)
	m.MAE = sumAbs / float64(m.Compared)
	if nRel > 0 {
		m.MRE = sumRel / float64(nRel)
	}
	m.MSE = sumSq / float64(m.Compared)
	m.RMSE = math.Sqrt(m.MSE)
	m.Pearson = pearson(ests, reals)
	return m
}

// pearson returns the correlation of two equal-length samples,
// 0 when n < 2 or either variance is zero.
func pearson(x, y []float64) float64 {
	n := len(x)
	if n < 2 || n != len(y) {
		return 0
	}
	var meanX, meanY float64
	for i := 0; i < n; i++ {
		meanX += x[i]
		meanY += y[i]
	}
	meanX /= float64(n)
	meanY /= float64(n)

	var num, varX, varY float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		dy := y[i] - meanY
		num += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	den := math.Sqrt(varX * varY)
	if den == 0 {
		return 0
	}
	return num / den
}

// SweepResult is one row of a threshold sweep.
type SweepResult struct {
	EstThreshold  int64
	RealThreshold int64
	SetMetrics
}

// SweepThresholds evaluates every (estimated, real) threshold pair and
// returns the full table plus the F1-maximizing pair (first wins ties).
func SweepThresholds(est, real map[uint64]int64, estThresholds, realThresholds []int64) ([]SweepResult, SweepResult) {
	results := make([]SweepResult, 0, len(estThresholds)*len(realThresholds))
	var best SweepResult
	bestF1 := -1.0
	for _, te := range estThresholds {
		for _, tr := range realThresholds {
			r := SweepResult{
				EstThreshold:  te,
				RealThreshold: tr,
				SetMetrics:    EvaluateSets(HeavyHitterSet(est, te), HeavyHitterSet(real, tr)),
			}
			results = append(results, r)
			if r.F1 > bestF1 {
				bestF1 = r.F1
				best = r
			}
		}
	}
	return results, best
}
