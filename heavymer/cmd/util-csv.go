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

package cmd

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/dystorzion/heavymer"
	"github.com/pkg/errors"
	"github.com/shenwei356/breader"
)

// csvHeader is the heavy-hitter result schema; rank is 1-based in
// descending estimate order.
const csvHeader = "rank,kmer,estimated_frequency,threshold_used,total_kmers,phi_value,kmer_length"

func writeHeavyHitterCSV(outfh *bufio.Writer, hh []heavymer.HeavyHitter, threshold, total uint64, phi float64, k int) error {
	if _, err := fmt.Fprintln(outfh, csvHeader); err != nil {
		return err
	}
	for i, h := range hh {
		_, err := fmt.Fprintf(outfh, "%d,%s,%d,%d,%d,%g,%d\n",
			i+1, h.Kmer(), h.Count, threshold, total, phi, k)
		if err != nil {
			return err
		}
	}
	return nil
}

// hhRecord is one parsed CSV line.
type hhRecord struct {
	Code  uint64
	K     int
	Count int64
}

// parseHeavyHitterLine parses "rank,kmer,frequency,...". The header
// line (or any line without a numeric rank) is skipped. The k-mer
// string is validated and packed through a bit-packed sequence, so a
// corrupted k-mer column fails loudly instead of hashing garbage.
func parseHeavyHitterLine(line string) (interface{}, bool, error) {
	items := strings.Split(strings.TrimRight(line, "\r\n"), ",")
	if len(items) < 3 {
		return nil, false, nil
	}
	if _, e := strconv.Atoi(items[0]); e != nil {
		return nil, false, nil // header
	}

	count, e := strconv.ParseInt(items[2], 10, 64)
	if e != nil {
		return nil, false, e
	}

	seq, e := heavymer.NewSequence([]byte(items[1]))
	if e != nil {
		return nil, false, errors.Wrapf(e, "k-mer %s", items[1])
	}
	if seq.Len() > 32 {
		return nil, false, heavymer.ErrKOverflow
	}
	var code uint64
	for i := 0; i < seq.Len(); i++ {
		c, _ := seq.CodeAt(i)
		code = code<<2 | uint64(c)
	}

	return hhRecord{Code: code, K: seq.Len(), Count: count}, true, nil
}

// readHeavyHitterCSV loads a heavy-hitter CSV into code → count.
func readHeavyHitterCSV(file string) (map[uint64]int64, int, error) {
	reader, err := breader.NewBufferedReader(file, 2, 100, parseHeavyHitterLine)
	if err != nil {
		return nil, 0, errors.Wrap(err, file)
	}

	counts := make(map[uint64]int64, 1024)
	k := 0
	for chunk := range reader.Ch {
		if chunk.Err != nil {
			return nil, 0, errors.Wrap(chunk.Err, file)
		}
		for _, data := range chunk.Data {
			rec := data.(hhRecord)
			if k == 0 {
				k = rec.K
			} else if rec.K != k {
				return nil, 0, fmt.Errorf("inconsistent k-mer lengths in %s: %d and %d", file, k, rec.K)
			}
			counts[rec.Code] = rec.Count
		}
	}
	return counts, k, nil
}
