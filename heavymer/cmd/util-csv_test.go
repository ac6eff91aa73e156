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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dystorzion/heavymer"
)

func TestParseHeavyHitterLine(t *testing.T) {
	// header and malformed lines are skipped, not errors
	for _, line := range []string{
		csvHeader,
		"",
		"no-comma-line",
	} {
		_, ok, err := parseHeavyHitterLine(line)
		if ok || err != nil {
			t.Errorf("line %q: ok=%v err=%v, want skipped", line, ok, err)
		}
	}

	data, ok, err := parseHeavyHitterLine("1,ACGT,42,10,1000,1e-05,4")
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	rec := data.(hhRecord)
	wantCode, _ := heavymer.Encode([]byte("ACGT"))
	if rec.Code != wantCode || rec.K != 4 || rec.Count != 42 {
		t.Errorf("parsed %+v", rec)
	}

	// corrupted k-mer column fails loudly
	if _, _, err = parseHeavyHitterLine("1,ACXT,42,10,1000,1e-05,4"); err == nil {
		t.Error("expected error for invalid base in k-mer column")
	}
}

func TestHeavyHitterCSVRoundTrip(t *testing.T) {
	codeA, _ := heavymer.Encode([]byte("ACGT"))
	codeC, _ := heavymer.Encode([]byte("CGTA"))
	hh := []heavymer.HeavyHitter{
		{Code: codeA, K: 4, Count: 7},
		{Code: codeC, K: 4, Count: 3},
	}

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	if err := writeHeavyHitterCSV(w, hh, 2, 10, 0.2, 4); err != nil {
		t.Fatal(err)
	}
	w.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 rows", len(lines))
	}
	if lines[0] != csvHeader {
		t.Errorf("header = %s", lines[0])
	}
	if lines[1] != "1,ACGT,7,2,10,0.2,4" {
		t.Errorf("row 1 = %s", lines[1])
	}

	file := filepath.Join(t.TempDir(), "hh.csv")
	if err := os.WriteFile(file, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	counts, k, err := readHeavyHitterCSV(file)
	if err != nil {
		t.Fatal(err)
	}
	if k != 4 {
		t.Errorf("k = %d, want 4", k)
	}
	if len(counts) != 2 || counts[codeA] != 7 || counts[codeC] != 3 {
		t.Errorf("counts = %v", counts)
	}
}

func TestMinCount(t *testing.T) {
	if got := minCount(map[uint64]int64{1: 5, 2: 3, 3: 9}); got != 3 {
		t.Errorf("minCount = %d, want 3", got)
	}
	if got := minCount(nil); got != 0 {
		t.Errorf("minCount(nil) = %d, want 0", got)
	}
}
