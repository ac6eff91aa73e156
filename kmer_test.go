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
	"bytes"
	"fmt"
	"math/rand"
	"testing"
)

var randomMers [][]byte
var randomMersN = 10000

var benchMer = []byte("ACTGACTGGTCAGTCAACTGGTCAACTGGTCA")
var benchCode uint64

func init() {
	randomMers = make([][]byte, randomMersN)
	for i := 0; i < randomMersN; i++ {
		randomMers[i] = make([]byte, rand.Intn(32)+1)
		for j := range randomMers[i] {
			randomMers[i][j] = bit2base[rand.Intn(4)]
		}
	}

	var err error
	benchCode, err = Encode(benchMer)
	if err != nil {
		panic(fmt.Sprintf("init: fail to encode %s", benchMer))
	}
}

// TestEncodeDecode tests encode and decode round trips.
func TestEncodeDecode(t *testing.T) {
	for _, mer := range randomMers {
		kcode, err := NewKmerCode(mer)
		if err != nil {
			t.Errorf("Encode error: %s", mer)
		}

		if !bytes.Equal(mer, kcode.Bytes()) {
			t.Errorf("Decode error: %s != %s ", mer, kcode.Bytes())
		}
	}
}

func TestEncodeIllegalBase(t *testing.T) {
	for _, mer := range [][]byte{
		[]byte("ACNGT"),
		[]byte("ACGR"),
		[]byte("AC-T"),
		[]byte("acgn"),
	} {
		if _, err := Encode(mer); err != ErrIllegalBase {
			t.Errorf("Encode(%s): expected ErrIllegalBase, got %v", mer, err)
		}
	}

	if _, err := Encode(nil); err != ErrKOverflow {
		t.Errorf("Encode(nil): expected ErrKOverflow, got %v", err)
	}
	if _, err := Encode(bytes.Repeat([]byte("A"), 33)); err != ErrKOverflow {
		t.Errorf("Encode(33-mer): expected ErrKOverflow, got %v", err)
	}
}

func TestRevComp(t *testing.T) {
	for _, mer := range randomMers {
		kcode, _ := NewKmerCode(mer)

		if !kcode.Rev().Rev().Equal(kcode) {
			t.Errorf("Rev() error: %s, Rev(): %s", kcode, kcode.Rev())
		}
		if !kcode.Comp().Comp().Equal(kcode) {
			t.Errorf("Comp() error: %s, Comp(): %s", kcode, kcode.Comp())
		}
		if !kcode.RevComp().RevComp().Equal(kcode) {
			t.Errorf("RevComp() involution error: %s", kcode)
		}
	}
}

// TestCanonical checks idempotence and invariance under reverse
// complement.
func TestCanonical(t *testing.T) {
	for _, mer := range randomMers {
		kcode, _ := NewKmerCode(mer)
		k := kcode.K

		canon := Canonical(kcode.Code, k)
		if Canonical(canon, k) != canon {
			t.Errorf("Canonical not idempotent for %s", kcode)
		}
		if Canonical(RevComp(kcode.Code, k), k) != canon {
			t.Errorf("Canonical(revcomp) != Canonical for %s", kcode)
		}
	}
}

// TestCanonicalLexicographic checks that canonical selection by code
// order equals lexicographic order on the decoded strings.
func TestCanonicalLexicographic(t *testing.T) {
	for _, mer := range randomMers {
		kcode, _ := NewKmerCode(mer)
		rc := kcode.RevComp()

		want := string(mer)
		if rcs := rc.String(); rcs < want {
			want = rcs
		}
		if got := kcode.Canonical().String(); got != want {
			t.Errorf("Canonical(%s): %s, want %s", mer, got, want)
		}
	}
}

func TestMustEncodeFromFormerKmer(t *testing.T) {
	s := []byte("ACGTACGTTGCAACGT")
	k := 5
	code, err := Encode(s[0:k])
	if err != nil {
		t.Fatalf("Encode: %s", err)
	}
	for i := 1; i+k <= len(s); i++ {
		code, err = MustEncodeFromFormerKmer(s[i:i+k], code)
		if err != nil {
			t.Fatalf("MustEncodeFromFormerKmer: %s", err)
		}
		direct, _ := Encode(s[i : i+k])
		if code != direct {
			t.Errorf("rolling code %d != direct %d at %d", code, direct, i)
		}
	}

	if _, err = MustEncodeFromFormerKmer([]byte("ACGTN"), 0); err != ErrIllegalBase {
		t.Errorf("expected ErrIllegalBase, got %v", err)
	}
}

func BenchmarkEncodeK32(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Encode(benchMer)
	}
}

func BenchmarkDecodeK32(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Decode(benchCode, len(benchMer))
	}
}

func BenchmarkCanonicalK32(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Canonical(benchCode, len(benchMer))
	}
}
