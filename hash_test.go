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
	"math/rand"
	"testing"
)

func TestHash32Deterministic(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code := rand.Uint64()
		seed := rand.Uint32()
		if hash32(code, seed) != hash32(code, seed) {
			t.Fatalf("hash32 not deterministic for code=%d seed=%d", code, seed)
		}
	}
}

// TestHashSeedsIndependent checks that distinct seeds do not produce
// identical column mappings over a sample of keys.
func TestHashSeedsIndependent(t *testing.T) {
	const w = 1024
	codes := make([]uint64, 200)
	for i := range codes {
		codes[i] = rand.Uint64()
	}

	for j := 1; j < 8; j++ {
		same := 0
		for _, code := range codes {
			if rowHash(code, 0, w) == rowHash(code, j, w) {
				same++
			}
		}
		// expected collisions ~ len(codes)/w; anywhere near full overlap
		// means the seeds are not independent
		if same > len(codes)/2 {
			t.Errorf("rows 0 and %d agree on %d/%d keys", j, same, len(codes))
		}
	}
}

// TestSignSeedNamespace makes sure the sign-hash family never reuses a
// row-hash seed, whatever the depth.
func TestSignSeedNamespace(t *testing.T) {
	for j := 0; j < 4096; j++ {
		if uint32(j)|signSeedBit == uint32(j) {
			t.Fatalf("sign seed for row %d collides with its row seed", j)
		}
	}
}

func TestSignHashBalanced(t *testing.T) {
	var plus int
	const n = 10000
	for i := 0; i < n; i++ {
		if signHash(rand.Uint64(), 0) == 1 {
			plus++
		}
	}
	if plus < n*4/10 || plus > n*6/10 {
		t.Errorf("sign hash unbalanced: %d/%d positive", plus, n)
	}
}
