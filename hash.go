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
	"encoding/binary"

	"github.com/spaolacci/murmur3"
)

// signSeedBit separates the sign-hash seed namespace from the row-hash
// namespace. Row j hashes with seed j, its sign hash with seed j|signSeedBit,
// so the two families never collide for any practical depth.
const signSeedBit uint32 = 1 << 31

// hash32 hashes the 8 little-endian bytes of a canonical k-mer code
// with a 32-bit seeded MurmurHash3.
func hash32(code uint64, seed uint32) uint32 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], code)
	return murmur3.Sum32WithSeed(buf[:], seed)
}

// rowHash returns the column for code in row j of a w-wide table.
func rowHash(code uint64, j int, w int) int {
	return int(hash32(code, uint32(j)) % uint32(w))
}

// signHash returns +1 or -1 for code in row j, from the disjoint
// sign-seed namespace.
func signHash(code uint64, j int) int64 {
	if hash32(code, uint32(j)|signSeedBit)&1 == 1 {
		return 1
	}
	return -1
}
