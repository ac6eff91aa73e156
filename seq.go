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
	"errors"
)

// ErrInvalidCode means a 2-bit slot holds a value outside 0..3.
var ErrInvalidCode = errors.New("heavymer: invalid 2-bit code")

// ErrOutOfRange means a sequence access beyond the stored length.
var ErrOutOfRange = errors.New("heavymer: index out of range")

// Sequence is a bit-packed DNA sequence of arbitrary length: 2 bits
// per base, 4 bases per byte, least significant bits first. Base i
// lives in byte i/4 at bits (i%4)*2 .. (i%4)*2+1. Length is tracked
// separately from storage; the trailing bits of the final byte are
// unspecified and never compared.
type Sequence struct {
	chain  []byte
	length int
}

// EncodeBase converts a base character to its 2-bit code.
func EncodeBase(base byte) (uint8, error) {
	switch base {
	case 'A', 'a':
		return 0, nil
	case 'C', 'c':
		return 1, nil
	case 'G', 'g':
		return 2, nil
	case 'T', 't':
		return 3, nil
	}
	return 0, ErrIllegalBase
}

// DecodeBase converts a 2-bit code back to a base character.
func DecodeBase(code uint8) (byte, error) {
	if code > 3 {
		return 0, ErrInvalidCode
	}
	return bit2base[code], nil
}

// ComplementCode returns the complement of a 2-bit code: c XOR 11.
func ComplementCode(code uint8) uint8 {
	return code ^ 3
}

// NewSequence packs a byte slice of bases.
func NewSequence(s []byte) (*Sequence, error) {
	seq := &Sequence{chain: make([]byte, 0, (len(s)+3)/4)}
	for _, base := range s {
		if err := seq.Push(base); err != nil {
			return nil, err
		}
	}
	return seq, nil
}

// Len returns the number of bases.
func (s *Sequence) Len() int {
	return s.length
}

// Push appends one base, growing storage by one byte on every
// fourth insertion.
func (s *Sequence) Push(base byte) error {
	code, err := EncodeBase(base)
	if err != nil {
		return err
	}
	s.pushCode(code)
	return nil
}

// PushCode appends one already-encoded base.
func (s *Sequence) PushCode(code uint8) error {
	if code > 3 {
		return ErrInvalidCode
	}
	s.pushCode(code)
	return nil
}

func (s *Sequence) pushCode(code uint8) {
	if s.length%4 == 0 {
		s.chain = append(s.chain, 0)
	}
	s.chain[s.length/4] |= code << uint((s.length%4)*2)
	s.length++
}

// CodeAt returns the 2-bit code of the base at position i.
func (s *Sequence) CodeAt(i int) (uint8, error) {
	if i < 0 || i >= s.length {
		return 0, ErrOutOfRange
	}
	return (s.chain[i/4] >> uint((i%4)*2)) & 3, nil
}

// At returns the base character at position i.
func (s *Sequence) At(i int) (byte, error) {
	code, err := s.CodeAt(i)
	if err != nil {
		return 0, err
	}
	return bit2base[code], nil
}

// Sub returns a new sequence holding positions [start, end).
// Output position p holds the base at input position start+p, for
// p < end-start. When start is byte-aligned, whole bytes are copied
// and the remaining tail bases are re-packed one by one; with an
// unaligned start every base is re-packed one by one.
func (s *Sequence) Sub(start, end int) (*Sequence, error) {
	if start < 0 || start > end || end > s.length {
		return nil, ErrOutOfRange
	}

	result := &Sequence{chain: make([]byte, 0, (end-start+3)/4)}

	i := start
	if start%4 == 0 {
		// aligned: copy whole bytes covering [start, end4)
		end4 := start + (end-start)/4*4
		result.chain = append(result.chain, s.chain[start/4:(end4+3)/4]...)
		result.length = end4 - start
		i = end4
	}
	for ; i < end; i++ {
		code, _ := s.CodeAt(i)
		result.pushCode(code)
	}
	return result, nil
}

// RevComp returns a new sequence whose i-th base is the complement of
// the base at position length-1-i.
func (s *Sequence) RevComp() *Sequence {
	result := &Sequence{chain: make([]byte, 0, len(s.chain))}
	for i := s.length - 1; i >= 0; i-- {
		code, _ := s.CodeAt(i)
		result.pushCode(ComplementCode(code))
	}
	return result
}

// Equal compares the first length bases of two sequences, ignoring
// the unspecified trailing bits of the final bytes.
func (s *Sequence) Equal(other *Sequence) bool {
	if other == nil || s.length != other.length {
		return false
	}
	for i := 0; i < s.length; i++ {
		a, _ := s.CodeAt(i)
		b, _ := other.CodeAt(i)
		if a != b {
			return false
		}
	}
	return true
}

// Bytes unpacks the sequence back to base characters.
func (s *Sequence) Bytes() []byte {
	out := make([]byte, s.length)
	for i := 0; i < s.length; i++ {
		code, _ := s.CodeAt(i)
		out[i] = bit2base[code]
	}
	return out
}

// String unpacks the sequence to a string.
func (s *Sequence) String() string {
	return string(s.Bytes())
}
