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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/util/pathutil"
)

// ErrInvalidK means k < 1.
var ErrInvalidK = fmt.Errorf("heavymer: invalid k-mer size")

// ErrNoInputs means the genome directory holds no FASTA file.
var ErrNoInputs = fmt.Errorf("heavymer: no FASTA files found")

// fastaSuffixes are the recognized input extensions, plus their
// gzipped forms (fastx reads gzip transparently).
var fastaSuffixes = []string{
	".fa", ".fna", ".fasta",
	".fa.gz", ".fna.gz", ".fasta.gz",
}

// GenomeReader walks the FASTA files of a directory and emits
// fixed-length k-mer windows one position at a time.
//
// Within one file, the sequence lines of ALL records are concatenated:
// record boundaries do not interrupt the stream, so a window may span
// two records. Windows never span two files; when a file is
// exhausted the reader moves to the next one and restarts at
// position 0. Files are visited in name order.
//
// The reader emits raw windows without validating bases; consumers
// skip windows containing anything outside {A,C,G,T} (see
// EachCanonical).
type GenomeReader struct {
	dir   string
	files []string

	fileIndex int
	data      []byte // concatenated payload of the current file
	pos       int
}

// NewGenomeReader scans dir for FASTA files and loads the first one.
func NewGenomeReader(dir string) (*GenomeReader, error) {
	ok, err := pathutil.DirExists(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "check directory %s", dir)
	}
	if !ok {
		return nil, fmt.Errorf("heavymer: not a directory: %s", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read directory %s", dir)
	}

	r := &GenomeReader{dir: dir}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		for _, suffix := range fastaSuffixes {
			if strings.HasSuffix(name, suffix) {
				r.files = append(r.files, filepath.Join(dir, name))
				break
			}
		}
	}
	if len(r.files) == 0 {
		return nil, ErrNoInputs
	}
	sort.Strings(r.files)

	if err = r.loadCurrentFile(); err != nil {
		return nil, err
	}
	return r, nil
}

// loadCurrentFile concatenates the sequence of every record of the
// current file. A file containing only headers loads as an empty
// payload and simply yields no windows.
func (r *GenomeReader) loadCurrentFile() error {
	file := r.files[r.fileIndex]

	seq.ValidateSeq = false
	reader, err := fastx.NewDefaultReader(file)
	if err != nil {
		return errors.Wrapf(err, "open %s", file)
	}

	r.data = r.data[:0]
	r.pos = 0

	var record *fastx.Record
	for {
		record, err = reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return errors.Wrapf(err, "read %s", file)
		}
		r.data = append(r.data, record.Seq.Seq...)
	}
	return nil
}

// Files returns the discovered FASTA files, in visiting order.
func (r *GenomeReader) Files() []string {
	return r.files
}

// CurrentFile returns the path of the file the cursor is in.
func (r *GenomeReader) CurrentFile() string {
	return r.files[r.fileIndex]
}

// SeqLen returns the concatenated sequence length of the current file.
func (r *GenomeReader) SeqLen() int {
	return len(r.data)
}

// Position returns the cursor position within the current file.
func (r *GenomeReader) Position() int {
	return r.pos
}

// Reset moves the cursor back to position 0 of the current file.
func (r *GenomeReader) Reset() {
	r.pos = 0
}

// Rewind moves back to the first file and reloads it, for a second
// pass over the whole directory.
func (r *GenomeReader) Rewind() error {
	r.fileIndex = 0
	return r.loadCurrentFile()
}

// NextFile advances to the next file; ok is false when none remain.
func (r *GenomeReader) NextFile() (ok bool, err error) {
	if r.fileIndex+1 >= len(r.files) {
		return false, nil
	}
	r.fileIndex++
	if err = r.loadCurrentFile(); err != nil {
		return false, err
	}
	return true, nil
}

// NextKmer emits the k-length window at the cursor and advances the
// cursor by one. When the window would run past the current file it
// advances to the next file and retries; ok is false at end of
// stream. The returned slice aliases the reader's buffer and is only
// valid until the next load.
func (r *GenomeReader) NextKmer(k int) (kmer []byte, ok bool, err error) {
	if k < 1 {
		return nil, false, ErrInvalidK
	}
	for r.pos+k > len(r.data) {
		ok, err = r.NextFile()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, nil
		}
	}
	kmer = r.data[r.pos : r.pos+k]
	r.pos++
	return kmer, true, nil
}

// HasMore reports whether another window is available in the current
// file or another file remains.
func (r *GenomeReader) HasMore(k int) bool {
	if k >= 1 && r.pos+k <= len(r.data) {
		return true
	}
	return r.fileIndex+1 < len(r.files)
}

// EachCanonical streams every valid window from the current position
// to the end of the last file, calling fn with the canonical code of
// each. Windows containing a base outside {A,C,G,T} are skipped
// silently and not counted. Returns N, the number of valid windows.
//
// Consecutive windows re-use the previous code and only encode the
// entering base; the encoder falls back to a full re-encode after a
// skipped window or a file switch.
func (r *GenomeReader) EachCanonical(k int, fn func(code uint64)) (n uint64, err error) {
	if k < 1 || k > 32 {
		return 0, ErrKOverflow
	}

	var kmer []byte
	var ok, rolling bool
	var code uint64
	var lastFile, lastPos int

	for {
		kmer, ok, err = r.NextKmer(k)
		if err != nil {
			return n, err
		}
		if !ok {
			return n, nil
		}

		if rolling && r.fileIndex == lastFile && r.pos == lastPos+1 {
			code, err = MustEncodeFromFormerKmer(kmer, code)
		} else {
			code, err = Encode(kmer)
		}
		if err != nil {
			rolling = false
			continue
		}
		rolling = true
		lastFile, lastPos = r.fileIndex, r.pos

		fn(Canonical(code, k))
		n++
	}
}
