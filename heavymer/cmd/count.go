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
	"fmt"
	"runtime"

	humanize "github.com/dustin/go-humanize"
	"github.com/dystorzion/heavymer"
	"github.com/spf13/cobra"
	"github.com/twotwotwo/sorts"
)

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Find heavy-hitter k-mers with a probabilistic sketch",
	Long: `Find heavy-hitter k-mers with a probabilistic sketch

Streams every FASTA file of the genome directory once, inserting the
canonical form of each k-mer window into a Count Sketch or a Tower
Sketch, then reports the k-mers whose estimated frequency reaches
ceil(phi*N), ranked by estimate. Windows containing bases outside
{A,C,G,T} are skipped and do not count toward N.

The candidate set defaults to every distinct canonical k-mer seen;
--sample-candidates keeps only every n-th observation, trading recall
for memory.

Sketch memory is fixed by its dimensions and does not grow with the
number of distinct k-mers; the candidate set does.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		runtime.GOMAXPROCS(opt.NumCPUs)
		sorts.MaxProcs = opt.NumCPUs

		k := getKmerLength(cmd)
		phi := getPhi(cmd)
		dir := getGenomeDir(cmd)
		outFile := getFlagString(cmd, "out-file")
		sketchType := getFlagString(cmd, "sketch")
		d := getFlagPositiveInt(cmd, "depth")
		sampleEvery := getFlagNonNegativeInt(cmd, "sample-candidates")

		var est heavymer.Estimator
		var insert func(code uint64)
		var sizeBytes int
		switch sketchType {
		case "countsketch":
			s, err := heavymer.NewCountSketch(d, getFlagPositiveInt(cmd, "width"))
			checkError(err)
			est, insert, sizeBytes = s, s.Insert, s.SizeBytes()
		case "tower":
			s, err := heavymer.NewTowerSketch(
				d, getFlagPositiveInt(cmd, "width8"),
				d, getFlagPositiveInt(cmd, "width16"),
				d, getFlagPositiveInt(cmd, "width32"))
			checkError(err)
			est, insert, sizeBytes = heavymer.TowerEstimator{TowerSketch: s}, s.Insert, s.SizeBytes()
		default:
			checkError(fmt.Errorf("invalid value of --sketch: %s (countsketch or tower)", sketchType))
		}

		reader, err := heavymer.NewGenomeReader(dir)
		checkError(err)
		if opt.Verbose {
			log.Infof("%d FASTA file(s) found in %s", len(reader.Files()), dir)
			log.Infof("sketch: %s, %s of counters", sketchType, humanize.Bytes(uint64(sizeBytes)))
		}

		candidates := heavymer.NewCodeSet()
		n, err := reader.EachCanonical(k, func(code uint64) {
			insert(code)
			candidates.AddSampled(code, sampleEvery)
			if opt.Verbose && candidates.Observed()%1000000 == 0 {
				log.Infof("processed %s k-mers, %s candidates",
					humanize.Comma(int64(candidates.Observed())), humanize.Comma(int64(candidates.Len())))
			}
		})
		checkError(err)

		threshold := heavymer.Threshold(phi, n)
		if opt.Verbose {
			log.Infof("N = %s valid k-mers, threshold = ceil(%g * N) = %s",
				humanize.Comma(int64(n)), phi, humanize.Comma(int64(threshold)))
			log.Infof("evaluating %s candidate k-mers", humanize.Comma(int64(candidates.Len())))
		}

		hh := heavymer.Extract(est, candidates.Sorted(), k, threshold)

		outfh, gw, w, err := outStream(outFile)
		checkError(err)
		defer func() {
			outfh.Flush()
			if gw != nil {
				gw.Close()
			}
			w.Close()
		}()

		checkError(writeHeavyHitterCSV(outfh, hh, threshold, n, phi, k))

		if opt.Verbose {
			log.Infof("%d heavy hitter(s) saved to %s", len(hh), outFile)
		}
	},
}

func init() {
	RootCmd.AddCommand(countCmd)

	countCmd.Flags().IntP("kmer-len", "k", 21, "k-mer length (1-32)")
	countCmd.Flags().StringP("genome-dir", "D", "", "directory of FASTA files (.fa, .fna, .fasta, optionally gzipped)")
	countCmd.Flags().Float64P("phi", "p", 1e-5, "heavy-hitter ratio, in range (0, 1)")
	countCmd.Flags().StringP("out-file", "o", "-", `output CSV file ("-" for stdout, .gz for gzipped out)`)
	countCmd.Flags().StringP("sketch", "s", "tower", "sketch type: countsketch or tower")
	countCmd.Flags().IntP("depth", "d", 8, "number of rows per sketch table")
	countCmd.Flags().IntP("width", "w", 50000, "columns of the Count Sketch table")
	countCmd.Flags().IntP("width8", "", 140000, "columns of the 8-bit tower tier")
	countCmd.Flags().IntP("width16", "", 20000, "columns of the 16-bit tower tier")
	countCmd.Flags().IntP("width32", "", 5000, "columns of the 32-bit tower tier")
	countCmd.Flags().IntP("sample-candidates", "", 0, "keep only every n-th observation as a candidate (0 or 1 keeps all)")
}
