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
	"runtime"

	humanize "github.com/dustin/go-humanize"
	"github.com/dystorzion/heavymer"
	"github.com/spf13/cobra"
	"github.com/twotwotwo/sorts"
)

var truthCmd = &cobra.Command{
	Use:   "truth",
	Short: "Find heavy-hitter k-mers with exact counting (ground truth)",
	Long: `Find heavy-hitter k-mers with exact counting (ground truth)

Counts every canonical k-mer of the genome directory exactly in a hash
map and reports the heavy hitters at threshold ceil(phi*N). The same
validity filter as 'count' applies, so N is identical for both, and
the output uses the same CSV schema.

Memory grows with the number of distinct k-mers; use on bounded
inputs.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		runtime.GOMAXPROCS(opt.NumCPUs)
		sorts.MaxProcs = opt.NumCPUs

		k := getKmerLength(cmd)
		phi := getPhi(cmd)
		dir := getGenomeDir(cmd)
		outFile := getFlagString(cmd, "out-file")

		reader, err := heavymer.NewGenomeReader(dir)
		checkError(err)
		if opt.Verbose {
			log.Infof("%d FASTA file(s) found in %s", len(reader.Files()), dir)
		}

		exact := heavymer.NewExactCounter()
		n, err := reader.EachCanonical(k, func(code uint64) {
			exact.Add(code)
			if opt.Verbose && exact.Total()%1000000 == 0 {
				log.Infof("processed %s k-mers, %s distinct",
					humanize.Comma(int64(exact.Total())), humanize.Comma(int64(exact.Distinct())))
			}
		})
		checkError(err)

		threshold := heavymer.Threshold(phi, n)
		if opt.Verbose {
			log.Infof("N = %s valid k-mers, %s distinct, threshold = %s",
				humanize.Comma(int64(n)), humanize.Comma(int64(exact.Distinct())),
				humanize.Comma(int64(threshold)))
		}

		hh := exact.HeavyHitters(k, threshold)

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
	RootCmd.AddCommand(truthCmd)

	truthCmd.Flags().IntP("kmer-len", "k", 21, "k-mer length (1-32)")
	truthCmd.Flags().StringP("genome-dir", "D", "", "directory of FASTA files (.fa, .fna, .fasta, optionally gzipped)")
	truthCmd.Flags().Float64P("phi", "p", 1e-5, "heavy-hitter ratio, in range (0, 1)")
	truthCmd.Flags().StringP("out-file", "o", "-", `output CSV file ("-" for stdout, .gz for gzipped out)`)
}
