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
	"github.com/shenwei356/stable"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"
	"github.com/twotwotwo/sorts"
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate sketch accuracy against exact counts",
	Long: `Evaluate sketch accuracy against exact counts

Streams the genome directory once, feeding every canonical k-mer into
BOTH the chosen sketch and an exact counter, then reports:

  1. set-level heavy-hitter metrics at threshold ceil(phi*N):
     precision, recall, F1, TP/FP/FN;
  2. per-k-mer error metrics: MAE, MRE (%), MSE, RMSE and the Pearson
     correlation between estimated and exact counts. By default the
     comparison set is all distinct k-mers; --only-heavy-hitters
     restricts it to the union of the two heavy-hitter sets.

With --sweep-est/--sweep-real, every threshold pair is evaluated and
the F1-maximizing pair reported.

The exact counter holds every distinct k-mer in memory; use on
bounded inputs.

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
		onlyHeavy := getFlagBool(cmd, "only-heavy-hitters")
		sweepEst := getFlagInt64Slice(cmd, "sweep-est")
		sweepReal := getFlagInt64Slice(cmd, "sweep-real")

		var est heavymer.Estimator
		var insert func(code uint64)
		switch sketchType {
		case "countsketch":
			s, err := heavymer.NewCountSketch(d, getFlagPositiveInt(cmd, "width"))
			checkError(err)
			est, insert = s, s.Insert
		case "tower":
			s, err := heavymer.NewTowerSketch(
				d, getFlagPositiveInt(cmd, "width8"),
				d, getFlagPositiveInt(cmd, "width16"),
				d, getFlagPositiveInt(cmd, "width32"))
			checkError(err)
			est, insert = heavymer.TowerEstimator{TowerSketch: s}, s.Insert
		default:
			checkError(fmt.Errorf("invalid value of --sketch: %s (countsketch or tower)", sketchType))
		}

		reader, err := heavymer.NewGenomeReader(dir)
		checkError(err)
		if opt.Verbose {
			log.Infof("%d FASTA file(s) found in %s", len(reader.Files()), dir)
		}

		exact := heavymer.NewExactCounter()
		n, err := reader.EachCanonical(k, func(code uint64) {
			insert(code)
			exact.Add(code)
			if opt.Verbose && exact.Total()%1000000 == 0 {
				log.Infof("processed %s k-mers", humanize.Comma(int64(exact.Total())))
			}
		})
		checkError(err)

		threshold := int64(heavymer.Threshold(phi, n))
		if opt.Verbose {
			log.Infof("N = %s valid k-mers, %s distinct, threshold = %s",
				humanize.Comma(int64(n)), humanize.Comma(int64(exact.Distinct())),
				humanize.Comma(threshold))
		}

		realCounts := exact.Counts()
		estCounts := make(map[uint64]int64, len(realCounts))
		for _, code := range exact.Codes() {
			estCounts[code] = est.Estimate(code)
		}

		outfh, err := xopen.Wopen(outFile)
		checkError(err)
		defer outfh.Close()

		style := &stable.TableStyle{
			Name: "plain",

			HeaderRow: stable.RowStyle{Begin: "", Sep: "  ", End: ""},
			DataRow:   stable.RowStyle{Begin: "", Sep: "  ", End: ""},
			Padding:   "",
		}

		sm := heavymer.EvaluateSets(
			heavymer.HeavyHitterSet(estCounts, threshold),
			heavymer.HeavyHitterSet(realCounts, threshold))

		tbl := stable.New()
		tbl.HeaderWithFormat([]stable.Column{
			{Header: "metric"},
			{Header: "value", Align: stable.AlignRight},
		})
		tbl.AddRow([]interface{}{"total-kmers", humanize.Comma(int64(n))})
		tbl.AddRow([]interface{}{"distinct-kmers", humanize.Comma(int64(exact.Distinct()))})
		tbl.AddRow([]interface{}{"threshold", humanize.Comma(threshold)})
		tbl.AddRow([]interface{}{"estimated-hh", sm.Estimated})
		tbl.AddRow([]interface{}{"real-hh", sm.Real})
		tbl.AddRow([]interface{}{"TP", sm.TP})
		tbl.AddRow([]interface{}{"FP", sm.FP})
		tbl.AddRow([]interface{}{"FN", sm.FN})
		tbl.AddRow([]interface{}{"precision", fmt.Sprintf("%.3f", sm.Precision)})
		tbl.AddRow([]interface{}{"recall", fmt.Sprintf("%.3f", sm.Recall)})
		tbl.AddRow([]interface{}{"F1", fmt.Sprintf("%.3f", sm.F1)})
		outfh.Write(tbl.Render(style))
		outfh.WriteString("\n")

		em := heavymer.EvaluateErrors(estCounts, realCounts, onlyHeavy, threshold, threshold)

		tbl = stable.New()
		tbl.HeaderWithFormat([]stable.Column{
			{Header: "error-metric"},
			{Header: "value", Align: stable.AlignRight},
		})
		tbl.AddRow([]interface{}{"compared-kmers", em.Compared})
		tbl.AddRow([]interface{}{"MAE", fmt.Sprintf("%.2f", em.MAE)})
		tbl.AddRow([]interface{}{"MRE%", fmt.Sprintf("%.2f", em.MRE)})
		tbl.AddRow([]interface{}{"MSE", fmt.Sprintf("%.2f", em.MSE)})
		tbl.AddRow([]interface{}{"RMSE", fmt.Sprintf("%.2f", em.RMSE)})
		tbl.AddRow([]interface{}{"pearson", fmt.Sprintf("%.4f", em.Pearson)})
		outfh.Write(tbl.Render(style))

		if len(sweepEst) > 0 && len(sweepReal) > 0 {
			outfh.WriteString("\n")
			results, best := heavymer.SweepThresholds(estCounts, realCounts, sweepEst, sweepReal)

			tbl = stable.New()
			tbl.HeaderWithFormat([]stable.Column{
				{Header: "est-threshold", Align: stable.AlignRight},
				{Header: "real-threshold", Align: stable.AlignRight},
				{Header: "precision", Align: stable.AlignRight},
				{Header: "recall", Align: stable.AlignRight},
				{Header: "F1", Align: stable.AlignRight},
				{Header: "TP", Align: stable.AlignRight},
				{Header: "FP", Align: stable.AlignRight},
				{Header: "FN", Align: stable.AlignRight},
			})
			for _, r := range results {
				tbl.AddRow([]interface{}{
					r.EstThreshold, r.RealThreshold,
					fmt.Sprintf("%.3f", r.Precision),
					fmt.Sprintf("%.3f", r.Recall),
					fmt.Sprintf("%.3f", r.F1),
					r.TP, r.FP, r.FN,
				})
			}
			outfh.Write(tbl.Render(style))

			log.Infof("best thresholds: est=%d real=%d (F1=%.3f)",
				best.EstThreshold, best.RealThreshold, best.F1)
		}
	},
}

func init() {
	RootCmd.AddCommand(evalCmd)

	evalCmd.Flags().IntP("kmer-len", "k", 21, "k-mer length (1-32)")
	evalCmd.Flags().StringP("genome-dir", "D", "", "directory of FASTA files (.fa, .fna, .fasta, optionally gzipped)")
	evalCmd.Flags().Float64P("phi", "p", 1e-5, "heavy-hitter ratio, in range (0, 1)")
	evalCmd.Flags().StringP("out-file", "o", "-", `output file ("-" for stdout, .gz for gzipped out)`)
	evalCmd.Flags().StringP("sketch", "s", "tower", "sketch type: countsketch or tower")
	evalCmd.Flags().IntP("depth", "d", 8, "number of rows per sketch table")
	evalCmd.Flags().IntP("width", "w", 50000, "columns of the Count Sketch table")
	evalCmd.Flags().IntP("width8", "", 140000, "columns of the 8-bit tower tier")
	evalCmd.Flags().IntP("width16", "", 20000, "columns of the 16-bit tower tier")
	evalCmd.Flags().IntP("width32", "", 5000, "columns of the 32-bit tower tier")
	evalCmd.Flags().BoolP("only-heavy-hitters", "", false, "restrict error metrics to the union of both heavy-hitter sets")
	evalCmd.Flags().Int64SliceP("sweep-est", "", nil, "estimated-count thresholds to sweep")
	evalCmd.Flags().Int64SliceP("sweep-real", "", nil, "real-count thresholds to sweep")
}
