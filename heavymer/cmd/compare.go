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

	"github.com/dystorzion/heavymer"
	"github.com/shenwei356/stable"
	"github.com/shenwei356/util/pathutil"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare <estimated.csv> <truth.csv>",
	Short: "Compare a sketch heavy-hitter CSV against a ground-truth CSV",
	Long: `Compare a sketch heavy-hitter CSV against a ground-truth CSV

Reads two heavy-hitter CSV files (as written by 'count' and 'truth')
and reports set-level metrics (precision, recall, F1) and per-k-mer
error metrics between them, without re-reading any genome.

Thresholds default to the smallest frequency found in each file, i.e.
each file is taken as a complete heavy-hitter set; --est-threshold
and --real-threshold re-filter the sets.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)

		if len(args) != 2 {
			checkError(fmt.Errorf("two CSV files needed: estimated and ground truth"))
		}
		estFile, realFile := args[0], args[1]
		for _, file := range []string{estFile, realFile} {
			ok, err := pathutil.Exists(file)
			checkError(err)
			if !ok {
				checkError(fmt.Errorf("file does not exist: %s", file))
			}
		}

		outFile := getFlagString(cmd, "out-file")
		onlyHeavy := getFlagBool(cmd, "only-heavy-hitters")

		estCounts, kEst, err := readHeavyHitterCSV(estFile)
		checkError(err)
		realCounts, kReal, err := readHeavyHitterCSV(realFile)
		checkError(err)
		if kEst != 0 && kReal != 0 && kEst != kReal {
			checkError(fmt.Errorf("k-mer length mismatch: %d in %s, %d in %s", kEst, estFile, kReal, realFile))
		}
		if opt.Verbose {
			log.Infof("%d estimated and %d real heavy hitters loaded", len(estCounts), len(realCounts))
		}

		estThreshold := int64(getFlagNonNegativeInt(cmd, "est-threshold"))
		realThreshold := int64(getFlagNonNegativeInt(cmd, "real-threshold"))
		if estThreshold == 0 {
			estThreshold = minCount(estCounts)
		}
		if realThreshold == 0 {
			realThreshold = minCount(realCounts)
		}

		sm := heavymer.EvaluateSets(
			heavymer.HeavyHitterSet(estCounts, estThreshold),
			heavymer.HeavyHitterSet(realCounts, realThreshold))
		em := heavymer.EvaluateErrors(estCounts, realCounts, onlyHeavy, estThreshold, realThreshold)

		outfh, err := xopen.Wopen(outFile)
		checkError(err)
		defer outfh.Close()

		style := &stable.TableStyle{
			Name: "plain",

			HeaderRow: stable.RowStyle{Begin: "", Sep: "  ", End: ""},
			DataRow:   stable.RowStyle{Begin: "", Sep: "  ", End: ""},
			Padding:   "",
		}

		tbl := stable.New()
		tbl.HeaderWithFormat([]stable.Column{
			{Header: "metric"},
			{Header: "value", Align: stable.AlignRight},
		})
		tbl.AddRow([]interface{}{"est-threshold", estThreshold})
		tbl.AddRow([]interface{}{"real-threshold", realThreshold})
		tbl.AddRow([]interface{}{"estimated-hh", sm.Estimated})
		tbl.AddRow([]interface{}{"real-hh", sm.Real})
		tbl.AddRow([]interface{}{"TP", sm.TP})
		tbl.AddRow([]interface{}{"FP", sm.FP})
		tbl.AddRow([]interface{}{"FN", sm.FN})
		tbl.AddRow([]interface{}{"precision", fmt.Sprintf("%.3f", sm.Precision)})
		tbl.AddRow([]interface{}{"recall", fmt.Sprintf("%.3f", sm.Recall)})
		tbl.AddRow([]interface{}{"F1", fmt.Sprintf("%.3f", sm.F1)})
		tbl.AddRow([]interface{}{"compared-kmers", em.Compared})
		tbl.AddRow([]interface{}{"MAE", fmt.Sprintf("%.2f", em.MAE)})
		tbl.AddRow([]interface{}{"MRE%", fmt.Sprintf("%.2f", em.MRE)})
		tbl.AddRow([]interface{}{"RMSE", fmt.Sprintf("%.2f", em.RMSE)})
		tbl.AddRow([]interface{}{"pearson", fmt.Sprintf("%.4f", em.Pearson)})
		outfh.Write(tbl.Render(style))
	},
}

// minCount returns the smallest count of a loaded CSV, the implicit
// threshold that reproduces the file's own heavy-hitter set.
func minCount(counts map[uint64]int64) int64 {
	first := true
	var min int64
	for _, n := range counts {
		if first || n < min {
			min = n
			first = false
		}
	}
	return min
}

func init() {
	RootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringP("out-file", "o", "-", `output file ("-" for stdout)`)
	compareCmd.Flags().IntP("est-threshold", "", 0, "threshold for the estimated set (0: smallest frequency in the file)")
	compareCmd.Flags().IntP("real-threshold", "", 0, "threshold for the real set (0: smallest frequency in the file)")
	compareCmd.Flags().BoolP("only-heavy-hitters", "", false, "restrict error metrics to the union of both heavy-hitter sets")
}
