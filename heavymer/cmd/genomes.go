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
	"path/filepath"

	humanize "github.com/dustin/go-humanize"
	"github.com/dystorzion/heavymer"
	"github.com/shenwei356/stable"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"
)

var genomesCmd = &cobra.Command{
	Use:   "genomes",
	Short: "List the FASTA files of a genome directory",
	Long: `List the FASTA files of a genome directory

Shows every recognized FASTA file (.fa, .fna, .fasta, optionally
gzipped) in visiting order, with the concatenated sequence length of
each, to preview what the other commands will stream.

`,
	Run: func(cmd *cobra.Command, args []string) {
		dir := getGenomeDir(cmd)
		outFile := getFlagString(cmd, "out-file")
		basename := getFlagBool(cmd, "basename")

		reader, err := heavymer.NewGenomeReader(dir)
		checkError(err)

		type fileInfo struct {
			file string
			n    int
		}
		infos := make([]fileInfo, 0, len(reader.Files()))
		var total int64
		for {
			file := reader.CurrentFile()
			if basename {
				file = filepath.Base(file)
			}
			infos = append(infos, fileInfo{file: file, n: reader.SeqLen()})
			total += int64(reader.SeqLen())

			ok, err := reader.NextFile()
			checkError(err)
			if !ok {
				break
			}
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

		tbl := stable.New()
		tbl.HeaderWithFormat([]stable.Column{
			{Header: "file"},
			{Header: "bases", Align: stable.AlignRight},
		})
		for _, info := range infos {
			tbl.AddRow([]interface{}{info.file, humanize.Comma(int64(info.n))})
		}
		outfh.Write(tbl.Render(style))

		log.Infof("%d file(s), %s bases in total", len(infos), humanize.Comma(total))
	},
}

func init() {
	RootCmd.AddCommand(genomesCmd)

	genomesCmd.Flags().StringP("genome-dir", "D", "", "directory of FASTA files")
	genomesCmd.Flags().StringP("out-file", "o", "-", `output file ("-" for stdout)`)
	genomesCmd.Flags().BoolP("basename", "b", false, "only output basename of files")
}
