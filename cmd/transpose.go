package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/helperkit/helperkit/helper/transpose"
)

var (
	transposePath      string
	transposeRecursive bool
	transposeInverse   bool
)

var transposeCmd = &cobra.Command{
	Use:   "transpose",
	Short: "Turn a YAML list of mappings into a mapping of lists, or back",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runTranspose(cmd.OutOrStdout(), transposePath, transposeRecursive, transposeInverse); err != nil {
			logrus.Fatalf("Transpose failed: %v", err)
		}
	},
}

func runTranspose(w io.Writer, path string, recursive, inverse bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	var out any
	if inverse {
		rec, err := transpose.AsRecord(doc)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		rows, err := transpose.RecordToList(rec)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		list := make([]any, len(rows))
		for i, r := range rows {
			list[i] = transpose.Materialize(r)
		}
		out = list
	} else {
		batch, ok := doc.([]any)
		if !ok {
			return fmt.Errorf("%s: top level is %T, want a list of mappings", path, doc)
		}
		var opts []transpose.Option
		if recursive {
			opts = append(opts, transpose.WithRecursive())
		}
		rec, err := transpose.ListToRecord(batch, opts...)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		out = transpose.Materialize(rec)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

func init() {
	transposeCmd.Flags().StringVar(&transposePath, "file", "", "Path to the YAML document")
	transposeCmd.Flags().BoolVar(&transposeRecursive, "recursive", false, "Transpose nested mappings as well")
	transposeCmd.Flags().BoolVar(&transposeInverse, "inverse", false, "Turn a mapping of lists into a list of mappings")
	_ = transposeCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(transposeCmd)
}
