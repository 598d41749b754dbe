package cmd

import (
	"fmt"
	"io"
	"slices"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/helperkit/helperkit/helper/tree"
)

var (
	flattenPath string
	flattenSep  string
)

var flattenCmd = &cobra.Command{
	Use:   "flatten",
	Short: "Print every leaf of a YAML tree as a flat key",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runFlatten(cmd.OutOrStdout(), flattenPath, flattenSep); err != nil {
			logrus.Fatalf("Flatten failed: %v", err)
		}
	},
}

func runFlatten(w io.Writer, path, sep string) error {
	t, err := tree.Load(path)
	if err != nil {
		return err
	}
	flat := tree.Flatten(t, sep)
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "%s: %v\n", k, flat[k]); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	flattenCmd.Flags().StringVar(&flattenPath, "file", "", "Path to the YAML tree")
	flattenCmd.Flags().StringVar(&flattenSep, "sep", tree.DefaultSeparator, "Separator between nested keys")
	_ = flattenCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(flattenCmd)
}
