package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/helperkit/helperkit/helper/tree"
)

// mergeOptions mirrors the merge command's flags.
type mergeOptions struct {
	basePath       string
	overridePath   string
	strict         bool
	allowNewKeys   bool
	whitelist      []string
	overrideOnType []string
}

var mergeOpts mergeOptions

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge an override YAML tree onto a base YAML tree",
	Long: "Deep-merge --override onto --base and write the result to stdout. With --strict the override " +
		"may only refine keys already present in the base, except under --whitelist paths and " +
		"for --override-on-type-change blocks whose 'type' differs.",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runMerge(cmd.OutOrStdout(), mergeOpts); err != nil {
			logrus.Fatalf("Merge failed: %v", err)
		}
	},
}

func runMerge(w io.Writer, opts mergeOptions) error {
	base, err := tree.Load(opts.basePath)
	if err != nil {
		return err
	}
	override, err := tree.Load(opts.overridePath)
	if err != nil {
		return err
	}

	var merged tree.Tree
	if opts.strict {
		merged, err = tree.DeepUpdate(base, override,
			tree.WithNewKeysAllowed(opts.allowNewKeys),
			tree.WithWhitelist(opts.whitelist...),
			tree.WithOverrideAllIfTypeChanges(opts.overrideOnType...),
		)
		if err != nil {
			return fmt.Errorf("applying %s: %w", opts.overridePath, err)
		}
	} else {
		merged = tree.DeepMerge(base, override)
	}
	logrus.Debugf("merged %d base keys with %d override keys", len(base), len(override))
	return tree.Encode(w, merged)
}

func init() {
	mergeCmd.Flags().StringVar(&mergeOpts.basePath, "base", "", "Path to the base YAML tree")
	mergeCmd.Flags().StringVar(&mergeOpts.overridePath, "override", "", "Path to the override YAML tree")
	mergeCmd.Flags().BoolVar(&mergeOpts.strict, "strict", false, "Reject keys absent from the base")
	mergeCmd.Flags().BoolVar(&mergeOpts.allowNewKeys, "allow-new-keys", false, "With --strict, accept new keys anywhere")
	mergeCmd.Flags().StringArrayVar(&mergeOpts.whitelist, "whitelist", nil, "With --strict, a path (e.g. model/head) whose sub-tree accepts new keys (can be repeated)")
	mergeCmd.Flags().StringArrayVar(&mergeOpts.overrideOnType, "override-on-type-change", nil, "With --strict, a path replaced wholesale when its 'type' changes (can be repeated)")
	_ = mergeCmd.MarkFlagRequired("base")
	_ = mergeCmd.MarkFlagRequired("override")

	rootCmd.AddCommand(mergeCmd)
}
