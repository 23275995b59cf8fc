package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/rollkit/evmopts/pkg/config"
)

const flagDocsDir = "dir"

// DocsGenCmd returns the command generating markdown documentation for the
// whole command tree.
func DocsGenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs-gen",
		Short: "Generate documentation for the evmopts CLI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cmd.Flags().GetString(flagDocsDir)
			if err != nil {
				return fmt.Errorf("error reading %s flag: %w", flagDocsDir, err)
			}
			if err := config.EnsureRoot(dir); err != nil {
				return err
			}

			root := cmd.Root()
			root.DisableAutoGenTag = true
			return doc.GenMarkdownTree(root, dir)
		},
	}
	cmd.Flags().String(flagDocsDir, "./docs", "Directory the markdown files are written to")
	return cmd
}
