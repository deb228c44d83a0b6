package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

func newDocsCmd() *cobra.Command {
	var (
		outDir   string
		markdown bool
	)

	cmd := &cobra.Command{
		Use:    "gen-docs",
		Short:  "Generate man pages or markdown docs",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := os.MkdirAll(outDir, 0755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
			root := cmd.Root()
			if markdown {
				return doc.GenMarkdownTree(root, outDir)
			}
			return doc.GenManTree(root, &doc.GenManHeader{
				Title:   "FERRY",
				Section: "1",
				Source:  "ferry " + version,
			}, outDir)
		},
	}

	cmd.Flags().StringVar(&outDir, "dir", "docs", "output directory")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "generate markdown instead of man pages")

	return cmd
}
