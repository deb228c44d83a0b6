package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkrull/ferry/internal/digest"
)

func newHashCmd(opts *rootOptions) *cobra.Command {
	var (
		algoName string
		text     bool
	)

	cmd := &cobra.Command{
		Use:   "hash <path>",
		Short: "Print the digest of a file or a literal value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("algorithm") && opts.cfg.Defaults.Algorithm != nil {
				algoName = *opts.cfg.Defaults.Algorithm
			}
			algo, err := digest.Parse(algoName)
			if err != nil {
				return err
			}

			if text {
				sum, err := digest.Sum([]byte(args[0]), algo)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), sum)
				return nil
			}

			sum, err := digest.SumFile(args[0], algo)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", sum, args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&algoName, "algorithm", "a", string(digest.BLAKE3),
		"digest algorithm (blake3, md5, sha1, sha256, sha512, sha3-256, sha3-512)")
	cmd.Flags().BoolVarP(&text, "text", "t", false, "hash the argument as a literal value instead of a file path")

	return cmd
}
