package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkrull/ferry/internal/randgen"
)

func newRandomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Generate random numbers, strings, and UUIDs",
	}

	var (
		repeat    int
		separator string
	)
	cmd.PersistentFlags().IntVar(&repeat, "repeat", 1, "number of values to generate")
	cmd.PersistentFlags().StringVar(&separator, "separator", "\n", "separator between generated values")

	// emit generates repeat values and prints them joined by the separator.
	emit := func(gen func() (string, error)) error {
		if repeat < 1 {
			return fmt.Errorf("repeat must be at least 1, got %d", repeat)
		}
		values := make([]string, 0, repeat)
		for range repeat {
			v, err := gen()
			if err != nil {
				return err
			}
			values = append(values, v)
		}
		fmt.Fprintln(os.Stdout, strings.Join(values, separator))
		return nil
	}

	var minVal, maxVal int64
	numberCmd := &cobra.Command{
		Use:   "number",
		Short: "Generate uniform random integers in [min, max]",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return emit(func() (string, error) {
				n, err := randgen.Number(minVal, maxVal)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("%d", n), nil
			})
		},
	}
	numberCmd.Flags().Int64Var(&minVal, "min", 0, "lower bound (inclusive)")
	numberCmd.Flags().Int64Var(&maxVal, "max", 100, "upper bound (inclusive)")

	var (
		length      int
		charsetName string
	)
	stringCmd := &cobra.Command{
		Use:   "string",
		Short: "Generate random strings",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			charset, err := randgen.ParseCharset(charsetName)
			if err != nil {
				return err
			}
			return emit(func() (string, error) {
				return randgen.String(length, charset)
			})
		},
	}
	stringCmd.Flags().IntVarP(&length, "length", "l", 16, "string length")
	stringCmd.Flags().StringVar(&charsetName, "charset", string(randgen.Alphanumeric),
		"alphabet (alphanumeric, letters, digits, hex)")

	uuidCmd := &cobra.Command{
		Use:   "uuid",
		Short: "Generate random UUIDs",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return emit(func() (string, error) {
				return randgen.UUID(), nil
			})
		},
	}

	cmd.AddCommand(numberCmd, stringCmd, uuidCmd)
	return cmd
}
