package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkrull/ferry/internal/cipher"
)

func newCaesarCmd() *cobra.Command {
	var shift int

	cmd := &cobra.Command{
		Use:   "caesar",
		Short: "Caesar-cipher a value",
	}
	cmd.PersistentFlags().IntVarP(&shift, "key", "k", 3, "shift amount")

	encryptCmd := &cobra.Command{
		Use:   "encrypt <value>",
		Short: "Encrypt a value",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := cipher.Caesar{Shift: shift}
			fmt.Fprintln(os.Stdout, c.Encrypt(args[0]))
			return nil
		},
	}

	decryptCmd := &cobra.Command{
		Use:   "decrypt <value>",
		Short: "Decrypt a value",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := cipher.Caesar{Shift: shift}
			fmt.Fprintln(os.Stdout, c.Decrypt(args[0]))
			return nil
		},
	}

	cmd.AddCommand(encryptCmd, decryptCmd)
	return cmd
}
