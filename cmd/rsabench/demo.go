package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mahdiidarabi/rsabench/internal/config"
)

func newDemoCmd(a *app) *cobra.Command {
	var flags keyFlags

	cmd := &cobra.Command{
		Use:   "demo <plaintext>",
		Short: "Generate a key pair, then encrypt and decrypt a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.apply(cmd, a.cfg)
			if err != nil {
				return err
			}
			plaintext := args[0]

			pub, priv, err := a.generate(cmd, cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "\n\nRSA PUBLIC KEY ENCRYPTION")
			fmt.Fprintf(out, "\nPlaintext:            '%s'\n", plaintext)
			fmt.Fprintf(out, "* Private key is: %s\n", priv)
			fmt.Fprintf(out, "* Public key is:  %s\n", pub)

			encrypted, err := pub.Encrypt(plaintext)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nCiphertext:           '0x%s'\n", encrypted)

			decrypted, err := priv.Decrypt(encrypted)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nDecrypted ciphertext: '%s'\n", decrypted)
			return nil
		},
	}
	flags.register(cmd, config.Default())
	return cmd
}
