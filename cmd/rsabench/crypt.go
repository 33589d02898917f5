package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mahdiidarabi/rsabench/internal/keyfile"
)

func newEncryptCmd(a *app) *cobra.Command {
	var keyPath string

	cmd := &cobra.Command{
		Use:   "encrypt --key <public key file> <message>",
		Short: "Encrypt a message and print the ciphertext as 0x-prefixed hex",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if keyPath == "" {
				return errors.New("--key is required")
			}
			pub, err := keyfile.ReadPublicKey(keyPath)
			if err != nil {
				return err
			}
			a.logger.Debug("loaded public key", zap.String("path", keyPath), zap.Int("key_size", pub.KeySize()))

			ciphertext, err := pub.Encrypt(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "0x%s\n", ciphertext)
			return nil
		},
	}
	cmd.Flags().StringVarP(&keyPath, "key", "k", "", "Public key file (.json or .yaml)")
	return cmd
}

func newDecryptCmd(a *app) *cobra.Command {
	var keyPath string

	cmd := &cobra.Command{
		Use:   "decrypt --key <private key file> <hex>",
		Short: "Decrypt a hex ciphertext",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if keyPath == "" {
				return errors.New("--key is required")
			}
			priv, err := keyfile.ReadPrivateKey(keyPath)
			if err != nil {
				return err
			}
			a.logger.Debug("loaded private key", zap.String("path", keyPath))

			plaintext, err := priv.Decrypt(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), plaintext)
			return nil
		},
	}
	cmd.Flags().StringVarP(&keyPath, "key", "k", "", "Private key file (.json or .yaml)")
	return cmd
}
