package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mahdiidarabi/rsabench/internal/config"
	"github.com/mahdiidarabi/rsabench/internal/keyfile"
)

func newKeygenCmd(a *app) *cobra.Command {
	var (
		flags  keyFlags
		out    string
		format string
	)

	cmd := &cobra.Command{
		Use:   "keygen --out <prefix>",
		Short: "Generate a key pair and write it to <prefix>.pub.<ext> and <prefix>.key.<ext>",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				return errors.New("--out is required")
			}
			cfg, err := flags.apply(cmd, a.cfg)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("format") {
				cfg.Format = format
			}
			f, err := keyfile.ParseFormat(cfg.Format)
			if err != nil {
				return err
			}

			pub, priv, err := a.generate(cmd, cfg)
			if err != nil {
				return err
			}

			pubPath := fmt.Sprintf("%s.pub.%s", out, f.Ext())
			keyPath := fmt.Sprintf("%s.key.%s", out, f.Ext())
			if err := keyfile.WritePublicKey(pubPath, pub); err != nil {
				return err
			}
			if err := keyfile.WritePrivateKey(keyPath, priv); err != nil {
				return err
			}

			a.logger.Info("wrote key pair",
				zap.String("public_key", pubPath),
				zap.String("private_key", keyPath),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Public key:  %s\nPrivate key: %s\n", pubPath, keyPath)
			return nil
		},
	}

	defaults := config.Default()
	flags.register(cmd, defaults)
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path prefix")
	cmd.Flags().StringVar(&format, "format", defaults.Format, "Key file format (json or yaml)")
	return cmd
}
