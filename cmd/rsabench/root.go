package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mahdiidarabi/rsabench/internal/config"
	"github.com/mahdiidarabi/rsabench/pkg/rsabench"
)

// app carries state shared by every command once the config is loaded.
type app struct {
	configPath string
	logLevel   string

	// sink replaces the production log output when set
	sink zapcore.WriteSyncer

	cfg    config.Config
	logger *zap.Logger
}

// sync flushes the logger. Call it after Execute returns, whatever the outcome.
func (a *app) sync() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rsabench",
		Short: "Textbook RSA built from first principles",
		Long: `rsabench generates RSA keys from its own Miller-Rabin prime search and
encrypts and decrypts short messages with them.

Keys are textbook RSA without padding and are not meant to protect real data.`,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Path to a YAML config file")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newDemoCmd(a),
		newKeygenCmd(a),
		newEncryptCmd(a),
		newDecryptCmd(a),
		newSelftestCmd(a),
	)
	return rootCmd
}

// setup loads the config and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	var logger *zap.Logger
	if a.sink != nil {
		encoder := zapcore.NewJSONEncoder(zapCfg.EncoderConfig)
		logger = zap.New(zapcore.NewCore(encoder, a.sink, zapCfg.Level))
	} else {
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
	}

	a.cfg = cfg
	a.logger = logger.Named("rsabench")
	return nil
}

// keyFlags are the generation flags shared by demo and keygen.
type keyFlags struct {
	bits       int
	exponent   int64
	workers    int
	demoPrimes bool
}

func (f *keyFlags) register(cmd *cobra.Command, defaults config.Config) {
	cmd.Flags().IntVar(&f.bits, "bits", defaults.KeySize, "Key size in bits")
	cmd.Flags().Int64Var(&f.exponent, "exponent", defaults.Exponent, "Public exponent")
	cmd.Flags().IntVar(&f.workers, "workers", defaults.Workers, "Parallel prime search workers (0 = auto-detect, -1 = sequential)")
	cmd.Flags().BoolVar(&f.demoPrimes, "demo-primes", defaults.DemoPrimes, "Use the fixed demonstration primes (insecure)")
}

// apply overlays flags set on the command line onto cfg.
func (f *keyFlags) apply(cmd *cobra.Command, cfg config.Config) (config.Config, error) {
	if cmd.Flags().Changed("bits") {
		cfg.KeySize = f.bits
	}
	if cmd.Flags().Changed("exponent") {
		cfg.Exponent = f.exponent
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = f.workers
	}
	if cmd.Flags().Changed("demo-primes") {
		cfg.DemoPrimes = f.demoPrimes
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// generate builds a key pair as cfg describes.
func (a *app) generate(cmd *cobra.Command, cfg config.Config) (*rsabench.PublicKey, *rsabench.PrivateKey, error) {
	source := cfg.PrimeSource()
	a.logger.Info("generating key pair",
		zap.Int("key_size", cfg.KeySize),
		zap.Int64("exponent", cfg.Exponent),
		zap.String("prime_source", source.Name()),
	)

	return rsabench.NewGenerator().
		WithPrimeSource(source).
		WithLogger(a.logger).
		Generate(cmd.Context(), rsabench.KeySize(cfg.KeySize), rsabench.Exponent(cfg.Exponent))
}
