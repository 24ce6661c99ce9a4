// Command cojson-crypto exposes cojson-core's primitives — key generation,
// signing, sealing, compression, and session-log replay — as a CLI, mostly
// useful for scripting test fixtures and inspecting logs by hand.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cojson-dev/cojson-core/config"
	"github.com/cojson-dev/cojson-core/internal/logger"
)

var (
	logLevel  string
	logFormat string
	cfgFile   string

	// cfg holds the loaded CLI configuration (default key/session file
	// locations, logging defaults). Populated in PersistentPreRunE before any
	// subcommand's RunE runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "cojson-crypto",
	Short: "cojson-core CLI — keys, signing, sealing, compression, session logs",
	Long: `cojson-crypto provides tools for exercising cojson-core's cryptographic
primitives from the command line.

This tool supports:
- Ed25519 signer and X25519 sealer key pair generation
- Message signing and verification
- Sealed-box encryption between two parties
- LZ77-style stream compression and decompression
- Replaying a persisted session log`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgFile != "" {
			cfg, err = config.LoadFromFile(cfgFile)
		} else {
			cfg = config.Default()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if !cmd.Flags().Changed("log-level") {
			logLevel = cfg.Logging.Level
		}
		if !cmd.Flags().Changed("log-format") {
			logFormat = cfg.Logging.Format
		}

		level, err := parseLogLevel(logLevel)
		if err != nil {
			return err
		}
		l := logger.NewLogger(os.Stderr, level)
		l.SetPrettyPrint(logFormat != "json")
		logger.SetDefaultLogger(l)
		return nil
	},
}

func parseLogLevel(s string) (logger.Level, error) {
	switch s {
	case "debug":
		return logger.DebugLevel, nil
	case "info":
		return logger.InfoLevel, nil
	case "warn":
		return logger.WarnLevel, nil
	case "error":
		return logger.ErrorLevel, nil
	default:
		return 0, fmt.Errorf("unsupported log level: %s", s)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "log format (json, text)")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "CLI config file (YAML or JSON); sets defaults for key/session file locations and logging")

	// Commands are registered in their respective files:
	// - generate.go: generateCmd
	// - sign.go: signCmd, verifyCmd
	// - seal.go: sealCmd, unsealCmd
	// - compress.go: compressCmd, decompressCmd
	// - hash.go: hashCmd
	// - replay.go: replayCmd
}
