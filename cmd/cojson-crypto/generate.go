package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cojson-dev/cojson-core/codec"
	"github.com/cojson-dev/cojson-core/ed25519x"
	"github.com/cojson-dev/cojson-core/keys"
	"github.com/cojson-dev/cojson-core/sealedbox"
	"github.com/cojson-dev/cojson-core/sessionlog"
	"github.com/cojson-dev/cojson-core/x25519x"
)

var (
	genKeyType    string
	genOutputFile string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new key pair",
	Long: `Generate a new signer (Ed25519) or sealer (X25519) key pair.

Supported key types:
  - signer: Ed25519 signing key, used for session-log transaction signatures
  - sealer: X25519 key, used for sealed-box key exchange
  - session: a fresh (co_id, session_id) identifier pair, for callers that
    don't already have their own opaque identifiers

When --output is omitted, the result is written to the config's default key
or session file (see --config) rather than printed to stdout.`,
	Example: `  # Generate a signer key pair
  cojson-crypto generate --type signer

  # Generate a sealer key pair and save it to a file
  cojson-crypto generate --type sealer --output sealer.json

  # Generate a fresh session identifier pair
  cojson-crypto generate --type session`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&genKeyType, "type", "t", "signer", "Key type (signer, sealer, session)")
	generateCmd.Flags().StringVarP(&genOutputFile, "output", "o", "", "Output file (default: config's default key/session file)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	var result map[string]string

	if !cmd.Flags().Changed("output") {
		if genKeyType == "session" {
			genOutputFile = cfg.CLI.DefaultSessionFile
		} else {
			genOutputFile = cfg.CLI.DefaultKeyFile
		}
	}

	switch genKeyType {
	case "signer":
		seed, err := ed25519x.NewSigningKey()
		if err != nil {
			return fmt.Errorf("failed to generate signer key: %w", err)
		}
		secretTagged := codec.EncodeTagged("signerSecret", seed[:])
		idTagged, err := keys.SignerIDFromSecret(secretTagged)
		if err != nil {
			return fmt.Errorf("failed to derive signer id: %w", err)
		}
		result = map[string]string{
			"type":   "signer",
			"secret": secretTagged,
			"id":     idTagged,
		}
	case "sealer":
		secret, err := x25519x.NewPrivateKey()
		if err != nil {
			return fmt.Errorf("failed to generate sealer key: %w", err)
		}
		secretTagged := codec.EncodeTagged("sealerSecret", secret[:])
		idTagged, err := sealedbox.SealerIDFromSecret(secretTagged)
		if err != nil {
			return fmt.Errorf("failed to derive sealer id: %w", err)
		}
		result = map[string]string{
			"type":   "sealer",
			"secret": secretTagged,
			"id":     idTagged,
		}
	case "session":
		result = map[string]string{
			"type":       "session",
			"co_id":      sessionlog.NewCoID(),
			"session_id": sessionlog.NewSessionID(),
		}
	default:
		return fmt.Errorf("unsupported key type: %s", genKeyType)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	return writeOutput(out, genOutputFile)
}

func writeOutput(data []byte, path string) error {
	if path == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Printf("Key saved to: %s\n", path)
	return nil
}
