package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cojson-dev/cojson-core/cryptocache"
	"github.com/cojson-dev/cojson-core/sessionlog"
)

// replayFile is the on-disk shape a persisted session log is saved to and
// loaded from: exactly the tuple Rehydrate needs, per the
// (transactions_json, last_signature, public_key, co_id, session_id) contract
// callers are expected to persist.
type replayFile struct {
	CoID          string   `json:"co_id"`
	SessionID     string   `json:"session_id"`
	SignerID      *string  `json:"signer_id,omitempty"`
	Transactions  []string `json:"transactions"`
	LastSignature *string  `json:"last_signature,omitempty"`
}

var (
	replayInputFile string
	replayKeySecret string
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Rehydrate a persisted session log and print its transactions",
	Long: `Reads a JSON file describing a persisted session log
(co_id, session_id, signer_id, transactions, last_signature), rehydrates it
without re-verifying past signatures, and prints each transaction's
decrypted changes.

Private transactions are decrypted only if --key-secret is supplied;
otherwise their encrypted form is printed as-is.

When --input is omitted, the config's default session file is read instead
(see --config).`,
	Example: `  # Replay a session log
  cojson-crypto replay --input session.json

  # Replay and decrypt private transactions
  cojson-crypto replay --input session.json --key-secret keySecret_z...`,
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVar(&replayInputFile, "input", "", "JSON file describing the persisted session log (default: config's default session file)")
	replayCmd.Flags().StringVar(&replayKeySecret, "key-secret", "", "Key secret for decrypting private transactions")
}

func runReplay(cmd *cobra.Command, args []string) error {
	if !cmd.Flags().Changed("input") {
		replayInputFile = cfg.CLI.DefaultSessionFile
	}

	data, err := os.ReadFile(replayInputFile)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	var rf replayFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return fmt.Errorf("failed to parse input file: %w", err)
	}

	capacities := &cryptocache.Capacities{
		KeySecret:    cfg.Cache.KeySecretCapacity,
		SignerSecret: cfg.Cache.SignerSecretCapacity,
	}
	sl, err := sessionlog.Rehydrate(rf.CoID, rf.SessionID, rf.SignerID, rf.Transactions, rf.LastSignature, capacities)
	if err != nil {
		return fmt.Errorf("failed to rehydrate session log: %w", err)
	}

	type txOut struct {
		Index   int    `json:"index"`
		Changes string `json:"changes"`
		Meta    string `json:"meta,omitempty"`
	}

	var out []txOut
	for i, txJSON := range sl.TransactionsJSON() {
		entry := txOut{Index: i}

		if replayKeySecret != "" {
			changes, err := sl.DecryptNextTransactionChangesJSON(i, replayKeySecret)
			if err != nil {
				return fmt.Errorf("failed to decrypt transaction %d: %w", i, err)
			}
			entry.Changes = changes

			meta, err := sl.DecryptNextTransactionMetaJSON(i, replayKeySecret)
			if err != nil {
				return fmt.Errorf("failed to decrypt transaction %d meta: %w", i, err)
			}
			if meta != nil {
				entry.Meta = *meta
			}
		} else {
			changes, err := sl.DecryptNextTransactionChangesJSON(i, "")
			if err == nil {
				entry.Changes = changes
			} else {
				var pt sessionlog.PrivateTransaction
				if json.Unmarshal([]byte(txJSON), &pt) == nil {
					entry.Changes = pt.EncryptedChanges
				}
			}
		}

		out = append(out, entry)
	}

	result, err := json.MarshalIndent(map[string]any{
		"co_id":          sl.CoID(),
		"session_id":     sl.SessionID(),
		"last_signature": sl.LastSignature(),
		"transactions":   out,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(result))
	return nil
}
