package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cojson-dev/cojson-core/codec"
	"github.com/cojson-dev/cojson-core/hash"
)

var (
	hashMessage     string
	hashMessageFile string
	hashTagged      bool
)

var hashCmd = &cobra.Command{
	Use:   "hash",
	Short: "Compute the BLAKE3 digest of a message",
	Long:  `Reads a message from a flag, file, or stdin and prints its BLAKE3 digest.`,
	Example: `  # Hash a message as a tagged string
  cojson-crypto hash --message "hello" --tagged

  # Hash a file as hex
  cojson-crypto hash --message-file data.bin`,
	RunE: runHash,
}

func init() {
	rootCmd.AddCommand(hashCmd)

	hashCmd.Flags().StringVarP(&hashMessage, "message", "m", "", "Message to hash")
	hashCmd.Flags().StringVar(&hashMessageFile, "message-file", "", "File containing message to hash")
	hashCmd.Flags().BoolVar(&hashTagged, "tagged", false, "Print as a hash_z... tagged string instead of hex")
}

func runHash(cmd *cobra.Command, args []string) error {
	var data []byte
	switch {
	case hashMessage != "":
		data = []byte(hashMessage)
	case hashMessageFile != "":
		b, err := os.ReadFile(hashMessageFile)
		if err != nil {
			return fmt.Errorf("failed to read message file: %w", err)
		}
		data = b
	default:
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read from stdin: %w", err)
		}
		data = b
	}

	digest := hash.Once(data)
	if hashTagged {
		fmt.Println(codec.EncodeTagged("hash", digest[:]))
		return nil
	}
	fmt.Println(hex.EncodeToString(digest[:]))
	return nil
}
