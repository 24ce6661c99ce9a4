package main

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cojson-dev/cojson-core/sealedbox"
)

var (
	sealSenderSecret  string
	sealRecipientID   string
	sealNonceMaterial string
	sealOutputFile    string
	sealedArg         string
)

var sealCmd = &cobra.Command{
	Use:   "seal",
	Short: "Seal a message for a recipient",
	Long: `Encrypt a message for recipientIDTagged using the sender's sealer
secret key, deriving the nonce from the given nonce material.

The sealed output is base64-encoded on stdout (or the output file).`,
	Example: `  # Seal a message
  cojson-crypto seal --key sealerSecret_z... --to sealer_z... --nonce-material "co_abc:1" --message "hello"`,
	RunE: runSeal,
}

var unsealCmd = &cobra.Command{
	Use:   "unseal",
	Short: "Unseal a message from a sender",
	Long:  `Decrypt a sealed message, given the recipient's own secret key and the sender's public id.`,
	Example: `  # Unseal a message
  cojson-crypto unseal --key sealerSecret_z... --from sealer_z... --nonce-material "co_abc:1" --sealed <base64>`,
	RunE: runUnseal,
}

func init() {
	rootCmd.AddCommand(sealCmd)
	rootCmd.AddCommand(unsealCmd)

	sealCmd.Flags().StringVar(&sealSenderSecret, "key", "", "Sender sealer secret (sealerSecret_z...)")
	sealCmd.Flags().StringVar(&sealRecipientID, "to", "", "Recipient sealer id (sealer_z...)")
	sealCmd.Flags().StringVar(&sealNonceMaterial, "nonce-material", "", "Nonce derivation material")
	sealCmd.Flags().StringVarP(&message, "message", "m", "", "Message to seal")
	sealCmd.Flags().StringVar(&messageFile, "message-file", "", "File containing message to seal")
	sealCmd.Flags().StringVarP(&sealOutputFile, "output", "o", "", "Output file")

	unsealCmd.Flags().StringVar(&sealSenderSecret, "key", "", "Recipient sealer secret (sealerSecret_z...)")
	unsealCmd.Flags().StringVar(&sealRecipientID, "from", "", "Sender sealer id (sealer_z...)")
	unsealCmd.Flags().StringVar(&sealNonceMaterial, "nonce-material", "", "Nonce derivation material")
	unsealCmd.Flags().StringVar(&sealedArg, "sealed", "", "Base64-encoded sealed message")
	unsealCmd.Flags().StringVarP(&sealOutputFile, "output", "o", "", "Output file")
}

func runSeal(cmd *cobra.Command, args []string) error {
	if sealSenderSecret == "" || sealRecipientID == "" {
		return fmt.Errorf("--key and --to are required")
	}
	msg, err := getMessage()
	if err != nil {
		return err
	}
	sealed, err := sealedbox.Seal(msg, sealSenderSecret, sealRecipientID, []byte(sealNonceMaterial))
	if err != nil {
		return fmt.Errorf("failed to seal message: %w", err)
	}
	return writeOutput([]byte(base64.StdEncoding.EncodeToString(sealed)), sealOutputFile)
}

func runUnseal(cmd *cobra.Command, args []string) error {
	if sealSenderSecret == "" || sealRecipientID == "" {
		return fmt.Errorf("--key and --from are required")
	}
	if sealedArg == "" {
		return fmt.Errorf("--sealed is required")
	}
	sealed, err := base64.StdEncoding.DecodeString(sealedArg)
	if err != nil {
		return fmt.Errorf("failed to decode sealed message: %w", err)
	}
	msg, err := sealedbox.Unseal(sealed, sealSenderSecret, sealRecipientID, []byte(sealNonceMaterial))
	if err != nil {
		return fmt.Errorf("failed to unseal message: %w", err)
	}
	if sealOutputFile == "" {
		fmt.Println(string(msg))
		return nil
	}
	if err := os.WriteFile(sealOutputFile, msg, 0600); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Printf("Message saved to: %s\n", sealOutputFile)
	return nil
}
