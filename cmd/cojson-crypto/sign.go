package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cojson-dev/cojson-core/keys"
)

var (
	signerSecret string
	signerID     string
	signatureArg string
	messageFile  string
	message      string
	signatureOut string
)

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign a message with a signer secret key",
	Long: `Sign a message using a "signerSecret_z..." tagged Ed25519 key.

The message can be provided as:
  - Command line argument (--message)
  - File content (--message-file)
  - Stdin (if neither is given)`,
	Example: `  # Sign a message
  cojson-crypto sign --key signerSecret_z... --message "hello"

  # Sign from stdin
  echo "hello" | cojson-crypto sign --key signerSecret_z...`,
	RunE: runSign,
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a signature against a signer id",
	Long:  `Verify a "signature_z..." tagged signature over a message under a "signer_z..." tagged id.`,
	Example: `  # Verify a signature
  cojson-crypto verify --id signer_z... --signature signature_z... --message "hello"`,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(verifyCmd)

	signCmd.Flags().StringVar(&signerSecret, "key", "", "Signer secret key (signerSecret_z...)")
	signCmd.Flags().StringVarP(&message, "message", "m", "", "Message to sign/verify")
	signCmd.Flags().StringVar(&messageFile, "message-file", "", "File containing message to sign/verify")
	signCmd.Flags().StringVarP(&signatureOut, "output", "o", "", "Output file for signature")

	verifyCmd.Flags().StringVar(&signerID, "id", "", "Signer id (signer_z...)")
	verifyCmd.Flags().StringVar(&signatureArg, "signature", "", "Signature to verify (signature_z...)")
	verifyCmd.Flags().StringVarP(&message, "message", "m", "", "Message to sign/verify")
	verifyCmd.Flags().StringVar(&messageFile, "message-file", "", "File containing message to sign/verify")
}

func runSign(cmd *cobra.Command, args []string) error {
	if signerSecret == "" {
		return fmt.Errorf("--key is required")
	}
	msg, err := getMessage()
	if err != nil {
		return err
	}
	sig, err := keys.Sign(msg, signerSecret)
	if err != nil {
		return fmt.Errorf("failed to sign message: %w", err)
	}
	return writeOutput([]byte(sig), signatureOut)
}

func runVerify(cmd *cobra.Command, args []string) error {
	if signerID == "" || signatureArg == "" {
		return fmt.Errorf("--id and --signature are required")
	}
	msg, err := getMessage()
	if err != nil {
		return err
	}
	ok, err := keys.Verify(signatureArg, msg, signerID)
	if err != nil {
		return fmt.Errorf("failed to verify signature: %w", err)
	}
	if !ok {
		fmt.Println("invalid")
		os.Exit(1)
	}
	fmt.Println("valid")
	return nil
}

func getMessage() ([]byte, error) {
	if message != "" {
		return []byte(message), nil
	}
	if messageFile != "" {
		data, err := os.ReadFile(messageFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read message file: %w", err)
		}
		return data, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read from stdin: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("no message provided")
	}
	return data, nil
}
