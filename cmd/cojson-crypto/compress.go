package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cojson-dev/cojson-core/compress"
)

var (
	compressInputFile  string
	compressOutputFile string
)

var compressCmd = &cobra.Command{
	Use:   "compress",
	Short: "Compress a stream with the LZ77-style compressor",
	Long:  `Reads input from a file or stdin and writes the compressed stream to a file or stdout.`,
	Example: `  # Compress a file
  cojson-crypto compress --input data.json --output data.json.lz`,
	RunE: runCompress,
}

var decompressCmd = &cobra.Command{
	Use:   "decompress",
	Short: "Decompress a stream produced by compress",
	Long:  `Reads a compressed stream from a file or stdin and writes the original bytes to a file or stdout.`,
	Example: `  # Decompress a file
  cojson-crypto decompress --input data.json.lz --output data.json`,
	RunE: runDecompress,
}

func init() {
	rootCmd.AddCommand(compressCmd)
	rootCmd.AddCommand(decompressCmd)

	compressCmd.Flags().StringVar(&compressInputFile, "input", "", "Input file (default: stdin)")
	compressCmd.Flags().StringVarP(&compressOutputFile, "output", "o", "", "Output file (default: stdout)")

	decompressCmd.Flags().StringVar(&compressInputFile, "input", "", "Input file (default: stdin)")
	decompressCmd.Flags().StringVarP(&compressOutputFile, "output", "o", "", "Output file (default: stdout)")
}

func readInput() ([]byte, error) {
	if compressInputFile != "" {
		return os.ReadFile(compressInputFile)
	}
	return io.ReadAll(os.Stdin)
}

func writeBinaryOutput(data []byte) error {
	if compressOutputFile == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(compressOutputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

func runCompress(cmd *cobra.Command, args []string) error {
	data, err := readInput()
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return writeBinaryOutput(compress.Compress(data))
}

func runDecompress(cmd *cobra.Command, args []string) error {
	data, err := readInput()
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	out, err := compress.Decompress(data)
	if err != nil {
		return fmt.Errorf("failed to decompress: %w", err)
	}
	return writeBinaryOutput(out)
}
