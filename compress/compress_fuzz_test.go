package compress

import "testing"

func FuzzCompressDecompressRoundTrip(f *testing.F) {
	f.Add([]byte("hello world, hello people"))
	f.Add([]byte(""))
	f.Add([]byte("x"))
	f.Add([]byte("abcdeabcdeabcdeabcde"))
	f.Add([]byte("abababababababababab"))
	f.Add(make([]byte, 1024))

	f.Fuzz(func(t *testing.T, data []byte) {
		compressed := Compress(data)
		decompressed, err := Decompress(compressed)
		if err != nil {
			t.Fatalf("Decompress(Compress(data)) failed: %v", err)
		}
		if string(decompressed) != string(data) {
			t.Fatalf("round-trip mismatch: got %q, want %q", decompressed, data)
		}
	})
}

// FuzzDecompressNeverPanics feeds arbitrary bytes straight to Decompress,
// which never saw a matching Compress call. It must reject malformed input
// with an error rather than panicking on an out-of-range offset or a
// truncated token.
func FuzzDecompressNeverPanics(f *testing.F) {
	f.Add([]byte{0x01, 0x00, 0x00})
	f.Add([]byte{0x11, 'a', 0x05, 0x00})
	f.Add([]byte{0x50, 'a', 'b'})
	f.Add([]byte{0x01, 0x00})

	f.Fuzz(func(t *testing.T, data []byte) {
		_, _ = Decompress(data)
	})
}
