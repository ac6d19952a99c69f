package dedupstore

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// SHA256Hex hashes text (or any byte slice) and returns its hex digest,
// used for both document and paragraph fingerprints (spec.md §3).
func SHA256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FileSHA256Hex hashes a file's bytes in chunks, grounded on the
// original kb-jx compute_file_sha256 helper, to avoid loading very
// large uploads entirely into memory twice.
func FileSHA256Hex(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
