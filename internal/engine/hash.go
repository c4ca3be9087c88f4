package engine

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// ErrVerifyMismatch is returned when the destination's digest differs from
// the source's after a copy.
var ErrVerifyMismatch = errors.New("checksum mismatch")

const hashBufSize = 32 * 1024

// HashFile returns the hex-encoded BLAKE3 digest of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := blake3.New()
	if _, err := io.CopyBuffer(h, f, make([]byte, hashBufSize)); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// VerifyFile compares the digests of src and dst.
func VerifyFile(src, dst string) error {
	srcHash, err := HashFile(src)
	if err != nil {
		return err
	}
	dstHash, err := HashFile(dst)
	if err != nil {
		return err
	}
	if srcHash != dstHash {
		return fmt.Errorf("%w: %s (src %s, dst %s)", ErrVerifyMismatch, dst, srcHash[:16], dstHash[:16])
	}
	return nil
}
