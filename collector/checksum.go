package collector

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/ftahirops/validatord/model"
)

// Checksum implements the spec §6 `getChecksum` collaborator: compute an
// MD5 or SHA-1 digest of a file's contents, returning lowercase hex. There
// is no ecosystem replacement for stdlib crypto/md5 and crypto/sha1 in the
// retrieval pack — every repo that hashes files uses these two packages
// directly (see DESIGN.md).
func Checksum(path string, kind model.HashKind) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var h hash.Hash
	switch kind {
	case model.HashSHA1:
		h = sha1.New()
	default:
		h = md5.New()
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
