// Package checksums parses release checksum manifests and verifies
// downloaded files against them.
package checksums

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"github.com/syncforge/forgeup/pkg/spec"
)

// ParseManifest parses checksum manifest content into a filename → digest
// map. Lines have the form "<hash> [*]<filename>" with one or two spaces
// between the fields; blank lines and comments are skipped.
func ParseManifest(content string) map[string]string {
	checksums := make(map[string]string)

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}

		hash := parts[0]
		filename := parts[1]

		// The shasum binary-mode marker
		filename = strings.TrimPrefix(filename, "*")

		checksums[filename] = hash
	}

	return checksums
}

// Lookup returns the expected digest for filename from manifest content.
// The filename must match an entry exactly.
func Lookup(content, filename string) (string, error) {
	if hash, ok := ParseManifest(content)[filename]; ok {
		return hash, nil
	}
	return "", fmt.Errorf("no checksum found for %s", filename)
}

// ComputeChecksum computes the digest of a file using the given algorithm
func ComputeChecksum(filePath string, algorithm spec.Algorithm) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	var h hash.Hash
	switch algorithm {
	case spec.Sha256:
		h = sha256.New()
	case spec.Sha512:
		h = sha512.New()
	case spec.Sha1:
		h = sha1.New()
	case spec.Md5:
		h = md5.New()
	default:
		return "", fmt.Errorf("unsupported algorithm: %s", algorithm)
	}

	if _, err := io.Copy(h, file); err != nil {
		return "", errors.Wrap(err, "failed to compute checksum")
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// VerifyFile checks the file at filePath against the manifest entry for
// filename. A missing entry or a digest mismatch is an error; the mismatch
// error carries both the expected and the computed value.
func VerifyFile(manifestContent, filePath, filename string, algorithm spec.Algorithm) error {
	expected, err := Lookup(manifestContent, filename)
	if err != nil {
		return err
	}

	actual, err := ComputeChecksum(filePath, algorithm)
	if err != nil {
		return err
	}

	if !strings.EqualFold(actual, expected) {
		return fmt.Errorf("checksum mismatch for %s: expected %s, got %s", filename, expected, actual)
	}

	log.Infof("checksum verified for %s", filename)
	return nil
}
