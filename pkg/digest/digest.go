// Package digest computes content digests for tracked toolkit assets.
//
// Digests are SHA-256 over raw file bytes. They are the drift baseline for
// customized assets: a recorded digest that no longer matches the current
// vendor source means upstream changed since the consumer forked the asset.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
)

// ErrSourceUnavailable marks a vendor file that was expected to exist for
// hashing but could not be read. Callers must not substitute an empty
// digest for an unreadable file; that would mask drift.
var ErrSourceUnavailable = errors.New("source unavailable")

// SourceUnavailableError carries the path that could not be read.
type SourceUnavailableError struct {
	Path string
	Err  error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source unavailable: %s: %v", e.Path, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// Is reports ErrSourceUnavailable identity for errors.Is.
func (e *SourceUnavailableError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

// Hash returns the hex-encoded SHA-256 digest of content.
func Hash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// HashFile returns the digest of the file at path. A missing or unreadable
// file yields a SourceUnavailableError rather than a digest of nothing.
func HashFile(path string) (string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- callers resolve paths within the vendor root
	if err != nil {
		return "", &SourceUnavailableError{Path: path, Err: err}
	}
	return Hash(data), nil
}
