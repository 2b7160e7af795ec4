package digest

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

func TestHashStability(t *testing.T) {
	content := []byte("# Reviewer agent\n\nReview the diff.\n")
	first := Hash(content)
	second := Hash(content)
	if first != second {
		t.Errorf("Hash() unstable over identical bytes: %s vs %s", first, second)
	}
	if len(first) != 64 {
		t.Errorf("Hash() = %q, expected 64 hex characters", first)
	}
}

func TestHashEmptyContentIsNotEmptyDigest(t *testing.T) {
	if Hash(nil) == "" {
		t.Error("Hash(nil) must still produce a digest, never an empty string")
	}
}

// Single-byte mutations must always change the digest. Random byte flips
// over random content exercise the property beyond a fixed fixture.
func TestHashSingleByteMutation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		content := make([]byte, 1+rng.Intn(4096))
		rng.Read(content)
		base := Hash(content)

		mutated := make([]byte, len(content))
		copy(mutated, content)
		pos := rng.Intn(len(mutated))
		flip := byte(1 + rng.Intn(255))
		mutated[pos] ^= flip

		if got := Hash(mutated); got == base {
			t.Fatalf("flipping byte %d with %#x produced identical digest %s", pos, flip, base)
		}
	}
}

func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reviewer.md")
	content := []byte("# Reviewer\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	got, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile() failed: %v", err)
	}
	if got != Hash(content) {
		t.Errorf("HashFile() = %s, expected %s", got, Hash(content))
	}
}

func TestHashFileMissing(t *testing.T) {
	_, err := HashFile(filepath.Join(t.TempDir(), "missing.md"))
	if err == nil {
		t.Fatal("HashFile() on missing file expected error")
	}
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("error %v does not match ErrSourceUnavailable", err)
	}
	var srcErr *SourceUnavailableError
	if !errors.As(err, &srcErr) {
		t.Fatalf("error %v is not a SourceUnavailableError", err)
	}
	if srcErr.Path == "" {
		t.Error("SourceUnavailableError must name the unreadable path")
	}
}

func FuzzHashMutation(f *testing.F) {
	f.Add([]byte("agent prompt"), uint(0))
	f.Add([]byte{0}, uint(7))
	f.Fuzz(func(t *testing.T, content []byte, bit uint) {
		if len(content) == 0 {
			return
		}
		base := Hash(content)
		mutated := make([]byte, len(content))
		copy(mutated, content)
		mutated[int(bit)%len(mutated)] ^= 1 << (bit % 8)
		if string(mutated) == string(content) {
			return
		}
		if Hash(mutated) == base {
			t.Errorf("mutation did not change digest for %d bytes", len(content))
		}
	})
}
