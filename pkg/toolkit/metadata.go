package toolkit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fulmenhq/toolkit/pkg/logger"
	"github.com/fulmenhq/toolkit/pkg/manifest"
	"github.com/fulmenhq/toolkit/pkg/safeio"
	git "github.com/go-git/go-git/v5"
)

// VendorMetadata captures the provenance of the vendor source tree at
// manifest-generation time.
type VendorMetadata struct {
	Version       string
	VersionSource string
	Commit        string
	Ref           string
	Dirty         bool
}

// DetectVendorMetadata inspects the vendor root for a version file and git
// provenance. Detection is best-effort: a vendor tree that is neither a git
// checkout nor versioned still yields usable metadata.
func DetectVendorMetadata(vendorRoot, versionFile string) VendorMetadata {
	meta := VendorMetadata{Version: "unknown", VersionSource: "not-found"}

	if version, source, err := detectVersion(vendorRoot, versionFile); err != nil {
		logger.Debug(fmt.Sprintf("version detection failed for %s: %v", vendorRoot, err))
	} else if version != "" {
		meta.Version = version
		meta.VersionSource = source
	}

	commit, ref, dirty, err := introspectRepository(vendorRoot)
	if err != nil {
		logger.Debug(fmt.Sprintf("git introspection failed for %s: %v", vendorRoot, err))
		return meta
	}
	meta.Commit = commit
	meta.Ref = ref
	meta.Dirty = dirty
	return meta
}

// VendorInfo converts the metadata to its manifest representation, or nil
// when nothing beyond the version was detected.
func (m VendorMetadata) VendorInfo() *manifest.VendorInfo {
	if m.Commit == "" && m.Ref == "" && m.VersionSource == "not-found" {
		return nil
	}
	return &manifest.VendorInfo{
		Commit:        m.Commit,
		Ref:           m.Ref,
		Dirty:         m.Dirty,
		VersionSource: m.VersionSource,
	}
}

// detectVersion reads the version from a file in the vendor root.
func detectVersion(vendorRoot, versionFile string) (version string, source string, err error) {
	if versionFile == "" {
		versionFile = "VERSION"
	}

	versionPath := filepath.Join(vendorRoot, versionFile)
	data, err := safeio.ReadFileContained(vendorRoot, versionPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", "not-found", nil // Not an error
		}
		return "", "", fmt.Errorf("failed to read version file: %w", err)
	}

	return strings.TrimSpace(string(data)), versionFile, nil
}

// introspectRepository inspects a git repository at the vendor root for
// commit, ref, and dirty state. A non-git vendor tree is not an error.
func introspectRepository(vendorRoot string) (commit string, ref string, dirty bool, err error) {
	repo, err := git.PlainOpenWithOptions(vendorRoot, &git.PlainOpenOptions{
		DetectDotGit: true, // Walk up to find .git directory
	})
	if err != nil {
		return "", "", false, nil
	}

	head, err := repo.Head()
	if err != nil {
		return "", "", false, fmt.Errorf("failed to get HEAD: %w", err)
	}
	commit = head.Hash().String()
	ref = head.Name().Short()

	worktree, err := repo.Worktree()
	if err != nil {
		return commit, ref, false, nil
	}
	status, err := worktree.Status()
	if err != nil {
		return commit, ref, false, nil
	}
	for _, fileStatus := range status {
		// Untracked files are common around a vendored tree (caches,
		// editor droppings) and do not make the source itself dirty.
		if fileStatus.Worktree == git.Untracked {
			continue
		}
		if fileStatus.Staging != git.Unmodified || fileStatus.Worktree != git.Unmodified {
			dirty = true
			break
		}
	}
	return commit, ref, dirty, nil
}
