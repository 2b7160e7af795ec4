package toolkit

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fulmenhq/toolkit/pkg/digest"
	"github.com/fulmenhq/toolkit/pkg/manifest"
	"github.com/fulmenhq/toolkit/pkg/safeio"
)

// SkillEntryFile is the canonical entry-point document of a skill
// directory. Drift detection for skills hashes this file only; companion
// files do not participate in the digest.
const SkillEntryFile = "SKILL.md"

// Asset identifies one vendor asset by kind and manifest key.
type Asset struct {
	Kind manifest.Kind
	Name string
}

// Path returns the logical identifier relative to the vendor root,
// e.g. "agents/reviewer.md" or "skills/implement".
func (a Asset) Path() string {
	return a.Kind.Dir() + "/" + a.Name
}

// ParseAssetPath validates a caller-supplied "{kind}/{name}" path and
// resolves it to an Asset. Validation happens before any mutation so a
// bogus path can never create a manifest entry.
func ParseAssetPath(p string) (Asset, error) {
	clean, err := safeio.CleanUserPath(p)
	if err != nil {
		return Asset{}, &InvalidAssetError{Path: p, Reason: "path escapes the vendor root"}
	}
	clean = strings.TrimSuffix(clean, "/")
	parts := strings.Split(clean, "/")
	if len(parts) != 2 {
		return Asset{}, &InvalidAssetError{Path: p, Reason: "expected {kind}/{name}"}
	}
	kind, ok := manifest.KindFromDir(parts[0])
	if !ok {
		return Asset{}, &InvalidAssetError{Path: p, Reason: fmt.Sprintf("unknown kind %q (expected agents, skills, or rules)", parts[0])}
	}
	name := parts[1]
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "\\") {
		return Asset{}, &InvalidAssetError{Path: p, Reason: "asset name is empty or malformed"}
	}
	if (kind == manifest.KindAgent || kind == manifest.KindRule) && !strings.HasSuffix(name, ".md") {
		return Asset{}, &InvalidAssetError{Path: p, Reason: "agents and rules are markdown files (expected .md suffix)"}
	}
	if kind == manifest.KindSkill && strings.Contains(name, ".") {
		return Asset{}, &InvalidAssetError{Path: p, Reason: "skills are directories, not files"}
	}
	return Asset{Kind: kind, Name: name}, nil
}

// HashAsset digests the canonical source of an asset under the vendor
// root. For skills only the entry document participates.
func HashAsset(vendorRoot string, a Asset) (string, error) {
	return digest.HashFile(CanonicalSourcePath(vendorRoot, a))
}

// CanonicalSourcePath returns the vendor file whose bytes define the
// asset's digest: the file itself for agents and rules, the skill entry
// document for skills.
func CanonicalSourcePath(vendorRoot string, a Asset) string {
	if a.Kind == manifest.KindSkill {
		return filepath.Join(vendorRoot, a.Kind.Dir(), a.Name, SkillEntryFile)
	}
	return filepath.Join(vendorRoot, a.Kind.Dir(), a.Name)
}

// SourcePath returns the vendor path installed for the asset: a file for
// agents and rules, the whole directory for skills.
func SourcePath(vendorRoot string, a Asset) string {
	return filepath.Join(vendorRoot, a.Kind.Dir(), a.Name)
}

// InstallPath returns the asset's location in the consumer's install tree.
func InstallPath(installRoot string, a Asset) string {
	return filepath.Join(installRoot, a.Kind.Dir(), a.Name)
}

// discoveryPatterns maps each kind to the glob that finds its assets
// under the vendor root.
var discoveryPatterns = map[manifest.Kind]string{
	manifest.KindAgent: "agents/*.md",
	manifest.KindSkill: "skills/*/" + SkillEntryFile,
	manifest.KindRule:  "rules/*.md",
}

// Discover scans the vendor source tree and returns all assets of the
// tracked kinds, sorted by path for deterministic manifests.
func Discover(vendorRoot string) ([]Asset, error) {
	var found []Asset
	for _, kind := range manifest.Kinds() {
		pattern := filepath.Join(vendorRoot, filepath.FromSlash(discoveryPatterns[kind]))
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to glob %s assets under %s: %w", kind, vendorRoot, err)
		}
		for _, match := range matches {
			rel, err := filepath.Rel(filepath.Join(vendorRoot, kind.Dir()), match)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve %s relative to vendor root: %w", match, err)
			}
			name := filepath.ToSlash(rel)
			if kind == manifest.KindSkill {
				// The glob matched the entry file; the asset is its directory.
				name = filepath.ToSlash(filepath.Dir(rel))
			}
			found = append(found, Asset{Kind: kind, Name: name})
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Path() < found[j].Path() })
	return found, nil
}
