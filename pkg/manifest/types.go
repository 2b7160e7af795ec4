// Package manifest defines the provenance manifest for installed toolkit
// assets and its on-disk store.
//
// The manifest is the single source of truth for provenance: the install
// tree's symlink-vs-copy state must always agree with each asset's status.
package manifest

import (
	"fmt"
	"time"
)

// Kind classifies a tracked asset. Skills are directories with a canonical
// entry file; agents and rules are single markdown files.
type Kind string

const (
	KindAgent Kind = "agent"
	KindSkill Kind = "skill"
	KindRule  Kind = "rule"
)

// Dir returns the vendor/install subdirectory for the kind.
func (k Kind) Dir() string {
	switch k {
	case KindAgent:
		return "agents"
	case KindSkill:
		return "skills"
	case KindRule:
		return "rules"
	default:
		return ""
	}
}

// KindFromDir resolves a subdirectory name back to a Kind.
func KindFromDir(dir string) (Kind, bool) {
	switch dir {
	case "agents":
		return KindAgent, true
	case "skills":
		return KindSkill, true
	case "rules":
		return KindRule, true
	default:
		return "", false
	}
}

// Kinds lists all tracked asset kinds in manifest order.
func Kinds() []Kind {
	return []Kind{KindAgent, KindSkill, KindRule}
}

// Status is the provenance state of an installed asset.
type Status string

const (
	// StatusManaged means the installed copy is a verbatim reflection of
	// vendor source, realized as a symlink into the vendor tree.
	StatusManaged Status = "managed"
	// StatusCustomized means the consumer has taken local ownership: a real
	// copy that may diverge from vendor source.
	StatusCustomized Status = "customized"
)

// TrackedAsset is one provenance record per managed file or file-group.
type TrackedAsset struct {
	Status Status `json:"status"`
	// ToolkitHash is the vendor-source digest at the time status last
	// transitioned to customized (or was last reconciled). It is the drift
	// baseline.
	ToolkitHash string `json:"toolkit_hash"`
	// CustomizedAt is set on the most recent transition into customized
	// status and absent while the asset is managed.
	CustomizedAt *time.Time `json:"customized_at,omitempty"`
}

// VendorInfo captures where the vendor tree came from, when detectable.
type VendorInfo struct {
	Commit        string `json:"commit,omitempty"`
	Ref           string `json:"ref,omitempty"`
	Dirty         bool   `json:"dirty,omitempty"`
	VersionSource string `json:"version_source,omitempty"`
}

// Manifest aggregates the tracked assets by kind.
type Manifest struct {
	ToolkitVersion string                  `json:"toolkit_version"`
	GeneratedAt    time.Time               `json:"generated_at"`
	Vendor         *VendorInfo             `json:"vendor,omitempty"`
	Agents         map[string]TrackedAsset `json:"agents"`
	Skills         map[string]TrackedAsset `json:"skills"`
	Rules          map[string]TrackedAsset `json:"rules"`
}

// New returns an empty manifest stamped with the vendor version and the
// current UTC time.
func New(toolkitVersion string) *Manifest {
	return &Manifest{
		ToolkitVersion: toolkitVersion,
		GeneratedAt:    time.Now().UTC().Truncate(time.Second),
		Agents:         make(map[string]TrackedAsset),
		Skills:         make(map[string]TrackedAsset),
		Rules:          make(map[string]TrackedAsset),
	}
}

// Mapping returns the asset map for the kind. The returned map is the
// live mapping; mutations are visible in the manifest.
func (m *Manifest) Mapping(kind Kind) map[string]TrackedAsset {
	switch kind {
	case KindAgent:
		return m.Agents
	case KindSkill:
		return m.Skills
	case KindRule:
		return m.Rules
	default:
		return nil
	}
}

// Lookup returns the tracked asset for kind/name.
func (m *Manifest) Lookup(kind Kind, name string) (TrackedAsset, bool) {
	mapping := m.Mapping(kind)
	if mapping == nil {
		return TrackedAsset{}, false
	}
	asset, ok := mapping[name]
	return asset, ok
}

// Set records the tracked asset for kind/name.
func (m *Manifest) Set(kind Kind, name string, asset TrackedAsset) error {
	mapping := m.Mapping(kind)
	if mapping == nil {
		return fmt.Errorf("unknown asset kind %q", kind)
	}
	mapping[name] = asset
	return nil
}

// AssetCount returns the total number of tracked assets across all kinds.
func (m *Manifest) AssetCount() int {
	return len(m.Agents) + len(m.Skills) + len(m.Rules)
}

// CustomizedCount returns the number of assets in customized status.
func (m *Manifest) CustomizedCount() int {
	count := 0
	for _, kind := range Kinds() {
		for _, asset := range m.Mapping(kind) {
			if asset.Status == StatusCustomized {
				count++
			}
		}
	}
	return count
}
