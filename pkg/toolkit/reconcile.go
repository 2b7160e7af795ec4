package toolkit

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fulmenhq/toolkit/pkg/digest"
	"github.com/fulmenhq/toolkit/pkg/logger"
	"github.com/fulmenhq/toolkit/pkg/manifest"
	"github.com/fulmenhq/toolkit/pkg/safeio"
)

// ConflictResolution is a resolution the deterministic core applies to one
// drifted asset. The core never computes text merges itself; merged content
// is supplied externally (typically by an interactive, LLM-mediated
// workflow) and only written through here.
type ConflictResolution interface {
	isResolution()
}

// KeepLocal keeps the customized copy and re-baselines the drift marker to
// the current vendor content, acknowledging the upstream change.
type KeepLocal struct{}

// TakeUpstream discards the customization and returns the asset to managed
// vendor content.
type TakeUpstream struct{}

// Merge writes externally merged content to the installed copy. The asset
// stays customized with its baseline moved to current vendor content.
type Merge struct {
	Content []byte
}

func (KeepLocal) isResolution()    {}
func (TakeUpstream) isResolution() {}
func (Merge) isResolution()        {}

// ReconciliationSummary reports the outcome of a bulk reconciliation.
// Per-asset failures are collected, never fatal to the batch.
type ReconciliationSummary struct {
	Reverted  []string       `json:"reverted"`
	Refreshed []string       `json:"refreshed"`
	Orphaned  []string       `json:"orphaned"`
	Failures  []AssetFailure `json:"failures"`
}

// RevertAllDrifted applies TakeUpstream to every drifted asset whose vendor
// source still exists, and refreshes managed assets whose vendor source has
// moved since they were installed. Orphaned customizations (source removed
// upstream) are listed in the summary but left untouched; discarding them
// is a deliberate per-asset decision, not a bulk one.
func (e *Engine) RevertAllDrifted(dryRun bool) (*ReconciliationSummary, error) {
	m, err := manifest.Load(e.ManifestPath)
	if err != nil {
		return nil, err
	}

	reports, driftErr := CheckDrift(m, e.VendorRoot)
	summary := &ReconciliationSummary{}
	if driftErr != nil {
		summary.Failures = append(summary.Failures, AssetFailure{Path: "(scan)", Error: driftErr.Error()})
	}

	for _, report := range reports {
		if report.SourceRemoved {
			summary.Orphaned = append(summary.Orphaned, report.Path)
			continue
		}
		if dryRun {
			logger.Info("Would revert asset", logger.String("asset", report.Path))
			summary.Reverted = append(summary.Reverted, report.Path)
			continue
		}
		asset := Asset{Kind: report.Kind, Name: report.Name}
		if err := e.revertOne(m, asset); err != nil {
			logger.Error("Failed to revert asset",
				logger.String("asset", report.Path), logger.Err(err))
			summary.Failures = append(summary.Failures, AssetFailure{Path: report.Path, Error: err.Error()})
			continue
		}
		summary.Reverted = append(summary.Reverted, report.Path)
	}

	e.refreshManaged(m, summary, dryRun)

	if !dryRun && (len(summary.Reverted) > 0 || len(summary.Refreshed) > 0) {
		if err := manifest.Save(m, e.ManifestPath); err != nil {
			return summary, err
		}
	}
	return summary, nil
}

// refreshManaged brings managed records back in sync with the vendor tree.
// Skills are installed as real directory copies, so a vendor update leaves
// them stale until re-copied; symlinked kinds already serve current vendor
// bytes and only need their recorded hash advanced. Assets whose source was
// removed upstream are left for init to prune.
func (e *Engine) refreshManaged(m *manifest.Manifest, summary *ReconciliationSummary, dryRun bool) {
	for _, kind := range manifest.Kinds() {
		for name, record := range m.Mapping(kind) {
			if record.Status != manifest.StatusManaged {
				continue
			}
			asset := Asset{Kind: kind, Name: name}
			hash, err := HashAsset(e.VendorRoot, asset)
			if err != nil {
				var srcErr *digest.SourceUnavailableError
				if errors.As(err, &srcErr) && os.IsNotExist(srcErr.Err) {
					continue
				}
				summary.Failures = append(summary.Failures, AssetFailure{Path: asset.Path(), Error: err.Error()})
				continue
			}
			if hash == record.ToolkitHash {
				continue
			}
			if dryRun {
				logger.Info("Would refresh managed asset", logger.String("asset", asset.Path()))
				summary.Refreshed = append(summary.Refreshed, asset.Path())
				continue
			}
			if kind == manifest.KindSkill {
				if err := e.installManaged(asset); err != nil {
					logger.Error("Failed to refresh managed asset",
						logger.String("asset", asset.Path()), logger.Err(err))
					summary.Failures = append(summary.Failures, AssetFailure{Path: asset.Path(), Error: err.Error()})
					continue
				}
			}
			record.ToolkitHash = hash
			if err := m.Set(kind, name, record); err != nil {
				summary.Failures = append(summary.Failures, AssetFailure{Path: asset.Path(), Error: err.Error()})
				continue
			}
			summary.Refreshed = append(summary.Refreshed, asset.Path())
		}
	}
	sort.Strings(summary.Refreshed)
}

// Resolve applies one resolution to one asset and persists the result.
func (e *Engine) Resolve(assetPath string, resolution ConflictResolution) error {
	asset, err := ParseAssetPath(assetPath)
	if err != nil {
		return err
	}
	m, err := manifest.Load(e.ManifestPath)
	if err != nil {
		return err
	}
	record, ok := m.Lookup(asset.Kind, asset.Name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrAssetNotFound, asset.Path())
	}
	if record.Status != manifest.StatusCustomized {
		return fmt.Errorf("asset %s is managed; only customized assets have conflicts to resolve", asset.Path())
	}

	switch res := resolution.(type) {
	case TakeUpstream:
		if err := e.revertOne(m, asset); err != nil {
			return err
		}
	case KeepLocal:
		hash, err := HashAsset(e.VendorRoot, asset)
		if err != nil {
			return err
		}
		record.ToolkitHash = hash
		if err := m.Set(asset.Kind, asset.Name, record); err != nil {
			return err
		}
	case Merge:
		install := InstallPath(e.InstallRoot, asset)
		if asset.Kind == manifest.KindSkill {
			install = filepath.Join(install, SkillEntryFile)
		}
		if err := safeio.WriteFileAtomic(install, res.Content, 0o644); err != nil {
			return fmt.Errorf("failed to write merged content for %s: %w", asset.Path(), err)
		}
		hash, err := HashAsset(e.VendorRoot, asset)
		if err != nil {
			return err
		}
		now := time.Now().UTC().Truncate(time.Second)
		record.ToolkitHash = hash
		record.CustomizedAt = &now
		if err := m.Set(asset.Kind, asset.Name, record); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown conflict resolution %T", resolution)
	}

	return manifest.Save(m, e.ManifestPath)
}

// revertOne overwrites the installed copy with current vendor content and
// returns the manifest record to managed. The manifest is mutated in
// memory; the caller persists it.
func (e *Engine) revertOne(m *manifest.Manifest, asset Asset) error {
	hash, err := HashAsset(e.VendorRoot, asset)
	if err != nil {
		return err
	}
	if err := e.installManaged(asset); err != nil {
		return err
	}
	return m.Set(asset.Kind, asset.Name, manifest.TrackedAsset{
		Status:      manifest.StatusManaged,
		ToolkitHash: hash,
	})
}
