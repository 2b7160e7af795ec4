package toolkit

import (
	"errors"
	"os"
	"runtime"
	"sort"
	"sync"

	"github.com/fulmenhq/toolkit/pkg/digest"
	"github.com/fulmenhq/toolkit/pkg/manifest"
	"golang.org/x/sync/errgroup"
)

// DriftReport records one customized asset whose vendor source no longer
// matches the recorded baseline.
type DriftReport struct {
	Path    string        `json:"path"`
	Kind    manifest.Kind `json:"kind"`
	Name    string        `json:"name"`
	OldHash string        `json:"old_hash"`
	NewHash string        `json:"new_hash,omitempty"`
	// SourceRemoved marks an orphaned customization: the vendor asset no
	// longer exists upstream, so the asset can no longer track updates.
	// Distinct from content drift so callers can branch accordingly.
	SourceRemoved bool `json:"source_removed"`
}

// CheckDrift rehashes the current vendor source of every customized asset
// and reports divergence from the recorded baseline. Managed assets cannot
// drift (their content is the vendor source by construction) and are never
// reported. The function has no side effects and is safe to call
// speculatively.
//
// Unreadable-but-present sources are collected into the returned error via
// errors.Join; they do not abort the rest of the scan.
func CheckDrift(m *manifest.Manifest, vendorRoot string) ([]DriftReport, error) {
	type candidate struct {
		asset  Asset
		record manifest.TrackedAsset
	}
	var candidates []candidate
	for _, kind := range manifest.Kinds() {
		for name, record := range m.Mapping(kind) {
			if record.Status != manifest.StatusCustomized {
				continue
			}
			candidates = append(candidates, candidate{asset: Asset{Kind: kind, Name: name}, record: record})
		}
	}

	var (
		mu       sync.Mutex
		reports  []DriftReport
		scanErrs []error
	)

	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())
	for _, c := range candidates {
		c := c
		g.Go(func() error {
			hash, err := HashAsset(vendorRoot, c.asset)
			if err != nil {
				var srcErr *digest.SourceUnavailableError
				if errors.As(err, &srcErr) && os.IsNotExist(srcErr.Err) {
					mu.Lock()
					reports = append(reports, DriftReport{
						Path:          c.asset.Path(),
						Kind:          c.asset.Kind,
						Name:          c.asset.Name,
						OldHash:       c.record.ToolkitHash,
						SourceRemoved: true,
					})
					mu.Unlock()
					return nil
				}
				mu.Lock()
				scanErrs = append(scanErrs, err)
				mu.Unlock()
				return nil
			}
			if hash == c.record.ToolkitHash {
				return nil
			}
			mu.Lock()
			reports = append(reports, DriftReport{
				Path:    c.asset.Path(),
				Kind:    c.asset.Kind,
				Name:    c.asset.Name,
				OldHash: c.record.ToolkitHash,
				NewHash: hash,
			})
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(reports, func(i, j int) bool { return reports[i].Path < reports[j].Path })
	return reports, errors.Join(scanErrs...)
}
