package toolkit

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fulmenhq/toolkit/pkg/digest"
	"github.com/fulmenhq/toolkit/pkg/logger"
	"github.com/fulmenhq/toolkit/pkg/manifest"
	"github.com/fulmenhq/toolkit/pkg/safeio"
)

// Engine exposes the provenance operations over one vendor tree, one
// install tree, and one manifest file. All paths are injected explicitly;
// nothing is read from ambient environment state.
type Engine struct {
	VendorRoot   string
	InstallRoot  string
	ManifestPath string
	// VersionFile names the vendor version file relative to the vendor
	// root. Empty means "VERSION".
	VersionFile string
}

// NewEngine returns an engine bound to the given roots and manifest path.
func NewEngine(vendorRoot, installRoot, manifestPath string) *Engine {
	return &Engine{VendorRoot: vendorRoot, InstallRoot: installRoot, ManifestPath: manifestPath}
}

// ErrCustomizationsExist is returned by Init when re-initialization would
// discard customization records and force was not given.
var ErrCustomizationsExist = errors.New("manifest has customized assets")

// Init scans the vendor source tree, installs every discovered asset as
// managed, and writes a fresh manifest.
//
// Re-running Init resets all assets to managed and discards customization
// records. That is intentional repair behavior, so when an existing
// manifest still tracks customized assets Init refuses unless force is
// set. A corrupt existing manifest has already been backed up by the store
// and does not block re-initialization.
func (e *Engine) Init(force bool) (*manifest.Manifest, error) {
	existing, err := manifest.Load(e.ManifestPath)
	switch {
	case err == nil:
		if existing.CustomizedCount() > 0 && !force {
			return nil, fmt.Errorf("%w: re-initializing %s would destroy customization history for %d asset(s); use --force to proceed",
				ErrCustomizationsExist, e.ManifestPath, existing.CustomizedCount())
		}
	case errors.Is(err, manifest.ErrNotFound):
		// First run.
	default:
		var corrupt *manifest.CorruptManifestError
		if !errors.As(err, &corrupt) {
			return nil, err
		}
		// Corrupt manifest was quarantined by the store; fall through to
		// re-initialize from scratch.
	}

	assets, err := Discover(e.VendorRoot)
	if err != nil {
		return nil, err
	}
	if len(assets) == 0 {
		return nil, fmt.Errorf("no assets discovered under vendor root %s", e.VendorRoot)
	}

	meta := DetectVendorMetadata(e.VendorRoot, e.VersionFile)
	m := manifest.New(meta.Version)
	m.Vendor = meta.VendorInfo()

	for _, asset := range assets {
		hash, err := HashAsset(e.VendorRoot, asset)
		if err != nil {
			// Per-asset failure: surface the path, keep going.
			logger.Warn("Skipping unreadable vendor asset",
				logger.String("asset", asset.Path()), logger.Err(err))
			continue
		}
		if err := e.installManaged(asset); err != nil {
			logger.Warn("Failed to install asset",
				logger.String("asset", asset.Path()), logger.Err(err))
			continue
		}
		if err := m.Set(asset.Kind, asset.Name, manifest.TrackedAsset{
			Status:      manifest.StatusManaged,
			ToolkitHash: hash,
		}); err != nil {
			return nil, err
		}
	}

	if m.AssetCount() == 0 {
		return nil, fmt.Errorf("all %d discovered assets under %s failed to install", len(assets), e.VendorRoot)
	}

	if err := manifest.Save(m, e.ManifestPath); err != nil {
		return nil, err
	}
	logger.Info("Manifest initialized",
		logger.String("path", e.ManifestPath),
		logger.String("toolkit_version", m.ToolkitVersion),
		logger.Int("assets", m.AssetCount()))
	return m, nil
}

// Customize transitions an asset from managed to customized: the current
// vendor-source digest is snapshotted as the drift baseline, the symlink is
// replaced with a real copy, and the transition is timestamped.
//
// The asset path is validated against the {kind}/{name} shape before any
// mutation; a path that matches no tracked asset never creates a manifest
// entry. Customizing an already-customized asset is a no-op.
func (e *Engine) Customize(assetPath string) (manifest.TrackedAsset, error) {
	asset, err := ParseAssetPath(assetPath)
	if err != nil {
		return manifest.TrackedAsset{}, err
	}

	m, err := manifest.Load(e.ManifestPath)
	if err != nil {
		return manifest.TrackedAsset{}, err
	}

	record, ok := m.Lookup(asset.Kind, asset.Name)
	if !ok {
		if _, statErr := os.Stat(SourcePath(e.VendorRoot, asset)); statErr == nil {
			return manifest.TrackedAsset{}, fmt.Errorf("%w: %s exists upstream but is not tracked; re-run 'toolkit init' to pick up new vendor assets", ErrAssetNotFound, asset.Path())
		}
		return manifest.TrackedAsset{}, &InvalidAssetError{Path: assetPath, Reason: "no such asset under the vendor root"}
	}

	if record.Status == manifest.StatusCustomized {
		logger.Info("Asset already customized", logger.String("asset", asset.Path()))
		return record, nil
	}

	hash, err := HashAsset(e.VendorRoot, asset)
	if err != nil {
		return manifest.TrackedAsset{}, err
	}

	if err := e.materializeCopy(asset); err != nil {
		return manifest.TrackedAsset{}, fmt.Errorf("failed to take ownership of %s: %w", asset.Path(), err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	record = manifest.TrackedAsset{
		Status:       manifest.StatusCustomized,
		ToolkitHash:  hash,
		CustomizedAt: &now,
	}
	if err := m.Set(asset.Kind, asset.Name, record); err != nil {
		return manifest.TrackedAsset{}, err
	}
	if err := manifest.Save(m, e.ManifestPath); err != nil {
		// The manifest on disk still says managed, so the install entry
		// must be returned to managed form or the two disagree.
		if rbErr := e.installManaged(asset); rbErr != nil {
			logger.Error("Failed to restore managed install entry after save failure",
				logger.String("asset", asset.Path()), logger.Err(rbErr))
		}
		return manifest.TrackedAsset{}, err
	}
	logger.Info("Asset customized",
		logger.String("asset", asset.Path()), logger.String("baseline", hash[:12]))
	return record, nil
}

// Query returns the tracked asset for a {kind}/{name} path.
func (e *Engine) Query(assetPath string) (manifest.TrackedAsset, error) {
	asset, err := ParseAssetPath(assetPath)
	if err != nil {
		return manifest.TrackedAsset{}, err
	}
	m, err := manifest.Load(e.ManifestPath)
	if err != nil {
		return manifest.TrackedAsset{}, err
	}
	record, ok := m.Lookup(asset.Kind, asset.Name)
	if !ok {
		return manifest.TrackedAsset{}, fmt.Errorf("%w: %s", ErrAssetNotFound, asset.Path())
	}
	return record, nil
}

// installManaged materializes an asset in managed form: a symlink into the
// vendor tree for agents and rules, a verbatim directory copy for skills
// (directories symlink poorly across tooling that resolves paths).
func (e *Engine) installManaged(asset Asset) error {
	source := SourcePath(e.VendorRoot, asset)
	install := InstallPath(e.InstallRoot, asset)

	if err := os.MkdirAll(filepath.Dir(install), 0o750); err != nil {
		return fmt.Errorf("failed to create install directory for %s: %w", asset.Path(), err)
	}
	if err := os.RemoveAll(install); err != nil {
		return fmt.Errorf("failed to clear existing install path %s: %w", install, err)
	}

	if asset.Kind == manifest.KindSkill {
		return copyDir(source, install)
	}
	return symlinkRelative(source, install)
}

// materializeCopy converts a managed install entry into a real local copy.
// Skills are already real copies, so only file-backed kinds need work.
func (e *Engine) materializeCopy(asset Asset) error {
	if asset.Kind == manifest.KindSkill {
		return nil
	}
	source := SourcePath(e.VendorRoot, asset)
	install := InstallPath(e.InstallRoot, asset)

	data, err := safeio.ReadFileContained(e.VendorRoot, source)
	if err != nil {
		return &digest.SourceUnavailableError{Path: source, Err: err}
	}
	if err := os.Remove(install); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove managed link %s: %w", install, err)
	}
	if err := os.WriteFile(install, data, 0o644); err != nil {
		return fmt.Errorf("failed to write local copy %s: %w", install, err)
	}
	return nil
}

// symlinkRelative links install to source using a relative target so the
// project tree can be moved as a whole.
func symlinkRelative(source, install string) error {
	target := source
	if rel, err := filepath.Rel(filepath.Dir(install), source); err == nil {
		target = rel
	}
	if err := os.Symlink(target, install); err != nil {
		return fmt.Errorf("failed to create symlink %s -> %s: %w", install, target, err)
	}
	return nil
}

// copyFile copies a single file from src to dst preserving its mode.
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src) // #nosec G304 - caller validates paths
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer func() {
		if cerr := srcFile.Close(); cerr != nil {
			logger.Warn(fmt.Sprintf("Failed to close source file %s: %v", src, cerr))
		}
	}()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat source file: %w", err)
	}

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, srcInfo.Mode()) // #nosec G304 - caller validates paths
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer func() {
		if cerr := dstFile.Close(); cerr != nil {
			logger.Warn(fmt.Sprintf("Failed to close destination file %s: %v", dst, cerr))
		}
	}()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy file contents: %w", err)
	}
	return nil
}

// copyDir copies a directory tree from src to dst.
func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o750)
		}
		return copyFile(path, target)
	})
}
