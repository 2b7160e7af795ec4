package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fulmenhq/toolkit/internal/assets"
	"github.com/fulmenhq/toolkit/internal/schema"
	"github.com/fulmenhq/toolkit/pkg/logger"
	"github.com/fulmenhq/toolkit/pkg/safeio"
)

// DefaultRelPath is the manifest location relative to the project root.
const DefaultRelPath = ".claude/toolkit-manifest.json"

// ErrNotFound marks a manifest file that does not exist yet.
var ErrNotFound = errors.New("manifest not found")

// CorruptManifestError reports a manifest file that exists but cannot be
// parsed as a valid manifest document. The unreadable file has already been
// moved aside to BackupPath when this error is returned.
type CorruptManifestError struct {
	Path       string
	BackupPath string
	Reason     string
}

func (e *CorruptManifestError) Error() string {
	return fmt.Sprintf("corrupt manifest at %s (backed up to %s): %s", e.Path, e.BackupPath, e.Reason)
}

// Load reads and validates the manifest at path.
//
// A missing file yields ErrNotFound. A file that fails schema validation is
// backed up under a timestamped sibling name before any subsequent write
// can touch it, then reported as a CorruptManifestError; callers treat the
// store as absent and re-initialize.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- manifest path is project-local configuration
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	res, err := schema.ValidateBytes(assets.ManifestSchemaName, data)
	if err != nil {
		return nil, fmt.Errorf("failed to validate manifest %s: %w", path, err)
	}
	if !res.Valid {
		backupPath, backupErr := quarantine(path)
		if backupErr != nil {
			return nil, fmt.Errorf("manifest %s is corrupt and could not be backed up: %w", path, backupErr)
		}
		logger.Warn("Corrupt manifest backed up",
			logger.String("path", path), logger.String("backup", backupPath))
		return nil, &CorruptManifestError{Path: path, BackupPath: backupPath, Reason: validationSummary(res)}
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		// Schema validation passed, so this indicates a decode-level
		// mismatch; still treated as corruption.
		backupPath, backupErr := quarantine(path)
		if backupErr != nil {
			return nil, fmt.Errorf("manifest %s is corrupt and could not be backed up: %w", path, backupErr)
		}
		return nil, &CorruptManifestError{Path: path, BackupPath: backupPath, Reason: err.Error()}
	}

	// Decoded nil maps would make later mutations panic.
	if m.Agents == nil {
		m.Agents = make(map[string]TrackedAsset)
	}
	if m.Skills == nil {
		m.Skills = make(map[string]TrackedAsset)
	}
	if m.Rules == nil {
		m.Rules = make(map[string]TrackedAsset)
	}
	return &m, nil
}

// Save writes the manifest atomically: staged to a temp file in the target
// directory, then renamed into place. A crash mid-write leaves the prior
// manifest intact.
func Save(m *Manifest, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create manifest directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	data = append(data, '\n')

	if err := safeio.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to save manifest %s: %w", path, err)
	}
	return nil
}

// quarantine moves a corrupt manifest to a distinct timestamped name,
// preserving its bytes as forensic evidence.
func quarantine(path string) (string, error) {
	stamp := time.Now().UTC().Format("20060102T150405.000000000Z")
	backupPath := fmt.Sprintf("%s.corrupt-%s", path, stamp)
	if err := os.Rename(path, backupPath); err != nil {
		return "", err
	}
	return backupPath, nil
}

func validationSummary(res *schema.Result) string {
	if len(res.Errors) == 0 {
		return "schema validation failed"
	}
	parts := make([]string, 0, len(res.Errors))
	for _, e := range res.Errors {
		if e.Path != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", e.Path, e.Message))
		} else {
			parts = append(parts, e.Message)
		}
	}
	return strings.Join(parts, "; ")
}
