package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManifest() *Manifest {
	m := New("1.4.0")
	m.Agents["reviewer.md"] = TrackedAsset{
		Status:      StatusManaged,
		ToolkitHash: strings.Repeat("a", 64),
	}
	customizedAt := time.Date(2026, 8, 20, 8, 30, 0, 0, time.UTC)
	m.Skills["implement"] = TrackedAsset{
		Status:       StatusCustomized,
		ToolkitHash:  strings.Repeat("b", 64),
		CustomizedAt: &customizedAt,
	}
	return m
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toolkit-manifest.json")

	original := testManifest()
	require.NoError(t, Save(original, path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, original.ToolkitVersion, loaded.ToolkitVersion)
	assert.Equal(t, original.Agents, loaded.Agents)
	assert.Equal(t, original.Skills, loaded.Skills)
	assert.NotNil(t, loaded.Rules, "empty mapping must decode to a usable map")

	asset, ok := loaded.Lookup(KindSkill, "implement")
	require.True(t, ok)
	assert.Equal(t, StatusCustomized, asset.Status)
	require.NotNil(t, asset.CustomizedAt)
}

func TestSaveCreatesParentDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".claude", "toolkit-manifest.json")
	require.NoError(t, Save(testManifest(), path))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestSaveDeterministicExceptTimestamp(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.json")

	m1 := testManifest()
	m2 := testManifest()
	m2.GeneratedAt = m1.GeneratedAt

	require.NoError(t, Save(m1, a))
	require.NoError(t, Save(m2, b))

	da, err := os.ReadFile(a)
	require.NoError(t, err)
	db, err := os.ReadFile(b)
	require.NoError(t, err)
	assert.Equal(t, string(da), string(db), "identical manifests must serialize byte-identically")
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "toolkit-manifest.json"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadCorruptBacksUpAndReports(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toolkit-manifest.json")
	garbage := []byte("{not json at all")
	require.NoError(t, os.WriteFile(path, garbage, 0o644))

	_, err := Load(path)
	var corrupt *CorruptManifestError
	require.ErrorAs(t, err, &corrupt)
	assert.Equal(t, path, corrupt.Path)

	// Backup preserves the garbage bytes; the original path is gone.
	backup, readErr := os.ReadFile(corrupt.BackupPath)
	require.NoError(t, readErr)
	assert.Equal(t, garbage, backup)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "corrupt manifest must be moved aside")
}

func TestLoadSchemaInvalidIsCorrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toolkit-manifest.json")
	// Well-formed JSON, wrong shape: status outside the enum.
	doc := `{
	  "toolkit_version": "1.4.0",
	  "generated_at": "2026-08-25T10:00:00Z",
	  "agents": {"x.md": {"status": "borrowed", "toolkit_hash": "` + strings.Repeat("a", 64) + `"}},
	  "skills": {},
	  "rules": {}
	}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	_, err := Load(path)
	var corrupt *CorruptManifestError
	require.ErrorAs(t, err, &corrupt)
	assert.Contains(t, corrupt.Reason, "borrowed")
}

func TestSaveFailurePreservesPrior(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toolkit-manifest.json")
	require.NoError(t, Save(testManifest(), path))
	prior, err := os.ReadFile(path)
	require.NoError(t, err)

	// Make the directory unwritable so staging the temp file fails.
	require.NoError(t, os.Chmod(dir, 0o555))
	defer func() { _ = os.Chmod(dir, 0o755) }()

	m := testManifest()
	m.ToolkitVersion = "9.9.9"
	saveErr := Save(m, path)
	if os.Getuid() == 0 {
		t.Skip("running as root; directory permissions are not enforced")
	}
	require.Error(t, saveErr)

	require.NoError(t, os.Chmod(dir, 0o755))
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, prior, after, "failed save must leave the prior manifest intact")
}

func TestMappingAndCounts(t *testing.T) {
	m := testManifest()
	assert.Equal(t, 2, m.AssetCount())
	assert.Equal(t, 1, m.CustomizedCount())

	require.NoError(t, m.Set(KindRule, "style.md", TrackedAsset{Status: StatusManaged, ToolkitHash: strings.Repeat("c", 64)}))
	assert.Equal(t, 3, m.AssetCount())

	assert.Error(t, m.Set(Kind("bogus"), "x", TrackedAsset{}))
	assert.Nil(t, m.Mapping(Kind("bogus")))
}

func TestKindDirRoundTrip(t *testing.T) {
	for _, kind := range Kinds() {
		got, ok := KindFromDir(kind.Dir())
		if !ok || got != kind {
			t.Errorf("KindFromDir(%q) = %v, %v; expected %v", kind.Dir(), got, ok, kind)
		}
	}
	if _, ok := KindFromDir("hooks"); ok {
		t.Error("KindFromDir(hooks) must not resolve")
	}
}
