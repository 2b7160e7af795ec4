package buildinfo

import "testing"

func TestBinaryVersionDefault(t *testing.T) {
	if BinaryVersion == "" {
		t.Error("BinaryVersion must never be empty; expected at least the \"dev\" default")
	}
}

func TestModuleVersionDoesNotPanic(t *testing.T) {
	// Value depends on how the test binary was built; only assert stability.
	v1 := ModuleVersion()
	v2 := ModuleVersion()
	if v1 != v2 {
		t.Errorf("ModuleVersion() unstable: %q vs %q", v1, v2)
	}
}

func TestVCSRevisionDoesNotPanic(t *testing.T) {
	_ = VCSRevision()
}
