package toolkit

import (
	"errors"
	"fmt"
)

// ErrInvalidAsset marks a caller-supplied asset path that does not match
// any discoverable vendor asset. Rejected before any mutation.
var ErrInvalidAsset = errors.New("invalid asset")

// ErrAssetNotFound marks an asset path that is well-formed but has no
// record in the manifest.
var ErrAssetNotFound = errors.New("asset not found")

// InvalidAssetError carries the offending path and why it was rejected.
type InvalidAssetError struct {
	Path   string
	Reason string
}

func (e *InvalidAssetError) Error() string {
	return fmt.Sprintf("invalid asset %q: %s", e.Path, e.Reason)
}

// Is reports ErrInvalidAsset identity for errors.Is.
func (e *InvalidAssetError) Is(target error) bool {
	return target == ErrInvalidAsset
}

// AssetFailure records a per-asset error inside a batch operation. Batches
// collect failures instead of aborting so one bad asset cannot block
// unrelated reconciliations.
type AssetFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}
