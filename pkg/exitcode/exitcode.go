// Package exitcode provides standardized exit codes for toolkit
package exitcode

// Exit codes for the toolkit CLI
const (
	Success         = 0
	GeneralError    = 1
	ConfigError     = 2
	ValidationError = 3
	FileSystemError = 4
	PermissionError = 5
	CorruptManifest = 6
	// DriftDetected signals a clean run that found upstream drift, so CI
	// and hook scripts can branch without parsing output.
	DriftDetected = 7
)

// String returns a human-readable description of the exit code
func String(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case ConfigError:
		return "Configuration error"
	case ValidationError:
		return "Validation error"
	case FileSystemError:
		return "File system error"
	case PermissionError:
		return "Permission error"
	case CorruptManifest:
		return "Corrupt manifest"
	case DriftDetected:
		return "Drift detected"
	default:
		return "Unknown error"
	}
}
