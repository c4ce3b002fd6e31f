// Package version provides version information for the barcode-app application.
package version

// Version is the current version of the barcode-app application.
const Version = "1.0.0"

// AgentString returns the full agent string with versioning.
// Sent as the User-Agent header on outbound provider requests.
func AgentString() string {
	return "barcode-app/v" + Version
}
