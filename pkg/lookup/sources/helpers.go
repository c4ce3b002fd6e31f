package sources

import (
	"strings"
	"unicode"

	"github.com/ksaccary/barcode-app/pkg/logging"
)

// GetLoggerFromConfig extracts logger from config map or returns a default noop logger.
// Sources should use this to get the logger passed from main.go.
// If no logger is configured, returns a noop logger to prevent nil pointer dereferences.
func GetLoggerFromConfig(config map[string]interface{}) *logging.Logger {
	if loggerInterface, ok := config["logger"]; ok {
		if logger, ok := loggerInterface.(*logging.Logger); ok {
			return logger
		}
	}

	// return default noop logger if logger not found
	return logging.NewNoopLogger()
}

// NormalizeBarcode trims a raw barcode and removes internal whitespace.
// Barcodes are otherwise opaque; no checksum or length validation is done
// here, providers decide for themselves what they accept.
func NormalizeBarcode(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, trimmed)
}

// DigitsOnly strips everything but digits from a barcode. Several providers
// reject barcodes containing separators or spaces.
func DigitsOnly(barcode string) string {
	var b strings.Builder
	b.Grow(len(barcode))
	for _, r := range barcode {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
