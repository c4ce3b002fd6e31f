package sources

import (
	"testing"

	"github.com/ksaccary/barcode-app/pkg/logging"
)

func TestNormalizeBarcode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "0123456789012", "0123456789012"},
		{"leading and trailing space", "  0123456789012  ", "0123456789012"},
		{"internal whitespace", "01234 56789 012", "0123456789012"},
		{"tabs and newlines", "\t0123456789012\n", "0123456789012"},
		{"empty", "", ""},
		{"only whitespace", "   \t ", ""},
		{"non-digit characters kept", "ABC-123", "ABC-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeBarcode(tt.input); got != tt.want {
				t.Errorf("NormalizeBarcode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDigitsOnly(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"0123456789012", "0123456789012"},
		{"012-345-678", "012345678"},
		{"abc", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := DigitsOnly(tt.input); got != tt.want {
			t.Errorf("DigitsOnly(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestGetLoggerFromConfig(t *testing.T) {
	logger := logging.NewNoopLogger()

	if got := GetLoggerFromConfig(map[string]interface{}{"logger": logger}); got != logger {
		t.Error("expected the configured logger back")
	}
	if got := GetLoggerFromConfig(map[string]interface{}{}); got == nil {
		t.Error("expected a noop logger, got nil")
	}
	if got := GetLoggerFromConfig(map[string]interface{}{"logger": "not a logger"}); got == nil {
		t.Error("expected a noop logger for a mistyped value, got nil")
	}
}
