package providers

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// configString extracts a string value from a source config map.
func configString(config map[string]interface{}, key, defaultValue string) string {
	if v, ok := config[key].(string); ok && v != "" {
		return v
	}
	return defaultValue
}

// configTimeout extracts a timeout in milliseconds from a source config map.
func configTimeout(config map[string]interface{}, defaultTimeout time.Duration) time.Duration {
	if t, ok := config["timeout"].(int); ok && t > 0 {
		return time.Duration(t) * time.Millisecond
	}
	return defaultTimeout
}

// parsePrice parses a provider price that may carry currency symbols or
// thousands separators ("$1,299.99", "CA$ 9.99"). Returns false when no
// usable positive amount is present.
func parsePrice(raw string) (decimal.Decimal, bool) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.NewReplacer("CA$", "", "US$", "", "$", "", ",", "").Replace(cleaned)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return decimal.Decimal{}, false
	}
	price, err := decimal.NewFromString(cleaned)
	if err != nil || !price.IsPositive() {
		return decimal.Decimal{}, false
	}
	return price, true
}
