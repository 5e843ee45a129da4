package workflow

import (
	"strings"
	"time"
)

// OrderPrefix is the mandatory prefix of every order number.
const OrderPrefix = "PR-"

// EnsureOrderPrefix re-derives the PR- prefix from arbitrary input, so a
// typed value can never lack it. Idempotent: an already-prefixed value
// passes through unchanged.
func EnsureOrderPrefix(s string) string {
	v := strings.TrimSpace(s)
	upper := strings.ToUpper(v)
	if strings.HasPrefix(upper, "PR-") {
		v = v[3:]
	} else if strings.HasPrefix(upper, "PR") {
		v = v[2:]
	}
	return OrderPrefix + v
}

// ValidOrderNumber reports whether s carries the prefix and a non-empty
// suffix.
func ValidOrderNumber(s string) bool {
	return strings.HasPrefix(s, OrderPrefix) && len(s) > len(OrderPrefix)
}

// GenerateOrderNumber yields the default PR-YYYYMMDD-HHMM form.
func GenerateOrderNumber(now time.Time) string {
	return OrderPrefix + now.Format("20060102-1504")
}
