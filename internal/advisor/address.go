package advisor

import (
	"strings"
)

const defaultScheme = "https://"

// NormalizeAddress reduces user input to the stored form, a bare host[:port]. A leading
// scheme and trailing slashes are removed.
func NormalizeAddress(input string) string {
	addr := strings.TrimSpace(input)
	if i := strings.Index(addr, "://"); i >= 0 {
		addr = addr[i+3:]
	}
	return strings.TrimRight(addr, "/")
}

// ResolveBaseURL turns a stored address into the base URL for requests. A stored value
// that already carries a scheme is used verbatim; otherwise https is assumed.
func ResolveBaseURL(stored string) (string, error) {
	stored = strings.TrimSpace(stored)
	if stored == "" {
		return "", ErrNotConfigured
	}
	if strings.Contains(stored, "://") {
		return strings.TrimRight(stored, "/"), nil
	}
	return defaultScheme + strings.TrimRight(stored, "/"), nil
}
