// Package accounts implements the directory-backed account and character
// store: per-account auth records, character enumeration and dedup,
// linking, and password hashing.
package accounts

import "strings"

// SafeName normalizes a display name into the lowercase, space-free form
// used for directory and file names.
func SafeName(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	return strings.ReplaceAll(v, " ", "_")
}

var internalPrefixes = []string{"auth_", "combat_", "loop_", "market_", "msg_", "travel_"}

func hasInternalPrefix(stem string) bool {
	for _, p := range internalPrefixes {
		if strings.HasPrefix(stem, p) {
			return true
		}
	}
	return false
}
