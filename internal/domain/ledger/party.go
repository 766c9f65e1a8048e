package ledger

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeParty canonicalizes an external-party name so that case and
// whitespace variants resolve to the same ledger identity. The empty string
// means "no party" and must never be used as a ledger key.
//
// The function is total and idempotent: applying it twice is a no-op.
func NormalizeParty(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	// Title casers are stateful, so build one per call rather than sharing.
	return cases.Title(language.Und).String(trimmed)
}

// HasParty reports whether the raw name resolves to a usable ledger identity.
func HasParty(raw string) bool {
	return NormalizeParty(raw) != ""
}
