package types

import "strings"

// normalizeIdentifier lowercases and trims an address/handle so that set
// membership is case-insensitive. Angle-bracketed forms ("Name <a@b.c>")
// are reduced to the bare address.
func normalizeIdentifier(id string) string {
	id = strings.TrimSpace(id)
	if open := strings.LastIndex(id, "<"); open >= 0 {
		if close := strings.Index(id[open:], ">"); close > 0 {
			id = id[open+1 : open+close]
		}
	}
	return strings.ToLower(strings.TrimSpace(id))
}

// NormalizeIdentifier exposes the canonical identifier form used by
// KnownIdentifierSet membership checks.
func NormalizeIdentifier(id string) string {
	return normalizeIdentifier(id)
}
