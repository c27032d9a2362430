package extract

import (
	"regexp"
	"strings"

	"github.com/dbower44022/CRMExtender-sub003/internal/patterns"
)

// RemoveNoise applies the track-independent noise stages in a fixed order.
// Later stages assume earlier ones already removed structural quoting, so
// the order is part of the contract.
func RemoveNoise(text string, table *patterns.Table) string {
	text = stripDeviceSignoffs(text, table)
	text = truncateAtVocabulary(text, table.Confidentiality)
	text = truncateAtVocabulary(text, table.Environmental)
	text = stripSeparatorSignatures(text, table)
	text = stripValedictionSignature(text, table)
	text = stripStandaloneSignature(text, table)
	text = stripPromotional(text, table)
	text = stripUnsubscribeFooter(text, table)
	return text
}

// stripDeviceSignoffs removes the first device- or client-generated
// signoff line and everything after it
func stripDeviceSignoffs(text string, table *patterns.Table) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		for _, re := range table.DeviceSignoffs {
			if re.MatchString(trimmed) {
				return joinTrimmed(lines[:i])
			}
		}
	}
	return text
}

// truncateAtVocabulary cuts from the first line matching any pattern in
// the vocabulary through the end of the text
func truncateAtVocabulary(text string, vocab []*regexp.Regexp) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		for _, re := range vocab {
			if re.MatchString(line) {
				return joinTrimmed(lines[:i])
			}
		}
	}
	return text
}

var (
	dashSeparatorRe       = regexp.MustCompile(`^--\s*$`)
	underscoreSeparatorRe = regexp.MustCompile(`^_{2,9}\s*$`)
)

// stripSeparatorSignatures runs the three separator passes in sequence:
// dash, underscore, then dash again to catch a separator left dangling
// after the underscore pass truncated the content that used to follow it.
func stripSeparatorSignatures(text string, table *patterns.Table) string {
	text = stripAtSeparator(text, dashSeparatorRe, 500, 10, table)
	text = stripAtSeparator(text, underscoreSeparatorRe, 1500, 25, table)
	text = stripAtSeparator(text, dashSeparatorRe, 500, 10, table)
	return text
}

// stripAtSeparator finds the first separator line and truncates there when
// the trailing content looks like a signature: short, and either carrying a
// signature-marker token or opening with a personal-name line. A separator
// followed by long or marker-free content is a legitimate divider and is
// left untouched.
func stripAtSeparator(text string, sep *regexp.Regexp, maxChars, maxLines int, table *patterns.Table) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if !sep.MatchString(line) {
			continue
		}
		rest := lines[i+1:]
		restText := strings.TrimSpace(strings.Join(rest, "\n"))
		if restText == "" {
			return joinTrimmed(lines[:i])
		}
		if len(restText) >= maxChars || countNonBlank(rest) > maxLines {
			return text
		}
		if hasSignatureMarker(restText, table) || firstNonBlankMatches(rest, table.NameLine) {
			return joinTrimmed(lines[:i])
		}
		return text
	}
	return text
}

// sentenceRe detects a full natural-language sentence: a capitalized word
// followed by at least three more words and a terminator.
var sentenceRe = regexp.MustCompile(`[A-Z][A-Za-z'’,-]*(?:\s+[\w'’,%$#&()-]+){3,}[.!?]`)

// stripValedictionSignature removes a signature block anchored by a closing
// phrase standing alone on its line. All three guards must hold before
// truncating, so a genuine follow-up paragraph that happens to start with a
// closing phrase survives.
func stripValedictionSignature(text string, table *patterns.Table) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if !table.Valediction.MatchString(line) {
			continue
		}
		rest := lines[i+1:]
		restText := strings.TrimSpace(strings.Join(rest, "\n"))
		if restText == "" {
			continue
		}
		if !hasSignatureMarker(restText, table) {
			continue
		}
		if len(restText) >= 1500 && countNonBlank(rest) > 15 {
			continue
		}
		if hasUnwhitelistedSentence(rest, table) {
			continue
		}
		return joinTrimmed(lines[:i])
	}
	return text
}

// hasUnwhitelistedSentence reports whether any trailing line carries a full
// sentence that is not one of the shapes known to legitimately occur in
// signatures (legal boilerplate, scheduling prompts, identifiers)
func hasUnwhitelistedSentence(lines []string, table *patterns.Table) bool {
	for _, line := range lines {
		if !sentenceRe.MatchString(line) {
			continue
		}
		whitelisted := false
		for _, re := range table.SentenceWhitelist {
			if re.MatchString(line) {
				whitelisted = true
				break
			}
		}
		if !whitelisted {
			return true
		}
	}
	return false
}

var imageMarkerRe = regexp.MustCompile(`^\s*\[(image|cid):`)

// stripStandaloneSignature catches signatures that carry no valediction:
// an embedded-image marker, an all-caps name-with-credentials line, or a
// mixed-case name line directly followed by a title-bearing line.
func stripStandaloneSignature(text string, table *patterns.Table) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if imageMarkerRe.MatchString(line) {
			cut := i
			// An image marker usually sits below the name line; look back
			// up to 3 lines for one and truncate from there
			for back := i - 1; back >= 0 && back >= i-3; back-- {
				if table.NameLine.MatchString(lines[back]) {
					cut = back
					break
				}
			}
			return joinTrimmed(lines[:cut])
		}

		if table.CapsNameLine.MatchString(line) {
			if markersFollow(lines, i, 5, table) {
				return joinTrimmed(lines[:i])
			}
			continue
		}

		if table.NameLine.MatchString(line) {
			next := nextNonBlank(lines, i+1)
			if next >= 0 && table.TitleLine.MatchString(lines[next]) {
				// Require real content above the name line so a message
				// that is nothing but a contact card is not gutted
				preceding := strings.TrimSpace(strings.Join(lines[:i], "\n"))
				if len(preceding) >= 20 {
					return joinTrimmed(lines[:i])
				}
			}
		}
	}
	return text
}

// markersFollow reports whether any of the next n lines after index i
// carries a signature-marker token
func markersFollow(lines []string, i, n int, table *patterns.Table) bool {
	for j := i + 1; j < len(lines) && j <= i+n; j++ {
		if hasSignatureMarker(lines[j], table) {
			return true
		}
	}
	return false
}

// stripPromotional truncates at the first promotional line: social-link
// blocks, vCard and secure-file prompts, award citations, or a leftover
// embedded-image marker
func stripPromotional(text string, table *patterns.Table) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		for _, re := range table.Promotional {
			if re.MatchString(line) {
				return joinTrimmed(lines[:i])
			}
		}
	}
	return text
}

// stripUnsubscribeFooter truncates at the first line carrying an
// unsubscribe-type word. Intentionally aggressive: the word is a strong
// newsletter signal.
func stripUnsubscribeFooter(text string, table *patterns.Table) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lowered := strings.ToLower(line)
		for _, word := range table.UnsubscribeWords {
			if strings.Contains(lowered, word) {
				return joinTrimmed(lines[:i])
			}
		}
	}
	return text
}

func hasSignatureMarker(text string, table *patterns.Table) bool {
	for _, re := range table.SignatureMarkers {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func firstNonBlankMatches(lines []string, re *regexp.Regexp) bool {
	idx := nextNonBlank(lines, 0)
	return idx >= 0 && re.MatchString(lines[idx])
}

func nextNonBlank(lines []string, from int) int {
	for i := from; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != "" {
			return i
		}
	}
	return -1
}

func countNonBlank(lines []string) int {
	n := 0
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}
