package extract

import (
	"regexp"
	"strings"
)

var (
	listItemRe  = regexp.MustCompile(`^\s*([-*•]\s+|\d+[.)]\s+)`)
	labelPairRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9 _/-]{0,24}:\s`)
	reflowSepRe = regexp.MustCompile(`^\s*(-{2,}|_{2,})\s*$`)
)

// Reflow rejoins hard-wrapped lines into paragraphs and collapses
// whitespace. Consecutive non-blank lines merge with a single space unless
// the continuation starts a list item, a label: value pair, or a signature
// separator, or unless the previous line ended a sentence and the next one
// opens with a capital letter.
func Reflow(text string) string {
	lines := strings.Split(text, "\n")
	var out []string
	for _, raw := range lines {
		line := strings.TrimRight(raw, " \t")
		if line == "" {
			out = append(out, "")
			continue
		}
		if len(out) == 0 || out[len(out)-1] == "" || !joinable(out[len(out)-1], line) {
			out = append(out, line)
			continue
		}
		out[len(out)-1] = out[len(out)-1] + " " + strings.TrimLeft(line, " \t")
	}
	return collapseBlankRuns(out)
}

// joinable decides whether line continues prev as part of the same
// hard-wrapped paragraph
func joinable(prev, line string) bool {
	trimmed := strings.TrimSpace(line)
	if listItemRe.MatchString(line) || labelPairRe.MatchString(trimmed) || reflowSepRe.MatchString(line) {
		return false
	}
	if listItemRe.MatchString(prev) || reflowSepRe.MatchString(prev) {
		return false
	}
	// Sentence boundary without a blank line between
	if endsSentence(prev) && startsUpper(trimmed) {
		return false
	}
	return true
}

func endsSentence(line string) bool {
	line = strings.TrimRight(line, " \t")
	if line == "" {
		return false
	}
	switch line[len(line)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}

func startsUpper(line string) bool {
	if line == "" {
		return false
	}
	c := line[0]
	return c >= 'A' && c <= 'Z'
}

// collapseBlankRuns reduces runs of 3 or more blank lines to exactly one
// and drops leading and trailing blank lines
func collapseBlankRuns(lines []string) string {
	var out []string
	blanks := 0
	for _, line := range lines {
		if line == "" {
			blanks++
			continue
		}
		if len(out) > 0 {
			if blanks >= 3 {
				blanks = 1
			}
			for i := 0; i < blanks; i++ {
				out = append(out, "")
			}
		}
		blanks = 0
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
