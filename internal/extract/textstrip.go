package extract

import (
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dbower44022/CRMExtender-sub003/internal/patterns"
)

// PatternStripper removes quote, forward, and separator blocks from a
// plain-text body.
type PatternStripper struct {
	detector ReplyBlockDetector
	logger   *logrus.Logger
}

// NewPatternStripper creates a plain-text stripper
func NewPatternStripper(detector ReplyBlockDetector, logger *logrus.Logger) *PatternStripper {
	if detector == nil {
		detector = NewQuoteLineDetector()
	}
	return &PatternStripper{
		detector: detector,
		logger:   logger,
	}
}

// hardRuleRe matches a long run of underscores or dashes on its own line.
// Runs of 10+ mark a forward boundary; shorter underscore runs are a
// signature signal and belong to the shared noise remover.
var hardRuleRe = regexp.MustCompile(`^\s*[_-]{10,}\s*$`)

var (
	fromHeaderRe = regexp.MustCompile(`(?i)^\s*from\s*:`)
	sentHeaderRe = regexp.MustCompile(`(?i)^\s*(sent|date)\s*:`)
	toHeaderRe   = regexp.MustCompile(`(?i)^\s*to\s*:`)
)

// Strip runs the plain-text track
func (p *PatternStripper) Strip(text string, table *patterns.Table) string {
	if visible, err := p.detector.Visible(text); err == nil {
		text = visible
	} else {
		p.logger.WithError(err).Debug("Reply block detection skipped")
	}

	text = truncateAtForwardMarker(text, table)
	text = truncateAtHardBoundary(text)
	text = truncateAtAttribution(text)
	return text
}

func truncateAtForwardMarker(text string, table *patterns.Table) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		for _, re := range table.ForwardMarkers {
			if re.MatchString(strings.TrimSpace(line)) {
				return joinTrimmed(lines[:i])
			}
		}
	}
	return text
}

// truncateAtHardBoundary cuts at a 10+ underscore/dash rule, or at a
// From:/Sent:/To: header block of the kind clients insert above an
// embedded original message.
func truncateAtHardBoundary(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if hardRuleRe.MatchString(line) {
			return joinTrimmed(lines[:i])
		}
		if fromHeaderRe.MatchString(line) && headerTripleFollows(lines, i) {
			return joinTrimmed(lines[:i])
		}
	}
	return text
}

// headerTripleFollows reports whether a From: line is followed within the
// next 4 lines by both a Sent:/Date: line and a To: line
func headerTripleFollows(lines []string, from int) bool {
	var sent, to bool
	for j := from + 1; j < len(lines) && j <= from+4; j++ {
		if sentHeaderRe.MatchString(lines[j]) {
			sent = true
		}
		if toHeaderRe.MatchString(lines[j]) {
			to = true
		}
	}
	return sent && to
}

func truncateAtAttribution(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if attributionRe.MatchString(strings.TrimSpace(line)) {
			return joinTrimmed(lines[:i])
		}
	}
	return text
}

// joinTrimmed joins lines and trims trailing blank space left by a cut
func joinTrimmed(lines []string) string {
	return strings.TrimRight(strings.Join(lines, "\n"), " \t\n")
}
