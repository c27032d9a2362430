package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// ReplyPartitioner classifies a markup body into contiguous authored vs
// quoted regions and returns the first authored region. Implementations
// must honor the fallback contract: on any failure, return the input
// unchanged with a non-nil error so the caller can skip the step.
type ReplyPartitioner interface {
	Partition(markup string) (string, error)
}

// ReplyBlockDetector finds the un-quoted portion of a plain-text body.
// Same fallback contract: return the input unchanged on failure.
type ReplyBlockDetector interface {
	Visible(text string) (string, error)
}

// markerPartitioner is the built-in heuristic partitioner: it cuts the
// markup at the earliest known client reply marker. Any concrete semantic
// implementation can be substituted without touching the orchestrator.
type markerPartitioner struct{}

// NewMarkerPartitioner returns the default heuristic ReplyPartitioner
func NewMarkerPartitioner() ReplyPartitioner {
	return markerPartitioner{}
}

var replyMarkers = []string{
	`<div class="gmail_quote`,
	`<div class=3d"gmail_quote`,
	`<blockquote type="cite`,
	`<div class="moz-cite-prefix`,
	`<div class="yahoo_quoted`,
	`<div class="protonmail_quote`,
	`<div id="divrplyfwdmsg`,
	`<div id="appendonsend`,
	`-----original message-----`,
	`begin forwarded message:`,
}

func (markerPartitioner) Partition(markup string) (string, error) {
	lowered := strings.ToLower(markup)
	cut := -1
	for _, marker := range replyMarkers {
		if idx := strings.Index(lowered, marker); idx >= 0 && (cut < 0 || idx < cut) {
			cut = idx
		}
	}
	if cut < 0 {
		return markup, fmt.Errorf("no reply marker found")
	}
	if cut == 0 {
		// The whole body is a quote wrapper; cutting would empty it
		return markup, fmt.Errorf("reply marker at document start")
	}
	return markup[:cut], nil
}

// quoteLineDetector is the built-in heuristic ReplyBlockDetector: it keeps
// everything before the first run of ">"-quoted lines, dropping an
// attribution line immediately above the run.
type quoteLineDetector struct{}

// NewQuoteLineDetector returns the default heuristic ReplyBlockDetector
func NewQuoteLineDetector() ReplyBlockDetector {
	return quoteLineDetector{}
}

var attributionRe = regexp.MustCompile(`^On .{10,80} wrote:\s*$`)

func (quoteLineDetector) Visible(text string) (string, error) {
	lines := strings.Split(text, "\n")
	first := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), ">") {
			first = i
			break
		}
	}
	if first < 0 {
		return text, fmt.Errorf("no quoted block found")
	}
	if first == 0 {
		// Entire body quoted; leaving it intact beats emptying the message
		return text, fmt.Errorf("quoted block at start of body")
	}

	end := first
	// Drop the attribution line and blank padding above the quote run
	for end > 0 {
		prev := strings.TrimSpace(lines[end-1])
		if prev == "" || attributionRe.MatchString(prev) {
			end--
			continue
		}
		break
	}
	if end == 0 {
		return text, fmt.Errorf("quoted block spans entire body")
	}
	return strings.Join(lines[:end], "\n"), nil
}
