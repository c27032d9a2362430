package patterns

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Ruleset is the serializable form of a pattern table. Rulesets are
// versioned data: swapping a version must never require a code change.
type Ruleset struct {
	Version string `json:"version"`

	// Triage vocabularies
	SenderLocalParts []string `json:"sender_local_parts"`
	SubjectPhrases   []string `json:"subject_phrases"`

	// Plain-text track separators
	ForwardMarkers []string `json:"forward_markers"`

	// Shared noise-removal vocabularies
	DeviceSignoffs    []string `json:"device_signoffs"`
	Confidentiality   []string `json:"confidentiality_notices"`
	Environmental     []string `json:"environmental_notices"`
	Valedictions      []string `json:"valedictions"`
	SignatureMarkers  []string `json:"signature_markers"`
	NameLine          string   `json:"name_line"`
	CapsNameLine      string   `json:"caps_name_line"`
	TitleLine         string   `json:"title_line"`
	Promotional       []string `json:"promotional_markers"`
	SentenceWhitelist []string `json:"sentence_whitelist"`

	// Markup track selectors (matched against class/id attribute tokens)
	QuoteContainers     []string `json:"quote_containers"`
	SignatureContainers []string `json:"signature_containers"`
	CutoffMarkers       []string `json:"cutoff_markers"`
	FooterNames         []string `json:"footer_names"`
	UnsubscribeWords    []string `json:"unsubscribe_words"`
}

// Table is an immutable set of compiled matchers, grouped by stage. Loaded
// once at process start and shared read-only across concurrent pipeline runs.
type Table struct {
	Version string

	SenderLocalParts []*regexp.Regexp
	SubjectPhrases   []*regexp.Regexp

	ForwardMarkers []*regexp.Regexp

	DeviceSignoffs    []*regexp.Regexp
	Confidentiality   []*regexp.Regexp
	Environmental     []*regexp.Regexp
	Valediction       *regexp.Regexp
	SignatureMarkers  []*regexp.Regexp
	NameLine          *regexp.Regexp
	CapsNameLine      *regexp.Regexp
	TitleLine         *regexp.Regexp
	Promotional       []*regexp.Regexp
	SentenceWhitelist []*regexp.Regexp

	QuoteContainers     []string
	SignatureContainers []string
	CutoffMarkers       []string
	FooterNames         []string
	UnsubscribeWords    []string
}

// Compile turns a ruleset into an immutable table of compiled matchers
func (r *Ruleset) Compile() (*Table, error) {
	if r.Version == "" {
		return nil, fmt.Errorf("ruleset has no version")
	}

	t := &Table{
		Version:             r.Version,
		QuoteContainers:     lowerAll(r.QuoteContainers),
		SignatureContainers: lowerAll(r.SignatureContainers),
		CutoffMarkers:       lowerAll(r.CutoffMarkers),
		FooterNames:         lowerAll(r.FooterNames),
		UnsubscribeWords:    lowerAll(r.UnsubscribeWords),
	}

	var err error
	if t.SenderLocalParts, err = compileAll("sender_local_parts", r.SenderLocalParts); err != nil {
		return nil, err
	}
	if t.SubjectPhrases, err = compileAll("subject_phrases", r.SubjectPhrases); err != nil {
		return nil, err
	}
	if t.ForwardMarkers, err = compileAll("forward_markers", r.ForwardMarkers); err != nil {
		return nil, err
	}
	if t.DeviceSignoffs, err = compileAll("device_signoffs", r.DeviceSignoffs); err != nil {
		return nil, err
	}
	if t.Confidentiality, err = compileAll("confidentiality_notices", r.Confidentiality); err != nil {
		return nil, err
	}
	if t.Environmental, err = compileAll("environmental_notices", r.Environmental); err != nil {
		return nil, err
	}
	if t.SignatureMarkers, err = compileAll("signature_markers", r.SignatureMarkers); err != nil {
		return nil, err
	}
	if t.Promotional, err = compileAll("promotional_markers", r.Promotional); err != nil {
		return nil, err
	}
	if t.SentenceWhitelist, err = compileAll("sentence_whitelist", r.SentenceWhitelist); err != nil {
		return nil, err
	}

	if t.Valediction, err = compileValedictions(r.Valedictions); err != nil {
		return nil, err
	}
	if t.NameLine, err = compileOne("name_line", r.NameLine); err != nil {
		return nil, err
	}
	if t.CapsNameLine, err = compileOne("caps_name_line", r.CapsNameLine); err != nil {
		return nil, err
	}
	if t.TitleLine, err = compileOne("title_line", r.TitleLine); err != nil {
		return nil, err
	}

	return t, nil
}

// LoadFile reads and compiles a ruleset from a JSON file
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern file: %w", err)
	}

	var rs Ruleset
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("failed to parse pattern file: %w", err)
	}

	table, err := rs.Compile()
	if err != nil {
		return nil, fmt.Errorf("failed to compile pattern file %s: %w", path, err)
	}
	return table, nil
}

// compileValedictions builds a single anchored alternation so a closing
// phrase only matches when it stands alone on its line, with at most
// trailing punctuation. "Best, Sharon" is not an anchor; "Sincere thanks,"
// is.
func compileValedictions(phrases []string) (*regexp.Regexp, error) {
	if len(phrases) == 0 {
		return nil, fmt.Errorf("ruleset has no valedictions")
	}
	quoted := make([]string, len(phrases))
	for i, p := range phrases {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(p))
	}
	expr := `(?i)^\s*(?:` + strings.Join(quoted, "|") + `)\s*[,.!]?\s*$`
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("failed to compile valedictions: %w", err)
	}
	return re, nil
}

func compileAll(group string, exprs []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("failed to compile %s pattern %q: %w", group, expr, err)
		}
		out = append(out, re)
	}
	return out, nil
}

func compileOne(group, expr string) (*regexp.Regexp, error) {
	if expr == "" {
		return nil, fmt.Errorf("ruleset is missing %s", group)
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s pattern %q: %w", group, expr, err)
	}
	return re, nil
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
