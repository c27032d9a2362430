package types

// Track identifies which top-level stripping strategy produced a result
type Track string

const (
	TrackMarkup    Track = "markup"
	TrackPlainText Track = "plain-text"
)

// RawMessage is an inbound message as supplied by the provider-sync/storage
// collaborator: already fetched, already decoded, never mutated here.
type RawMessage struct {
	PlainText    string   `json:"plain_text,omitempty"`
	MarkupBody   string   `json:"markup_body,omitempty"`
	Sender       string   `json:"sender_identifier"`
	Subject      string   `json:"subject,omitempty"`
	Participants []string `json:"participant_identifiers,omitempty"`
}

// HasBody reports whether at least one body variant is present
func (m *RawMessage) HasBody() bool {
	return m.PlainText != "" || m.MarkupBody != ""
}

// RawText returns the plain-text body, falling back to the markup body
// when no plain-text variant was provided
func (m *RawMessage) RawText() string {
	if m.PlainText != "" {
		return m.PlainText
	}
	return m.MarkupBody
}

// StageResult is passed between pipeline stages; never persisted
type StageResult struct {
	Text      string `json:"text"`
	Truncated bool   `json:"truncated"`
	TrackUsed Track  `json:"track_used"`
}

// CleanedContent is the pipeline output
type CleanedContent struct {
	ContentClean   string  `json:"content_clean"`
	TrackUsed      Track   `json:"track_used"`
	ReductionRatio float64 `json:"reduction_ratio"`
}

// TriageReason explains why a message was filtered
type TriageReason string

const (
	ReasonNone             TriageReason = "none"
	ReasonAutomatedSender  TriageReason = "automated_sender"
	ReasonAutomatedSubject TriageReason = "automated_subject"
	ReasonMarketingContent TriageReason = "marketing_content"
	ReasonNoKnownContacts  TriageReason = "no_known_contacts"
	ReasonUserFiltered     TriageReason = "user_filtered"
)

// TriageDecision records whether a message passed triage. Exactly one of
// Passed=true or a non-none Reason holds. Filtered messages keep their
// cleaned content; the decision is reversible by re-classifying with an
// updated known-identifier set.
type TriageDecision struct {
	Passed bool         `json:"passed"`
	Reason TriageReason `json:"reason"`
}

// KnownIdentifierSet holds the identifiers the surrounding system already
// recognizes as real contacts. Supplied by the identity-resolution
// collaborator; may be partial or stale at call time.
type KnownIdentifierSet map[string]struct{}

// NewKnownIdentifierSet builds a set from a list of identifiers,
// normalizing to lower case
func NewKnownIdentifierSet(ids ...string) KnownIdentifierSet {
	set := make(KnownIdentifierSet, len(ids))
	for _, id := range ids {
		set.Add(id)
	}
	return set
}

// Add inserts an identifier into the set
func (k KnownIdentifierSet) Add(id string) {
	k[normalizeIdentifier(id)] = struct{}{}
}

// Contains reports whether the set holds the identifier
func (k KnownIdentifierSet) Contains(id string) bool {
	_, ok := k[normalizeIdentifier(id)]
	return ok
}
