// Package triage classifies cleaned messages as genuine human interactions
// versus automated or marketing noise. Filtering never discards a message;
// it only attaches a reason, and re-classifying with a grown
// known-identifier set can flip a prior filter to a pass.
package triage

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dbower44022/CRMExtender-sub003/internal/patterns"
	"github.com/dbower44022/CRMExtender-sub003/pkg/types"
)

// UserFilter is an optional operator-supplied predicate; a true result
// filters the message with reason user_filtered.
type UserFilter func(raw *types.RawMessage) bool

// Classifier applies the layered filter chain, first match wins
type Classifier struct {
	table      *patterns.Table
	logger     *logrus.Logger
	userFilter UserFilter
}

// NewClassifier creates a classifier bound to one pattern-table version
func NewClassifier(table *patterns.Table, logger *logrus.Logger) *Classifier {
	return &Classifier{
		table:  table,
		logger: logger,
	}
}

// WithUserFilter installs an operator-defined filter layer
func (c *Classifier) WithUserFilter(f UserFilter) *Classifier {
	c.userFilter = f
	return c
}

// Classify runs the filter chain. Layers in order: automated sender,
// automated subject, marketing content, user filter, known-contact gate.
// A message surviving every layer passes with reason none.
func (c *Classifier) Classify(cleaned types.CleanedContent, raw *types.RawMessage, known types.KnownIdentifierSet, accountOwner string) types.TriageDecision {
	if c.matchesSenderPattern(raw.Sender) {
		return filtered(types.ReasonAutomatedSender)
	}
	if c.matchesSubjectPattern(raw.Subject) {
		return filtered(types.ReasonAutomatedSubject)
	}
	if c.containsMarketingMarker(raw, cleaned) {
		return filtered(types.ReasonMarketingContent)
	}
	if c.userFilter != nil && c.userFilter(raw) {
		return filtered(types.ReasonUserFiltered)
	}
	if !c.hasKnownParticipant(raw, known, accountOwner) {
		return filtered(types.ReasonNoKnownContacts)
	}
	return types.TriageDecision{Passed: true, Reason: types.ReasonNone}
}

func filtered(reason types.TriageReason) types.TriageDecision {
	return types.TriageDecision{Passed: false, Reason: reason}
}

// matchesSenderPattern checks the local part of the sender address against
// the closed automated-sender vocabulary
func (c *Classifier) matchesSenderPattern(sender string) bool {
	local := types.NormalizeIdentifier(sender)
	if at := strings.Index(local, "@"); at >= 0 {
		local = local[:at]
	}
	if local == "" {
		return false
	}
	for _, re := range c.table.SenderLocalParts {
		if re.MatchString(local) {
			return true
		}
	}
	return false
}

func (c *Classifier) matchesSubjectPattern(subject string) bool {
	if subject == "" {
		return false
	}
	for _, re := range c.table.SubjectPhrases {
		if re.MatchString(subject) {
			return true
		}
	}
	return false
}

// containsMarketingMarker looks for an unsubscribe-type marker in the raw
// body so that a footer already stripped by the pipeline still counts
func (c *Classifier) containsMarketingMarker(raw *types.RawMessage, cleaned types.CleanedContent) bool {
	for _, body := range []string{raw.PlainText, raw.MarkupBody, cleaned.ContentClean} {
		if body == "" {
			continue
		}
		lowered := strings.ToLower(body)
		for _, word := range c.table.UnsubscribeWords {
			if strings.Contains(lowered, word) {
				return true
			}
		}
	}
	return false
}

// hasKnownParticipant applies the known-contact gate: at least one
// participant other than the account owner must be a recognized identifier
func (c *Classifier) hasKnownParticipant(raw *types.RawMessage, known types.KnownIdentifierSet, accountOwner string) bool {
	owner := types.NormalizeIdentifier(accountOwner)
	for _, id := range raw.Participants {
		normalized := types.NormalizeIdentifier(id)
		if normalized == "" || normalized == owner {
			continue
		}
		if known.Contains(normalized) {
			return true
		}
	}
	sender := types.NormalizeIdentifier(raw.Sender)
	if sender != "" && sender != owner && known.Contains(sender) {
		return true
	}
	return false
}
