// Package extract turns raw message bodies into clean, noise-free text.
// Two tracks perform the initial boilerplate pass (structural for markup
// bodies, pattern-based for plain text), followed by a track-independent
// noise remover and a reflow normalizer. The hard contract: never delete
// authored content, and never fail — every code path yields some cleaned
// text.
package extract

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dbower44022/CRMExtender-sub003/internal/patterns"
	"github.com/dbower44022/CRMExtender-sub003/pkg/types"
)

// DefaultStageBudget bounds worst-case pattern-matching cost per message.
// Exceeding it falls back to the least-processed safe result rather than
// hanging; this is a resource-safety bound, not a correctness one.
const DefaultStageBudget = 2 * time.Second

// Pipeline sequences the two stripping tracks, the shared noise remover,
// and the reflow normalizer. Stateless per invocation: the same RawMessage
// and Table always produce the same CleanedContent, so concurrent runs
// share a pipeline without locking.
type Pipeline struct {
	table      *patterns.Table
	structural *StructuralStripper
	textual    *PatternStripper
	budget     time.Duration
	logger     *logrus.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithStageBudget overrides the per-message time budget
func WithStageBudget(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.budget = d
		}
	}
}

// WithPartitioner substitutes the semantic reply-partition capability
func WithPartitioner(rp ReplyPartitioner) Option {
	return func(p *Pipeline) {
		p.structural = NewStructuralStripper(rp, p.logger)
	}
}

// WithReplyDetector substitutes the reply-block detection capability
func WithReplyDetector(d ReplyBlockDetector) Option {
	return func(p *Pipeline) {
		p.textual = NewPatternStripper(d, p.logger)
	}
}

// NewPipeline creates a pipeline bound to one pattern-table version
func NewPipeline(table *patterns.Table, logger *logrus.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		table:  table,
		budget: DefaultStageBudget,
		logger: logger,
	}
	p.structural = NewStructuralStripper(nil, logger)
	p.textual = NewPatternStripper(nil, logger)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Table returns the pattern table the pipeline was built with
func (p *Pipeline) Table() *patterns.Table {
	return p.table
}

// Extract turns a raw message into cleaned plain text. It never fails:
// malformed input degrades to plain-text handling, an exhausted budget
// returns the raw text unchanged, and a track that empties its result is
// replaced by the plain-text track.
func (p *Pipeline) Extract(ctx context.Context, raw *types.RawMessage) (content types.CleanedContent) {
	rawText := normalizeNewlines(raw.RawText())

	// No stage is allowed to raise; a panic inside a stage yields the
	// least-processed safe result instead of propagating.
	defer func() {
		if r := recover(); r != nil {
			p.logger.WithField("panic", r).Error("Extraction stage panicked, returning raw text")
			content = p.finish(rawText, rawText, types.TrackPlainText)
		}
	}()

	if p.budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.budget)
		defer cancel()
	}

	if raw.MarkupBody != "" {
		markup := normalizeNewlines(raw.MarkupBody)
		cleaned := p.runMarkupTrack(ctx, markup)
		if expired(ctx) {
			return p.finish(rawText, rawText, types.TrackMarkup)
		}
		if strings.TrimSpace(cleaned) != "" {
			return p.finish(rawText, cleaned, types.TrackMarkup)
		}
		// Markup track over-stripped; re-run on the plain-text variant,
		// or on the markup's raw text when none was provided
		p.logger.Debug("Markup track produced empty result, falling back to plain-text track")
		fallbackText := normalizeNewlines(raw.PlainText)
		if fallbackText == "" {
			fallbackText = tagStrip(markup)
		}
		cleaned = p.runTextTrack(ctx, fallbackText)
		if expired(ctx) || strings.TrimSpace(cleaned) == "" {
			cleaned = rawText
		}
		return p.finish(rawText, cleaned, types.TrackPlainText)
	}

	cleaned := p.runTextTrack(ctx, rawText)
	if expired(ctx) {
		cleaned = rawText
	}
	return p.finish(rawText, cleaned, types.TrackPlainText)
}

func (p *Pipeline) runMarkupTrack(ctx context.Context, markup string) string {
	text := p.structural.Strip(markup, p.table)
	if expired(ctx) {
		return ""
	}
	text = RemoveNoise(text, p.table)
	if expired(ctx) {
		return ""
	}
	return Reflow(text)
}

func (p *Pipeline) runTextTrack(ctx context.Context, text string) string {
	text = p.textual.Strip(text, p.table)
	if expired(ctx) {
		return ""
	}
	text = RemoveNoise(text, p.table)
	if expired(ctx) {
		return ""
	}
	return Reflow(text)
}

func (p *Pipeline) finish(rawText, cleaned string, track types.Track) types.CleanedContent {
	cleaned = strings.TrimSpace(cleaned)
	ratio := 0.0
	if len(rawText) > 0 {
		ratio = 1.0 - float64(len(cleaned))/float64(len(rawText))
	}
	return types.CleanedContent{
		ContentClean:   cleaned,
		TrackUsed:      track,
		ReductionRatio: ratio,
	}
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func expired(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
