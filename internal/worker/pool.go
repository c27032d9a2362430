// Package worker runs extraction and triage over message batches. The
// pipeline is stateless and pure per invocation, so batches parallelize
// with no locking: one task per message, a deadline per task.
package worker

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/dbower44022/CRMExtender-sub003/internal/extract"
	"github.com/dbower44022/CRMExtender-sub003/internal/triage"
	"github.com/dbower44022/CRMExtender-sub003/pkg/types"
)

// Outcome pairs a message with its cleaned content and triage decision
type Outcome struct {
	Message  *types.RawMessage
	Content  types.CleanedContent
	Decision types.TriageDecision
}

// Pool processes message batches with bounded concurrency
type Pool struct {
	size       int
	pipeline   *extract.Pipeline
	classifier *triage.Classifier
	cache      *lru.Cache[string, types.CleanedContent]
	logger     *logrus.Logger
}

// NewPool creates a pool. cacheSize bounds the extraction memo; identical
// bodies (retries, webhook replays) skip re-extraction on a hit.
func NewPool(size, cacheSize int, pipeline *extract.Pipeline, classifier *triage.Classifier, logger *logrus.Logger) (*Pool, error) {
	if size < 1 {
		size = 1
	}
	if cacheSize < 1 {
		cacheSize = 1024
	}
	cache, err := lru.New[string, types.CleanedContent](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}
	return &Pool{
		size:       size,
		pipeline:   pipeline,
		classifier: classifier,
		cache:      cache,
		logger:     logger,
	}, nil
}

// Run extracts and classifies every message in the batch. Order of the
// returned outcomes matches the input; there is no cross-message ordering
// guarantee during processing and none is needed.
func (p *Pool) Run(ctx context.Context, batch []*types.RawMessage, known types.KnownIdentifierSet, accountOwner string) []Outcome {
	outcomes := make([]Outcome, len(batch))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.size)
	for i := range batch {
		i := i
		g.Go(func() error {
			msg := batch[i]
			content, hit := p.extractCached(ctx, msg)
			outcomes[i] = Outcome{
				Message:  msg,
				Content:  content,
				Decision: p.classifier.Classify(content, msg, known, accountOwner),
			}
			p.logger.WithFields(logrus.Fields{
				"sender":    msg.Sender,
				"track":     content.TrackUsed,
				"reduction": content.ReductionRatio,
				"cache_hit": hit,
				"passed":    outcomes[i].Decision.Passed,
			}).Debug("Processed message")
			return nil
		})
	}
	// Workers never return errors; extraction has no failure mode
	g.Wait() //nolint:errcheck

	return outcomes
}

// Reclassify re-runs triage only, without re-extracting. Used after
// identity resolution grows the known-identifier set: a prior
// no_known_contacts filter can flip to a pass.
func (p *Pool) Reclassify(outcomes []Outcome, known types.KnownIdentifierSet, accountOwner string) []Outcome {
	updated := make([]Outcome, len(outcomes))
	for i, o := range outcomes {
		updated[i] = Outcome{
			Message:  o.Message,
			Content:  o.Content,
			Decision: p.classifier.Classify(o.Content, o.Message, known, accountOwner),
		}
	}
	return updated
}

func (p *Pool) extractCached(ctx context.Context, msg *types.RawMessage) (types.CleanedContent, bool) {
	key := p.cacheKey(msg)
	if content, ok := p.cache.Get(key); ok {
		return content, true
	}
	content := p.pipeline.Extract(ctx, msg)
	p.cache.Add(key, content)
	return content, false
}

// cacheKey hashes both body variants plus the table version, so swapping
// pattern tables never serves stale results
func (p *Pool) cacheKey(msg *types.RawMessage) string {
	h := sha256.New()
	h.Write([]byte(p.pipeline.Table().Version))
	h.Write([]byte{0})
	h.Write([]byte(msg.PlainText))
	h.Write([]byte{0})
	h.Write([]byte(msg.MarkupBody))
	return hex.EncodeToString(h.Sum(nil))
}
