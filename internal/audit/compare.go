// Package audit validates pattern-table changes before rollout: it replays
// a corpus of raw messages under two table versions and reports reduction
// ratios, results that flipped from non-empty to empty (the strong
// over-stripping signal), and a bounded sample of before/after diffs.
package audit

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dbower44022/CRMExtender-sub003/internal/extract"
	"github.com/dbower44022/CRMExtender-sub003/internal/patterns"
)

// MessageDelta is the per-message outcome of a comparison run
type MessageDelta struct {
	MessageID      int64   `json:"message_id"`
	ReductionA     float64 `json:"reduction_a"`
	ReductionB     float64 `json:"reduction_b"`
	FlippedToEmpty bool    `json:"flipped_to_empty"`
}

// DiffSample is a before/after pair held out for manual review
type DiffSample struct {
	MessageID int64  `json:"message_id"`
	Before    string `json:"before"`
	After     string `json:"after"`
}

// Report summarizes one comparison run
type Report struct {
	RunID          string         `json:"run_id"`
	TableA         string         `json:"table_a"`
	TableB         string         `json:"table_b"`
	Messages       []MessageDelta `json:"messages"`
	FlippedToEmpty int            `json:"flipped_to_empty"`
	MeanReductionA float64        `json:"mean_reduction_a"`
	MeanReductionB float64        `json:"mean_reduction_b"`
	Samples        []DiffSample   `json:"samples"`
}

// Comparator replays a corpus under two pattern-table versions
type Comparator struct {
	logger      *logrus.Logger
	sampleLimit int
	sampleChars int
}

// NewComparator creates a comparator. sampleLimit bounds how many
// before/after diffs the report carries.
func NewComparator(logger *logrus.Logger, sampleLimit int) *Comparator {
	if sampleLimit <= 0 {
		sampleLimit = 10
	}
	return &Comparator{
		logger:      logger,
		sampleLimit: sampleLimit,
		sampleChars: 400,
	}
}

// Compare runs every corpus message through pipelines built from both
// tables. A result "flips to empty" when the candidate table empties a
// message whose stored content was non-empty.
func (c *Comparator) Compare(ctx context.Context, corpus []CorpusPair, tableA, tableB *patterns.Table) *Report {
	pipelineA := extract.NewPipeline(tableA, c.logger)
	pipelineB := extract.NewPipeline(tableB, c.logger)

	report := &Report{
		RunID:  uuid.NewString(),
		TableA: tableA.Version,
		TableB: tableB.Version,
	}

	var sumA, sumB float64
	for i := range corpus {
		pair := &corpus[i]
		resultA := pipelineA.Extract(ctx, &pair.Message)
		resultB := pipelineB.Extract(ctx, &pair.Message)

		flipped := strings.TrimSpace(pair.StoredContent) != "" &&
			strings.TrimSpace(resultB.ContentClean) == ""

		delta := MessageDelta{
			MessageID:      pair.ID,
			ReductionA:     resultA.ReductionRatio,
			ReductionB:     resultB.ReductionRatio,
			FlippedToEmpty: flipped,
		}
		report.Messages = append(report.Messages, delta)
		sumA += resultA.ReductionRatio
		sumB += resultB.ReductionRatio

		if flipped {
			report.FlippedToEmpty++
		}
		if resultA.ContentClean != resultB.ContentClean && len(report.Samples) < c.sampleLimit {
			report.Samples = append(report.Samples, DiffSample{
				MessageID: pair.ID,
				Before:    clip(resultA.ContentClean, c.sampleChars),
				After:     clip(resultB.ContentClean, c.sampleChars),
			})
		}
	}

	if n := len(report.Messages); n > 0 {
		report.MeanReductionA = sumA / float64(n)
		report.MeanReductionB = sumB / float64(n)
	}

	c.logger.WithFields(logrus.Fields{
		"run_id":   report.RunID,
		"table_a":  report.TableA,
		"table_b":  report.TableB,
		"messages": len(report.Messages),
		"flipped":  report.FlippedToEmpty,
	}).Info("Comparison run complete")

	return report
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
