package worker

import (
	"context"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbower44022/CRMExtender-sub003/internal/extract"
	"github.com/dbower44022/CRMExtender-sub003/internal/patterns"
	"github.com/dbower44022/CRMExtender-sub003/internal/triage"
	"github.com/dbower44022/CRMExtender-sub003/pkg/types"
)

func newTestPool(t *testing.T, size int) *Pool {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	table := patterns.Default()
	pipeline := extract.NewPipeline(table, logger)
	classifier := triage.NewClassifier(table, logger)

	pool, err := NewPool(size, 64, pipeline, classifier, logger)
	require.NoError(t, err)
	return pool
}

func TestPoolRun(t *testing.T) {
	pool := newTestPool(t, 4)
	known := types.NewKnownIdentifierSet("pat@client.example")

	batch := []*types.RawMessage{
		{
			Sender:       "pat@client.example",
			PlainText:    "First message.\n\nSent from my iPhone",
			Participants: []string{"pat@client.example"},
		},
		{
			Sender:       "noreply@bank.example",
			PlainText:    "Your statement is ready.",
			Participants: []string{"me@mycorp.example"},
		},
		{
			Sender:       "stranger@unknown.example",
			PlainText:    "Cold outreach text.",
			Participants: []string{"stranger@unknown.example"},
		},
	}

	outcomes := pool.Run(context.Background(), batch, known, "me@mycorp.example")
	require.Len(t, outcomes, 3)

	// Outcome order matches input order
	for i, o := range outcomes {
		assert.Same(t, batch[i], o.Message)
	}

	assert.Equal(t, "First message.", outcomes[0].Content.ContentClean)
	assert.True(t, outcomes[0].Decision.Passed)

	assert.Equal(t, types.ReasonAutomatedSender, outcomes[1].Decision.Reason)
	assert.Equal(t, types.ReasonNoKnownContacts, outcomes[2].Decision.Reason)
}

func TestPoolRunEmptyBatch(t *testing.T) {
	pool := newTestPool(t, 2)
	outcomes := pool.Run(context.Background(), nil, types.NewKnownIdentifierSet(), "")
	assert.Empty(t, outcomes)
}

func TestPoolCache(t *testing.T) {
	pool := newTestPool(t, 1)
	known := types.NewKnownIdentifierSet("pat@client.example")

	msg := &types.RawMessage{
		Sender:       "pat@client.example",
		PlainText:    "Same body twice.\n\nSent from my iPhone",
		Participants: []string{"pat@client.example"},
	}

	first := pool.Run(context.Background(), []*types.RawMessage{msg}, known, "")
	second := pool.Run(context.Background(), []*types.RawMessage{msg}, known, "")
	assert.Equal(t, first[0].Content, second[0].Content)

	// Distinct bodies occupy distinct cache entries
	other := &types.RawMessage{Sender: "pat@client.example", PlainText: "Different body."}
	third := pool.Run(context.Background(), []*types.RawMessage{other}, known, "")
	assert.NotEqual(t, first[0].Content.ContentClean, third[0].Content.ContentClean)
}

func TestPoolReclassify(t *testing.T) {
	pool := newTestPool(t, 2)
	owner := "me@mycorp.example"

	batch := []*types.RawMessage{
		{
			Sender:       "newlead@prospect.example",
			PlainText:    "Following up from the conference.",
			Participants: []string{"newlead@prospect.example", "me@mycorp.example"},
		},
	}

	empty := types.NewKnownIdentifierSet()
	outcomes := pool.Run(context.Background(), batch, empty, owner)
	require.Equal(t, types.ReasonNoKnownContacts, outcomes[0].Decision.Reason)

	grown := types.NewKnownIdentifierSet("newlead@prospect.example")
	updated := pool.Reclassify(outcomes, grown, owner)

	require.Len(t, updated, 1)
	assert.True(t, updated[0].Decision.Passed)
	// Content is reused, not re-extracted
	assert.Equal(t, outcomes[0].Content, updated[0].Content)
}

func TestPoolLargeBatchOrder(t *testing.T) {
	pool := newTestPool(t, 8)
	known := types.NewKnownIdentifierSet()

	var batch []*types.RawMessage
	for i := 0; i < 50; i++ {
		batch = append(batch, &types.RawMessage{
			Sender:    fmt.Sprintf("sender%02d@x.example", i),
			PlainText: fmt.Sprintf("message number %02d", i),
		})
	}

	outcomes := pool.Run(context.Background(), batch, known, "")
	require.Len(t, outcomes, 50)
	for i, o := range outcomes {
		assert.Equal(t, fmt.Sprintf("message number %02d", i), o.Content.ContentClean)
	}
}
