package extract

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/dbower44022/CRMExtender-sub003/internal/patterns"
)

func newTestPatternStripper() *PatternStripper {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewPatternStripper(nil, logger)
}

func TestPatternStripperQuotedReplies(t *testing.T) {
	stripper := newTestPatternStripper()
	table := patterns.Default()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "quote run with attribution above is cut",
			input:    "Sounds good, see you then.\n\nOn Mon, Aug 24, 2026 at 9:02 AM Pat Lee wrote:\n> Can we move the sync to 3pm?\n> It conflicts with standup.",
			expected: "Sounds good, see you then.",
		},
		{
			name:     "quote run without attribution is cut",
			input:    "Agreed.\n> earlier message text\n> more quoted text",
			expected: "Agreed.",
		},
		{
			name:     "fully quoted body is left intact",
			input:    "> only quoted\n> content here",
			expected: "> only quoted\n> content here",
		},
		{
			name:     "no quotes leaves text alone",
			input:    "Plain reply with no quoting at all.",
			expected: "Plain reply with no quoting at all.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripper.Strip(tt.input, table))
		})
	}
}

func TestPatternStripperForwardAndBoundaries(t *testing.T) {
	stripper := newTestPatternStripper()
	table := patterns.Default()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "forward marker truncates",
			input:    "FYI, relevant thread below.\n\n---------- Forwarded message ----------\nFrom: someone@example.com",
			expected: "FYI, relevant thread below.",
		},
		{
			name:     "original message marker truncates",
			input:    "My answer is yes.\n\n-----Original Message-----\nFrom: boss@example.com",
			expected: "My answer is yes.",
		},
		{
			name:     "long underscore rule truncates",
			input:    "Reply above the line.\n\n________________________________\nFrom: sender@example.com",
			expected: "Reply above the line.",
		},
		{
			name:     "short underscore run is left for signature handling",
			input:    "Reply text.\n____\nnot a forward boundary",
			expected: "Reply text.\n____\nnot a forward boundary",
		},
		{
			name:     "header triple truncates without a rule",
			input:    "Handled, thanks.\n\nFrom: Alice Smith\nSent: Monday, August 24, 2026\nTo: Bob Jones\nSubject: Re: contract",
			expected: "Handled, thanks.",
		},
		{
			name:     "from line without sent and to survives",
			input:    "Quoting you: From: the top, one more time.\nThat was the whole note.",
			expected: "Quoting you: From: the top, one more time.\nThat was the whole note.",
		},
		{
			name:     "attribution line alone truncates",
			input:    "Works for me.\n\nOn Aug 22, 2026, at 4:15 PM, Dana Wu wrote:\nthe original content follows unquoted",
			expected: "Works for me.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripper.Strip(tt.input, table))
		})
	}
}

func TestQuoteLineDetectorContract(t *testing.T) {
	detector := NewQuoteLineDetector()

	t.Run("failure returns input unchanged", func(t *testing.T) {
		input := "no quoting here"
		out, err := detector.Visible(input)
		assert.Error(t, err)
		assert.Equal(t, input, out)
	})

	t.Run("attribution plus blanks above quote are dropped", func(t *testing.T) {
		input := "Visible part.\n\nOn Tue, Aug 25, 2026 at 1:00 PM Sam Ortiz wrote:\n> quoted"
		out, err := detector.Visible(input)
		assert.NoError(t, err)
		assert.Equal(t, "Visible part.", out)
	})
}

func TestMarkerPartitionerContract(t *testing.T) {
	partitioner := NewMarkerPartitioner()

	t.Run("cuts at earliest marker", func(t *testing.T) {
		input := `<p>reply</p><div class="gmail_quote"><p>old</p></div>`
		out, err := partitioner.Partition(input)
		assert.NoError(t, err)
		assert.Equal(t, "<p>reply</p>", out)
	})

	t.Run("marker at start returns input with error", func(t *testing.T) {
		input := `<blockquote type="cite"><p>all quoted</p></blockquote>`
		out, err := partitioner.Partition(input)
		assert.Error(t, err)
		assert.Equal(t, input, out)
	})

	t.Run("no marker returns input with error", func(t *testing.T) {
		input := `<p>just a message</p>`
		out, err := partitioner.Partition(input)
		assert.Error(t, err)
		assert.Equal(t, input, out)
	})
}
