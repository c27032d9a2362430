package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbower44022/CRMExtender-sub003/internal/patterns"
)

func TestRemoveNoiseDeviceSignoffs(t *testing.T) {
	table := patterns.Default()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sent from my iphone at end",
			input:    "Let's meet tomorrow.\n\nSent from my iPhone",
			expected: "Let's meet tomorrow.",
		},
		{
			name:     "get outlook signoff",
			input:    "See you then.\n\nGet Outlook for iOS",
			expected: "See you then.",
		},
		{
			name:     "signoff removes trailing content too",
			input:    "Real message.\n\nSent from my Galaxy\nSome trailing ad",
			expected: "Real message.",
		},
		{
			name:     "no signoff leaves text alone",
			input:    "I sent the package from my house.",
			expected: "I sent the package from my house.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RemoveNoise(tt.input, table))
		})
	}
}

func TestRemoveNoiseDisclaimers(t *testing.T) {
	table := patterns.Default()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "confidentiality notice truncates to end",
			input:    "Numbers attached.\n\nThis email is confidential and intended solely for the addressee.\nIf received in error, please delete it.",
			expected: "Numbers attached.",
		},
		{
			name:     "environmental notice truncates",
			input:    "Draft attached.\n\nPlease consider the environment before printing this email.",
			expected: "Draft attached.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RemoveNoise(tt.input, table))
		})
	}
}

func TestRemoveNoiseSeparatorSignatures(t *testing.T) {
	table := patterns.Default()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "dash separator with marker content",
			input:    "Hi team, see attached.\n\n--\n\nSincere thanks,\nJohn Smith\nDirector\nTel: 555-0100\njohn@example.com",
			expected: "Hi team, see attached.",
		},
		{
			name:     "chained dash underscore dash passes",
			input:    "Best, Sharon\n\n--\n\n____\n\nSharon Rose\nSCORE Cleveland Co-Chair\nEmail:sharon.rose@example.org",
			expected: "Best, Sharon",
		},
		{
			name:     "dash separator with plain divider content stays",
			input:    "Part one of the plan.\n\n--\n\nhere is part two of the plan with more detail",
			expected: "Part one of the plan.\n\n--\n\nhere is part two of the plan with more detail",
		},
		{
			name:     "trailing dash separator with nothing after",
			input:    "Done for today.\n\n--",
			expected: "Done for today.",
		},
		{
			name:     "underscore separator with signature content",
			input:    "Report is ready.\n\n____\n\nJane Doe\njane@corp.example\n555-867-5309",
			expected: "Report is ready.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RemoveNoise(tt.input, table))
		})
	}
}

func TestRemoveNoiseValedictionSignature(t *testing.T) {
	table := patterns.Default()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "valediction anchors signature removal",
			input:    "I'll send the docs.\n\nThanks,\nJane Doe\nVP Marketing\njane@acme.example",
			expected: "I'll send the docs.",
		},
		{
			name:     "follow-up paragraph with a real sentence survives",
			input:    "Thanks,\n\nOn another note, the Johnson proposal needs your review today. Please call me at 555-0100.",
			expected: "Thanks,\n\nOn another note, the Johnson proposal needs your review today. Please call me at 555-0100.",
		},
		{
			name:     "trailing content without markers survives",
			input:    "Regards,\nsee you at the offsite next week",
			expected: "Regards,\nsee you at the offsite next week",
		},
		{
			name:     "valediction with name on same line is not an anchor",
			input:    "Best, Sharon",
			expected: "Best, Sharon",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RemoveNoise(tt.input, table))
		})
	}
}

func TestRemoveNoiseStandaloneSignature(t *testing.T) {
	table := patterns.Default()

	t.Run("name plus title line truncates", func(t *testing.T) {
		input := "Thanks for the update on the migration.\n\nJohn Smith\nDirector of Engineering\nTel: 555-0100"
		assert.Equal(t, "Thanks for the update on the migration.", RemoveNoise(input, table))
	})

	t.Run("contact-card-only message is preserved", func(t *testing.T) {
		input := "John Smith\nDirector of Engineering"
		assert.Equal(t, input, RemoveNoise(input, table))
	})

	t.Run("embedded image marker truncates from name line above", func(t *testing.T) {
		input := "Call me when you land.\n\nMaria Lopez\n[image: company logo]\nmaria@corp.example"
		assert.Equal(t, "Call me when you land.", RemoveNoise(input, table))
	})

	t.Run("all-caps name with credentials and markers", func(t *testing.T) {
		input := "Signed copy attached.\n\nROBERT JONES, MBA, CPA\nTel: 555-0188\nrobert@firm.example"
		assert.Equal(t, "Signed copy attached.", RemoveNoise(input, table))
	})
}

func TestRemoveNoisePromotionalAndUnsubscribe(t *testing.T) {
	table := patterns.Default()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "social block truncates",
			input:    "New features shipped this week.\n\nFollow us on social media\nLinkedIn | Twitter",
			expected: "New features shipped this week.",
		},
		{
			name:     "vcard prompt truncates",
			input:    "Slides attached.\n\nDownload my vCard here",
			expected: "Slides attached.",
		},
		{
			name:     "unsubscribe line truncates aggressively",
			input:    "Monthly digest content.\n\nClick here to unsubscribe from this list",
			expected: "Monthly digest content.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RemoveNoise(tt.input, table))
		})
	}
}

// The noise remover plus reflow must be stable on its own output; this is
// the regression corpus for that property.
func TestNoiseReflowIdempotence(t *testing.T) {
	table := patterns.Default()

	corpus := []string{
		"Let's meet tomorrow.\n\nSent from my iPhone",
		"Hi team, see attached.\n\n--\n\nSincere thanks,\nJohn Smith\nDirector\nTel: 555-0100\njohn@example.com",
		"Best, Sharon\n\n--\n\n____\n\nSharon Rose\nSCORE Cleveland Co-Chair\nEmail:sharon.rose@example.org",
		"A plain paragraph that wraps\nacross two lines without markers.",
		"Item list:\n- first\n- second\n- third",
		"Numbers attached.\n\nThis email is confidential.",
	}

	chain := func(s string) string {
		return Reflow(RemoveNoise(s, table))
	}

	for _, input := range corpus {
		once := chain(input)
		twice := chain(once)
		require.Equal(t, once, twice, "chain not stable on input %q", input)
	}
}
