package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"bare address", "pat@client.example", "pat@client.example"},
		{"mixed case", "Pat@Client.Example", "pat@client.example"},
		{"surrounding whitespace", "  pat@client.example  ", "pat@client.example"},
		{"display name form", "Pat Lee <pat@client.example>", "pat@client.example"},
		{"display name with brackets in name", "Pat <Lee> <pat@client.example>", "pat@client.example"},
		{"unclosed bracket left alone", "Pat <pat@client.example", "pat <pat@client.example"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeIdentifier(tt.input))
		})
	}
}

func TestKnownIdentifierSet(t *testing.T) {
	set := NewKnownIdentifierSet("Pat@Client.Example", "Dana Wu <dana@client.example>")

	assert.True(t, set.Contains("pat@client.example"))
	assert.True(t, set.Contains("PAT@CLIENT.EXAMPLE"))
	assert.True(t, set.Contains("dana@client.example"))
	assert.False(t, set.Contains("unknown@client.example"))

	set.Add("new@client.example")
	assert.True(t, set.Contains("New@Client.Example"))
}

func TestRawMessageBodies(t *testing.T) {
	t.Run("plain text preferred", func(t *testing.T) {
		m := &RawMessage{PlainText: "plain", MarkupBody: "<p>markup</p>"}
		assert.Equal(t, "plain", m.RawText())
		assert.True(t, m.HasBody())
	})

	t.Run("markup fallback", func(t *testing.T) {
		m := &RawMessage{MarkupBody: "<p>markup</p>"}
		assert.Equal(t, "<p>markup</p>", m.RawText())
		assert.True(t, m.HasBody())
	})

	t.Run("no body", func(t *testing.T) {
		m := &RawMessage{Sender: "pat@client.example"}
		assert.Equal(t, "", m.RawText())
		assert.False(t, m.HasBody())
	})
}
