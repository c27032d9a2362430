// Package ingest decodes already-fetched raw message bytes into the
// pipeline's RawMessage form. It owns no transport: bytes arrive from the
// provider-sync collaborator.
package ingest

import (
	"bytes"

	"github.com/jhillyerd/enmime"
	"github.com/sirupsen/logrus"

	"github.com/dbower44022/CRMExtender-sub003/pkg/types"
)

// Decoder turns RFC822 bytes into RawMessage values
type Decoder struct {
	logger *logrus.Logger
}

// NewDecoder creates a decoder
func NewDecoder(logger *logrus.Logger) *Decoder {
	return &Decoder{logger: logger}
}

// Decode parses a raw message. Malformed MIME degrades to treating the
// bytes as a plain-text body; the pipeline never sees a failure here.
func (d *Decoder) Decode(raw []byte) *types.RawMessage {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		d.logger.WithError(err).Debug("MIME parse failed, treating input as plain text")
		return &types.RawMessage{PlainText: string(raw)}
	}

	msg := &types.RawMessage{
		PlainText:  env.Text,
		MarkupBody: env.HTML,
		Subject:    env.GetHeader("Subject"),
	}

	if from, err := env.AddressList("From"); err == nil && len(from) > 0 {
		msg.Sender = types.NormalizeIdentifier(from[0].Address)
	} else {
		msg.Sender = types.NormalizeIdentifier(env.GetHeader("From"))
	}

	seen := map[string]bool{}
	for _, header := range []string{"From", "To", "Cc", "Bcc"} {
		addrs, err := env.AddressList(header)
		if err != nil {
			continue
		}
		for _, a := range addrs {
			id := types.NormalizeIdentifier(a.Address)
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			msg.Participants = append(msg.Participants, id)
		}
	}

	if !msg.HasBody() {
		// Some producers send headers only; keep whatever text survived
		msg.PlainText = string(raw)
	}

	d.logger.WithFields(logrus.Fields{
		"text_len":     len(msg.PlainText),
		"html_len":     len(msg.MarkupBody),
		"participants": len(msg.Participants),
	}).Debug("Decoded message")

	return msg
}
