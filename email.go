package email

import (
	"context"
	"strings"
)

// Transport delivers messages to a mail provider.
type Transport interface {
	// CreateMessage returns a message suited to this transport.
	CreateMessage() Message
	Send(ctx context.Context, m Message) error
	// Errors returns per-recipient failures of the last Send, keyed by
	// email address.
	Errors() map[string]string
}

// Defaults holds the settings shared by every transport.
type Defaults struct {
	// From is used when a message has no sender.
	From *Address
	// ReplyTo is used when a message has no reply-to address.
	ReplyTo *Address
	// Bcc is added when a message has no bcc recipients.
	Bcc *Address
	// DebugTo replaces all recipients of every message when set.
	DebugTo *Address
	// LineBreak, when set, replaces line endings in plain text bodies.
	LineBreak string
}

// NormalizeLineBreaks rewrites CRLF, CR and LF line endings in s to the
// configured LineBreak.
func (d Defaults) NormalizeLineBreaks(s string) string {
	if d.LineBreak == "" || s == "" {
		return s
	}

	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if d.LineBreak == "\n" {
		return s
	}

	return strings.ReplaceAll(s, "\n", d.LineBreak)
}
