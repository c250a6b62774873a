package email

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
)

// MailLogger records one entry per sent message. dump is a textual rendering
// of the provider request without bodies or attachments.
type MailLogger interface {
	LogMail(subject, dump string, success bool)
}

var _ MailLogger = &AuditLog{}

// AuditLog writes mail records to a zerolog logger.
type AuditLog struct {
	logger zerolog.Logger
}

func NewAuditLog(logger zerolog.Logger) *AuditLog {
	return &AuditLog{
		logger: logger.With().Str("component", "mail").Logger(),
	}
}

func (a *AuditLog) LogMail(subject, dump string, success bool) {
	event := a.logger.Info()
	if !success {
		event = a.logger.Warn()
	}

	event = event.Str("subject", subject).Bool("success", success)
	if json.Valid([]byte(dump)) {
		event = event.RawJSON("request", []byte(dump))
	} else {
		event = event.Str("request", dump)
	}

	event.Msg("mail sent")
}

// LogMailSafely calls l.LogMail and turns a panic into an error so a broken
// logger cannot fail a send.
func LogMailSafely(l MailLogger, subject, dump string, success bool) (err error) {
	if l == nil {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mail logger panicked: %v", r)
		}
	}()

	l.LogMail(subject, dump, success)

	return nil
}
