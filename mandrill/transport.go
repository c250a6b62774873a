package mandrill

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net"
	"net/http"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"

	email "github.com/International-Combat-Archery-Alliance/mandrill-email"
)

var _ email.Transport = &Transport{}

// CcBccMode selects how cc and bcc recipients reach the API.
type CcBccMode int

const (
	// CcBccRecipientRole appends cc and bcc recipients to the recipient
	// list with their type set.
	CcBccRecipientRole CcBccMode = iota
	// CcBccHeader sends cc and bcc recipients as comma separated Cc and Bcc
	// headers.
	CcBccHeader
)

func (m CcBccMode) String() string {
	switch m {
	case CcBccHeader:
		return "header"
	default:
		return "recipient_role"
	}
}

func ParseCcBccMode(s string) (CcBccMode, error) {
	switch s {
	case "", "recipient_role":
		return CcBccRecipientRole, nil
	case "header":
		return CcBccHeader, nil
	}
	return CcBccRecipientRole, fmt.Errorf("unknown cc/bcc mode %q", s)
}

// Transport sends messages through the Mandrill messages/send call.
type Transport struct {
	client   MessagesClient
	defaults email.Defaults
	ccBcc    CcBccMode
	logger   email.MailLogger
	metrics  *Metrics
	newID    func() string

	mu         sync.RWMutex
	tags       email.TagSet
	subaccount string
	errors     map[string]string
}

type Option func(*Transport)

func WithDefaults(d email.Defaults) Option {
	return func(t *Transport) {
		t.defaults = d
	}
}

func WithDefaultFrom(a email.Address) Option {
	return func(t *Transport) {
		t.defaults.From = &a
	}
}

func WithDefaultReplyTo(a email.Address) Option {
	return func(t *Transport) {
		t.defaults.ReplyTo = &a
	}
}

func WithDefaultBcc(a email.Address) Option {
	return func(t *Transport) {
		t.defaults.Bcc = &a
	}
}

// WithDebugTo sends every message to a only.
func WithDebugTo(a email.Address) Option {
	return func(t *Transport) {
		t.defaults.DebugTo = &a
	}
}

func WithLineBreak(lb string) Option {
	return func(t *Transport) {
		t.defaults.LineBreak = lb
	}
}

func WithCcBccMode(m CcBccMode) Option {
	return func(t *Transport) {
		t.ccBcc = m
	}
}

func WithTags(tags ...string) Option {
	return func(t *Transport) {
		for _, tag := range tags {
			t.tags.Add(tag)
		}
	}
}

func WithSubaccount(id string) Option {
	return func(t *Transport) {
		t.subaccount = id
	}
}

func WithMailLogger(l email.MailLogger) Option {
	return func(t *Transport) {
		t.logger = l
	}
}

func WithMetrics(m *Metrics) Option {
	return func(t *Transport) {
		t.metrics = m
	}
}

// New creates a Transport backed by an HTTP client for apiKey.
func New(apiKey string, opts ...Option) *Transport {
	return NewTransport(NewClient(apiKey), opts...)
}

func NewTransport(client MessagesClient, opts ...Option) *Transport {
	t := &Transport{
		client: client,
		newID:  uuid.NewString,
		errors: map[string]string{},
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

func (t *Transport) CreateMessage() email.Message {
	return NewMessage()
}

// Send delivers m in a single API call. A returned error means the call
// failed and nothing was sent. Rejected and invalid recipients do not fail
// the call; they are reported by Errors.
func (t *Transport) Send(ctx context.Context, m email.Message) error {
	if isNilMessage(m) {
		return email.NewValidationError("message is required", nil)
	}

	t.mu.Lock()
	t.errors = map[string]string{}
	defaultTags := t.tags.Values()
	subaccount := t.subaccount
	t.mu.Unlock()

	req := t.buildRequest(m, defaultTags, subaccount)

	start := time.Now()
	results, err := t.client.SendMessage(ctx, req)
	if err != nil {
		t.metrics.observeSend(OutcomeError, time.Since(start))
		return categorizeError(err)
	}

	errs := classifyResults(results)

	t.mu.Lock()
	t.errors = errs
	t.mu.Unlock()

	outcome := OutcomeSuccess
	if len(errs) > 0 {
		outcome = OutcomePartial
	}
	t.metrics.observeSend(outcome, time.Since(start))
	t.metrics.observeRecipients(results)

	t.logMail(req, len(errs) == 0)

	return nil
}

// Errors returns the failed recipients of the last Send, keyed by email.
func (t *Transport) Errors() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return maps.Clone(t.errors)
}

// AddTag adds a tag sent with every message.
func (t *Transport) AddTag(tag string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.tags.Add(tag)
}

// RemoveTag reports whether the tag was set.
func (t *Transport) RemoveTag(tag string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.tags.Remove(tag)
}

func (t *Transport) Tags() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.tags.Values()
}

// SetSubaccount sets the subaccount used for messages without one.
func (t *Transport) SetSubaccount(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.subaccount = id
}

func (t *Transport) Subaccount() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.subaccount
}

func (t *Transport) buildRequest(m email.Message, defaultTags []string, subaccount string) *MessageRequest {
	req := &MessageRequest{
		Subject: m.Subject(),
		Headers: map[string]string{},
	}

	from := m.From()
	if from == nil {
		from = t.defaults.From
	}
	if from != nil {
		req.FromEmail = from.Email
		req.FromName = from.Name
	}

	req.To = t.recipients(m, req.Headers)

	replyTo := m.ReplyTo()
	if replyTo == nil {
		replyTo = t.defaults.ReplyTo
	}
	if replyTo != nil {
		req.Headers["Reply-To"] = replyTo.Email
	}

	if returnPath := m.ReturnPath(); returnPath != nil {
		req.Headers["Return-Path"] = returnPath.Email
	}

	if m.IsHTML() {
		req.HTML = m.Body()
		if alt, ok := m.Part(email.PartAlternative); ok {
			req.Text = t.defaults.NormalizeLineBreaks(string(alt.Body))
		}
	} else {
		req.Text = t.defaults.NormalizeLineBreaks(m.Body())
	}

	req.Attachments = attachmentsFromMessage(m)

	var tags email.TagSet
	if tagged, ok := m.(email.Tagged); ok {
		for _, tag := range tagged.Tags() {
			tags.Add(tag)
		}
		if s := tagged.Subaccount(); s != "" {
			subaccount = s
		}
	}
	for _, tag := range defaultTags {
		tags.Add(tag)
	}
	req.Tags = tags.Values()
	req.Subaccount = subaccount

	if len(req.Headers) == 0 {
		req.Headers = nil
	}

	return req
}

func (t *Transport) recipients(m email.Message, headers map[string]string) []Recipient {
	if t.defaults.DebugTo != nil {
		return []Recipient{recipient(*t.defaults.DebugTo, "")}
	}

	cc := m.Cc()
	bcc := m.Bcc()
	if len(bcc) == 0 && t.defaults.Bcc != nil {
		bcc = []email.Address{*t.defaults.Bcc}
	}

	to := make([]Recipient, 0, len(m.To())+len(cc)+len(bcc))
	for _, a := range m.To() {
		to = append(to, recipient(a, ""))
	}

	switch t.ccBcc {
	case CcBccHeader:
		if len(cc) > 0 {
			headers["Cc"] = email.JoinAddresses(cc)
		}
		if len(bcc) > 0 {
			headers["Bcc"] = email.JoinAddresses(bcc)
		}
	default:
		for _, a := range cc {
			to = append(to, recipient(a, RecipientTypeCc))
		}
		for _, a := range bcc {
			to = append(to, recipient(a, RecipientTypeBcc))
		}
	}

	return to
}

// isNilMessage also catches typed nil pointers stored in the interface.
func isNilMessage(m email.Message) bool {
	if m == nil {
		return true
	}
	v := reflect.ValueOf(m)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func recipient(a email.Address, kind string) Recipient {
	return Recipient{
		Email: a.Email,
		Name:  a.Name,
		Type:  kind,
	}
}

func attachmentsFromMessage(m email.Message) []Attachment {
	var attachments []Attachment

	for _, p := range m.Parts() {
		if p.Name == email.PartBody || p.Name == email.PartAlternative {
			continue
		}

		attachments = append(attachments, Attachment{
			Type:    p.MimeType,
			Name:    p.Name,
			Content: p.Body,
		})
	}

	return attachments
}

// classifyResults maps rejected and invalid recipients to an error string.
func classifyResults(results []RecipientResult) map[string]string {
	errs := map[string]string{}

	for _, r := range results {
		switch r.Status {
		case StatusRejected:
			errs[r.Email] = "Rejected: " + r.RejectReason
		case StatusInvalid:
			errs[r.Email] = "Invalid"
		}
	}

	return errs
}

type auditRecord struct {
	ID      string          `json:"id"`
	Request *MessageRequest `json:"request"`
}

// logMail records req without its bodies and attachments.
func (t *Transport) logMail(req *MessageRequest, success bool) {
	if t.logger == nil {
		return
	}

	stripped := *req
	stripped.Text = ""
	stripped.HTML = ""
	stripped.Attachments = nil

	dump, err := json.Marshal(auditRecord{ID: t.newID(), Request: &stripped})
	if err != nil {
		dump = []byte(fmt.Sprintf("%+v", stripped))
	}

	// A failing logger never fails the send.
	_ = email.LogMailSafely(t.logger, req.Subject, string(dump), success)
}

func categorizeError(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Name {
		case "Invalid_Key":
			return email.NewAuthenticationError("invalid Mandrill API key", err)
		case "Unknown_Subaccount":
			return email.NewUnknownSubaccountError("unknown Mandrill subaccount", err)
		case "ValidationError":
			return email.NewValidationError("request rejected by Mandrill validation", err)
		case "PaymentRequired":
			return email.NewMessageRejectedError("Mandrill account requires payment", err)
		case "ServiceUnavailable", "GeneralError":
			return email.NewServiceError("Mandrill service error", err)
		}

		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return email.NewRateLimitedError("Mandrill rate limit exceeded", err)
		case apiErr.StatusCode >= http.StatusInternalServerError:
			return email.NewServiceError(fmt.Sprintf("Mandrill API error (HTTP %d)", apiErr.StatusCode), err)
		}

		return email.NewUnknownError("Mandrill API error", err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return email.NewServiceError("Request timeout", err)
	}
	if errors.Is(err, context.Canceled) {
		return email.NewServiceError("Request canceled", err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return email.NewServiceError("Network error", err)
	}

	return email.NewUnknownError("failed to send email", err)
}
