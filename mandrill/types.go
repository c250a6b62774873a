package mandrill

// Recipient types for the "type" field of a Recipient.
const (
	RecipientTypeTo  = "to"
	RecipientTypeCc  = "cc"
	RecipientTypeBcc = "bcc"
)

// Delivery statuses reported per recipient.
const (
	StatusSent      = "sent"
	StatusQueued    = "queued"
	StatusScheduled = "scheduled"
	StatusRejected  = "rejected"
	StatusInvalid   = "invalid"
)

// MessageRequest is the "message" object of a messages/send call. It is
// built fresh for every send and never stored.
type MessageRequest struct {
	Subject     string            `json:"subject"`
	FromEmail   string            `json:"from_email,omitempty"`
	FromName    string            `json:"from_name,omitempty"`
	To          []Recipient       `json:"to"`
	Headers     map[string]string `json:"headers,omitempty"`
	Text        string            `json:"text,omitempty"`
	HTML        string            `json:"html,omitempty"`
	AutoText    bool              `json:"auto_text"`
	AutoHTML    bool              `json:"auto_html"`
	Attachments []Attachment      `json:"attachments,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Subaccount  string            `json:"subaccount,omitempty"`
}

type Recipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	// Type is empty for primary recipients.
	Type string `json:"type,omitempty"`
}

// Attachment holds raw content; encoding/json writes []byte as base64,
// which is the encoding the API expects.
type Attachment struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Content []byte `json:"content"`
}

// RecipientResult is one entry of the messages/send response.
type RecipientResult struct {
	Email        string `json:"email"`
	Status       string `json:"status"`
	RejectReason string `json:"reject_reason,omitempty"`
	ID           string `json:"_id,omitempty"`
}
