package email

const (
	// PartBody names the part holding the rendered body.
	PartBody = "body"
	// PartAlternative names the plain text alternative of an HTML body.
	PartAlternative = "alternative"
)

const (
	MimeTypeTextPlain = "text/plain"
	MimeTypeTextHTML  = "text/html"
)

type Part struct {
	MimeType string
	Body     []byte
}

type NamedPart struct {
	Name string
	Part
}

// Message is what a transport reads from an outgoing email.
type Message interface {
	Subject() string
	From() *Address
	To() []Address
	Cc() []Address
	Bcc() []Address
	ReplyTo() *Address
	ReturnPath() *Address
	// IsHTML reports whether Body is HTML.
	IsHTML() bool
	Body() string
	Part(name string) (Part, bool)
	// Parts returns all parts, body and alternative included, in the order
	// they were added.
	Parts() []NamedPart
}

// Tagged is implemented by messages that carry provider tags and a
// subaccount.
type Tagged interface {
	Tags() []string
	Subaccount() string
}

var _ Message = &MailMessage{}

// MailMessage is the generic Message implementation. The zero value is an
// empty plain text message.
type MailMessage struct {
	subject    string
	from       *Address
	replyTo    *Address
	returnPath *Address
	to         []Address
	cc         []Address
	bcc        []Address
	html       bool
	parts      map[string]Part
	partNames  []string
}

func NewMailMessage() *MailMessage {
	return &MailMessage{}
}

func (m *MailMessage) SetSubject(subject string) {
	m.subject = subject
}

func (m *MailMessage) Subject() string {
	return m.subject
}

func (m *MailMessage) SetFrom(a Address) {
	m.from = &a
}

func (m *MailMessage) From() *Address {
	return m.from
}

func (m *MailMessage) AddTo(addrs ...Address) {
	m.to = append(m.to, addrs...)
}

func (m *MailMessage) To() []Address {
	return m.to
}

func (m *MailMessage) AddCc(addrs ...Address) {
	m.cc = append(m.cc, addrs...)
}

func (m *MailMessage) Cc() []Address {
	return m.cc
}

func (m *MailMessage) AddBcc(addrs ...Address) {
	m.bcc = append(m.bcc, addrs...)
}

func (m *MailMessage) Bcc() []Address {
	return m.bcc
}

func (m *MailMessage) SetReplyTo(a Address) {
	m.replyTo = &a
}

func (m *MailMessage) ReplyTo() *Address {
	return m.replyTo
}

func (m *MailMessage) SetReturnPath(a Address) {
	m.returnPath = &a
}

func (m *MailMessage) ReturnPath() *Address {
	return m.returnPath
}

// SetFromString parses s and sets it as the sender.
func (m *MailMessage) SetFromString(s string) error {
	a, err := ParseAddress(s)
	if err != nil {
		return err
	}
	m.SetFrom(a)
	return nil
}

// AddToString parses a comma separated address list and adds it to the
// recipients. Nothing is added when any address is malformed.
func (m *MailMessage) AddToString(s string) error {
	addrs, err := ParseAddressList(s)
	if err != nil {
		return err
	}
	m.AddTo(addrs...)
	return nil
}

func (m *MailMessage) AddCcString(s string) error {
	addrs, err := ParseAddressList(s)
	if err != nil {
		return err
	}
	m.AddCc(addrs...)
	return nil
}

func (m *MailMessage) AddBccString(s string) error {
	addrs, err := ParseAddressList(s)
	if err != nil {
		return err
	}
	m.AddBcc(addrs...)
	return nil
}

func (m *MailMessage) SetReplyToString(s string) error {
	a, err := ParseAddress(s)
	if err != nil {
		return err
	}
	m.SetReplyTo(a)
	return nil
}

func (m *MailMessage) SetReturnPathString(s string) error {
	a, err := ParseAddress(s)
	if err != nil {
		return err
	}
	m.SetReturnPath(a)
	return nil
}

// SetBody stores the body part. Switching a message from HTML to plain text
// drops a previously set alternative part.
func (m *MailMessage) SetBody(body string, html bool) {
	mimeType := MimeTypeTextPlain
	if html {
		mimeType = MimeTypeTextHTML
	}

	m.html = html
	m.AddPart(PartBody, Part{MimeType: mimeType, Body: []byte(body)})

	if !html {
		m.removePart(PartAlternative)
	}
}

// SetAlternative sets the plain text alternative of an HTML body.
func (m *MailMessage) SetAlternative(text string) {
	m.AddPart(PartAlternative, Part{MimeType: MimeTypeTextPlain, Body: []byte(text)})
}

func (m *MailMessage) IsHTML() bool {
	return m.html
}

func (m *MailMessage) Body() string {
	p, ok := m.parts[PartBody]
	if !ok {
		return ""
	}
	return string(p.Body)
}

// AddAttachment adds a named attachment. The body and alternative names are
// reserved.
func (m *MailMessage) AddAttachment(name, mimeType string, content []byte) error {
	if name == "" {
		return NewValidationError("attachment name is required", nil)
	}
	if name == PartBody || name == PartAlternative {
		return NewValidationError("attachment name "+name+" is reserved", nil)
	}

	m.AddPart(name, Part{MimeType: mimeType, Body: content})
	return nil
}

// AddPart sets the part stored under name. Replacing a part keeps its
// original position.
func (m *MailMessage) AddPart(name string, p Part) {
	if m.parts == nil {
		m.parts = make(map[string]Part)
	}
	if _, ok := m.parts[name]; !ok {
		m.partNames = append(m.partNames, name)
	}
	m.parts[name] = p
}

func (m *MailMessage) Part(name string) (Part, bool) {
	p, ok := m.parts[name]
	return p, ok
}

func (m *MailMessage) Parts() []NamedPart {
	parts := make([]NamedPart, 0, len(m.partNames))
	for _, name := range m.partNames {
		parts = append(parts, NamedPart{Name: name, Part: m.parts[name]})
	}
	return parts
}

func (m *MailMessage) removePart(name string) {
	if _, ok := m.parts[name]; !ok {
		return
	}

	delete(m.parts, name)
	for i, n := range m.partNames {
		if n == name {
			m.partNames = append(m.partNames[:i], m.partNames[i+1:]...)
			break
		}
	}
}
