package mandrill

import email "github.com/International-Combat-Archery-Alliance/mandrill-email"

var (
	_ email.Message = &Message{}
	_ email.Tagged  = &Message{}
)

// Message is a mail message carrying Mandrill tags and a subaccount. The zero
// value is an empty plain text message.
type Message struct {
	email.MailMessage

	tags       email.TagSet
	subaccount string
}

func NewMessage() *Message {
	return &Message{}
}

func (m *Message) AddTag(tag string) {
	m.tags.Add(tag)
}

// RemoveTag reports whether the tag was set.
func (m *Message) RemoveTag(tag string) bool {
	return m.tags.Remove(tag)
}

func (m *Message) Tags() []string {
	return m.tags.Values()
}

func (m *Message) SetSubaccount(id string) {
	m.subaccount = id
}

func (m *Message) Subaccount() string {
	return m.subaccount
}
