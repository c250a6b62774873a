package email

import (
	"net/mail"
	"strings"
)

// Address is a single mailbox: a required email and an optional display name.
type Address struct {
	Email string
	Name  string
}

func NewAddress(email, name string) Address {
	return Address{Email: email, Name: name}
}

// ParseAddress parses an RFC 5322 address such as "Jane <jane@example.com>"
// or a bare "jane@example.com".
func ParseAddress(s string) (Address, error) {
	a, err := mail.ParseAddress(strings.TrimSpace(s))
	if err != nil {
		return Address{}, NewInvalidEmailError("invalid address "+s, err)
	}

	return Address{Email: a.Address, Name: a.Name}, nil
}

// ParseAddressList parses a comma separated list of addresses.
func ParseAddressList(s string) ([]Address, error) {
	list, err := mail.ParseAddressList(s)
	if err != nil {
		return nil, NewInvalidEmailError("invalid address list "+s, err)
	}

	addrs := make([]Address, len(list))
	for i, a := range list {
		addrs[i] = Address{Email: a.Address, Name: a.Name}
	}

	return addrs, nil
}

func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}

	return (&mail.Address{Name: a.Name, Address: a.Email}).String()
}

// JoinAddresses renders addrs as a comma separated header value.
func JoinAddresses(addrs []Address) string {
	s := make([]string, len(addrs))
	for i, a := range addrs {
		s[i] = a.String()
	}
	return strings.Join(s, ", ")
}
