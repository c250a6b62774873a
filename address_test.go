package email

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Address
	}{
		{
			name:     "bare address",
			input:    "jane@example.com",
			expected: Address{Email: "jane@example.com"},
		},
		{
			name:     "address with display name",
			input:    "Jane Doe <jane@example.com>",
			expected: Address{Email: "jane@example.com", Name: "Jane Doe"},
		},
		{
			name:     "surrounding whitespace",
			input:    "  jane@example.com ",
			expected: Address{Email: "jane@example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := ParseAddress(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, addr)
		})
	}
}

func TestParseAddress_Invalid(t *testing.T) {
	_, err := ParseAddress("not an address")
	require.Error(t, err)

	var emailErr *Error
	require.True(t, errors.As(err, &emailErr))
	assert.Equal(t, REASON_INVALID_EMAIL, emailErr.Reason)
	assert.NotNil(t, emailErr.Cause)
}

func TestParseAddressList(t *testing.T) {
	addrs, err := ParseAddressList("a@example.com, Bee <b@example.com>")
	require.NoError(t, err)
	assert.Equal(t, []Address{
		{Email: "a@example.com"},
		{Email: "b@example.com", Name: "Bee"},
	}, addrs)

	_, err = ParseAddressList("a@example.com, ???")
	assert.Error(t, err)
}

func TestAddressString(t *testing.T) {
	assert.Equal(t, "jane@example.com", NewAddress("jane@example.com", "").String())

	named := NewAddress("jane@example.com", "Jane Doe").String()
	parsed, err := ParseAddress(named)
	require.NoError(t, err)
	assert.Equal(t, NewAddress("jane@example.com", "Jane Doe"), parsed)
}

func TestJoinAddresses(t *testing.T) {
	assert.Equal(t, "", JoinAddresses(nil))
	assert.Equal(t, "a@example.com, b@example.com", JoinAddresses([]Address{
		{Email: "a@example.com"},
		{Email: "b@example.com"},
	}))
}
