package mandrill

import (
	"testing"

	"github.com/stretchr/testify/assert"

	email "github.com/International-Combat-Archery-Alliance/mandrill-email"
)

func TestMessage_Tags(t *testing.T) {
	m := NewMessage()

	m.AddTag("welcome")
	m.AddTag("onboarding")
	m.AddTag("welcome")

	assert.Equal(t, []string{"welcome", "onboarding"}, m.Tags())
	assert.True(t, m.RemoveTag("welcome"))
	assert.False(t, m.RemoveTag("welcome"))
	assert.Equal(t, []string{"onboarding"}, m.Tags())
}

func TestMessage_Subaccount(t *testing.T) {
	m := NewMessage()
	assert.Equal(t, "", m.Subaccount())

	m.SetSubaccount("customer-42")
	assert.Equal(t, "customer-42", m.Subaccount())
}

func TestMessage_IsGenericMessage(t *testing.T) {
	m := NewMessage()
	m.SetSubject("Hi")
	m.AddTo(email.NewAddress("a@example.com", ""))

	var generic email.Message = m
	assert.Equal(t, "Hi", generic.Subject())
	assert.Len(t, generic.To(), 1)
}

func TestMessage_ZeroValue(t *testing.T) {
	var m Message

	m.SetSubject("Zero")
	m.AddTo(email.NewAddress("a@example.com", ""))
	m.SetBody("Hello", false)
	m.AddTag("zero")

	assert.Equal(t, "Zero", m.Subject())
	assert.Equal(t, "Hello", m.Body())
	assert.Equal(t, []string{"zero"}, m.Tags())
}
