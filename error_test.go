package email

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewServiceError("Mandrill service error", cause)

	assert.Equal(t, "SERVICE_ERROR: Mandrill service error. Cause: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, "VALIDATION_ERROR: subject is required.", NewValidationError("subject is required", nil).Error())
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		err      *Error
		expected ErrorReason
	}{
		{NewUnknownError("x", nil), REASON_UNKNOWN},
		{NewRateLimitedError("x", nil), REASON_RATE_LIMITED},
		{NewInvalidEmailError("x", nil), REASON_INVALID_EMAIL},
		{NewUnverifiedDomainError("x", nil), REASON_UNVERIFIED_DOMAIN},
		{NewMessageRejectedError("x", nil), REASON_MESSAGE_REJECTED},
		{NewServiceError("x", nil), REASON_SERVICE_ERROR},
		{NewValidationError("x", nil), REASON_VALIDATION_ERROR},
		{NewAuthenticationError("x", nil), REASON_AUTHENTICATION},
		{NewUnknownSubaccountError("x", nil), REASON_UNKNOWN_SUBACCOUNT},
	}

	for _, tt := range tests {
		t.Run(string(tt.expected), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Reason)
		})
	}
}
