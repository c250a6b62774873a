package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults_NormalizeLineBreaks(t *testing.T) {
	tests := []struct {
		name      string
		lineBreak string
		input     string
		expected  string
	}{
		{"unset keeps input", "", "a\r\nb\nc", "a\r\nb\nc"},
		{"lf", "\n", "a\r\nb\rc\nd", "a\nb\nc\nd"},
		{"crlf", "\r\n", "a\nb\r\nc", "a\r\nb\r\nc"},
		{"empty input", "\r\n", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Defaults{LineBreak: tt.lineBreak}
			assert.Equal(t, tt.expected, d.NormalizeLineBreaks(tt.input))
		})
	}
}
