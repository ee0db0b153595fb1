package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrlokans/attendance/internal/config"
)

func TestNew_SelectsImplementation(t *testing.T) {
	m := New(config.Mail{})
	assert.IsType(t, &LogMailer{}, m)

	m = New(config.Mail{SMTPHost: "smtp.example.com", SMTPPort: 587})
	assert.IsType(t, &SMTPMailer{}, m)
}

func TestLogMailer_Send(t *testing.T) {
	m := &LogMailer{}

	err := m.Send("alice@example.com", "Verify your email", "Dear Alice")

	assert.NoError(t, err)
}
