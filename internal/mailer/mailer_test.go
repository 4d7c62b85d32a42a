package mailer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"recruitcli/internal/config"
)

func testConfig() config.MailConfig {
	return config.MailConfig{
		Host:    "smtp.example.com",
		Port:    587,
		Subject: "Weekly Recruitment Update",
		Timeout: time.Second,
	}
}

func TestSendRejectsInvalidSender(t *testing.T) {
	s := New(testConfig(), nil)

	err := s.Send(context.Background(),
		Credentials{User: "not-an-address", Password: "x"},
		"client@example.com", "subject", "body")
	assert.ErrorContains(t, err, "invalid sender address")
}

func TestSendRejectsInvalidRecipient(t *testing.T) {
	s := New(testConfig(), nil)

	err := s.Send(context.Background(),
		Credentials{User: "ops@example.com", Password: "x"},
		"broken recipient", "subject", "body")
	assert.ErrorContains(t, err, "invalid recipient address")
}
