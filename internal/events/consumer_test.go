package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeMailer struct {
	sent    []EmailMessage
	sendErr error
}

func (f *fakeMailer) Send(_ context.Context, toEmail, fullName, subject, body string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, EmailMessage{ToEmail: toEmail, FullName: fullName, Subject: subject, Body: body})
	return nil
}

func newTestConsumer(m *fakeMailer) *EmailConsumer {
	return &EmailConsumer{
		queue:  "email_queue",
		mailer: m,
		log:    zap.NewNop(),
	}
}

func TestProcessDelivers(t *testing.T) {
	t.Parallel()

	m := &fakeMailer{}
	c := newTestConsumer(m)

	body, err := json.Marshal(EmailMessage{
		ToEmail:  "test@example.com",
		FullName: "Test User",
		Subject:  "Verify your account",
		Body:     "Click the link to verify: http://localhost/v1/auth/verify-email?token=abc",
	})
	require.NoError(t, err)

	require.NoError(t, c.Process(context.Background(), body))
	require.Len(t, m.sent, 1)
	assert.Equal(t, "test@example.com", m.sent[0].ToEmail)
	assert.Equal(t, "Test User", m.sent[0].FullName)
}

func TestProcessMalformedBody(t *testing.T) {
	t.Parallel()

	m := &fakeMailer{}
	c := newTestConsumer(m)

	// Must error so the delivery gets nacked and redelivered.
	assert.Error(t, c.Process(context.Background(), []byte("{not json")))
	assert.Empty(t, m.sent)
}

func TestProcessMissingRecipient(t *testing.T) {
	t.Parallel()

	m := &fakeMailer{}
	c := newTestConsumer(m)

	body, _ := json.Marshal(EmailMessage{Subject: "hi"})
	assert.Error(t, c.Process(context.Background(), body))
	assert.Empty(t, m.sent)
}

func TestProcessMailerFailurePropagates(t *testing.T) {
	t.Parallel()

	m := &fakeMailer{sendErr: errors.New("provider down")}
	c := newTestConsumer(m)

	body, _ := json.Marshal(EmailMessage{ToEmail: "test@example.com"})
	err := c.Process(context.Background(), body)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider down")
}

func TestEmailMessageWireFormat(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(EmailMessage{
		ToEmail:  "a@b.c",
		FullName: "A B",
		Subject:  "s",
		Body:     "b",
	})
	require.NoError(t, err)

	// Field names are the contract with the worker; keep them stable.
	var decoded map[string]string
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "a@b.c", decoded["to_email"])
	assert.Equal(t, "A B", decoded["full_name"])
}
