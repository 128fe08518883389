package notify

import (
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	sent []string
	err  error
}

func (f *fakeMailer) Send(to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakeAcknowledger struct {
	acked  bool
	nacked bool
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.acked = true
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	f.nacked = true
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	f.nacked = true
	return nil
}

func delivery(t *testing.T, m Message, headers amqp.Table) (amqp.Delivery, *fakeAcknowledger) {
	t.Helper()
	body, err := json.Marshal(m)
	require.NoError(t, err)
	ack := &fakeAcknowledger{}
	return amqp.Delivery{
		Acknowledger: ack,
		Body:         body,
		Headers:      headers,
		RoutingKey:   "notify." + string(m.Kind),
	}, ack
}

func TestWorkerHandle_DeliversAndAcks(t *testing.T) {
	mail := &fakeMailer{}
	w := NewWorker(mail, nil)

	msg, ack := delivery(t, Message{
		Kind:   KindOTPCode,
		To:     "client@vezba.local",
		Params: map[string]string{"code": "123456"},
	}, nil)

	w.handle(msg)

	assert.Equal(t, []string{"client@vezba.local"}, mail.sent)
	assert.True(t, ack.acked)
}

func TestWorkerHandle_BadPayloadIsRejected(t *testing.T) {
	mail := &fakeMailer{}
	w := NewWorker(mail, nil)
	ack := &fakeAcknowledger{}

	w.handle(amqp.Delivery{Acknowledger: ack, Body: []byte("not json")})

	assert.True(t, ack.nacked)
	assert.Empty(t, mail.sent)
}

func TestWorkerHandle_DropsAfterRetryCap(t *testing.T) {
	mail := &fakeMailer{err: errors.New("relay down")}
	w := NewWorker(mail, nil)

	msg, ack := delivery(t, Message{
		Kind: KindInvoiceIssued,
		To:   "client@vezba.local",
	}, amqp.Table{"x-retries": int32(maxRetries)})

	w.handle(msg)

	// Exhausted messages are dropped, not requeued forever.
	assert.True(t, ack.acked)
}

func TestRetryCount(t *testing.T) {
	assert.Equal(t, 0, retryCount(nil))
	assert.Equal(t, 0, retryCount(amqp.Table{"x-retries": "2"}))
	assert.Equal(t, 2, retryCount(amqp.Table{"x-retries": int32(2)}))
	assert.Equal(t, 3, retryCount(amqp.Table{"x-retries": int64(3)}))
}

func TestRender(t *testing.T) {
	subject, body := render(Message{
		Kind:   KindOTPCode,
		Params: map[string]string{"code": "654321"},
	})
	assert.Equal(t, "Your verification code", subject)
	assert.Contains(t, body, "654321")

	subject, body = render(Message{
		Kind: KindTermCanceled,
		Params: map[string]string{
			"trainer": "Teo Trener",
			"program": "Strength basics",
			"start":   "Mon, 07 Sep 2026 18:00:00 CET",
		},
	})
	assert.Equal(t, "Session canceled", subject)
	assert.Contains(t, body, "Teo Trener")
	assert.Contains(t, body, "Strength basics")

	subject, _ = render(Message{Kind: Kind("unknown")})
	assert.Equal(t, "Notification", subject)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "40.00 EUR", formatAmount(40))
	assert.Equal(t, "12.50 EUR", formatAmount(12.5))
}
